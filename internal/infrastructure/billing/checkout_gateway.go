package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"nature-widget.backend/internal/usecases"
	"nature-widget.backend/pkg/utils"
)

// HostedCheckoutGateway talks to the hosted payment provider. The engine
// only initiates sessions and asks whether a session was paid; all payment
// UI and card handling lives on the provider side.
type HostedCheckoutGateway struct {
	baseURL    string
	httpClient *http.Client
}

// NewHostedCheckoutGateway creates a new checkout gateway
func NewHostedCheckoutGateway(baseURL string) *HostedCheckoutGateway {
	return &HostedCheckoutGateway{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateCheckoutSession registers a checkout with the provider and returns
// the session the dashboard should redirect the user to.
func (g *HostedCheckoutGateway) CreateCheckoutSession(ctx context.Context, accountID uuid.UUID, host string, price float64) (*usecases.CheckoutSession, error) {
	sessionID := utils.GenerateUUIDv7().String()

	body, err := json.Marshal(map[string]interface{}{
		"sessionId": sessionID,
		"reference": accountID.String(),
		"item":      host,
		"amount":    price,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checkout provider returned status %d", resp.StatusCode)
	}

	return &usecases.CheckoutSession{
		ID:          sessionID,
		CheckoutURL: fmt.Sprintf("%s/pay/%s", g.baseURL, sessionID),
	}, nil
}

// VerifySession asks the provider whether a session has been paid
func (g *HostedCheckoutGateway) VerifySession(ctx context.Context, sessionID string) (*usecases.CheckoutSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1/sessions/%s", g.baseURL, sessionID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &usecases.CheckoutSession{ID: sessionID, Paid: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checkout provider returned status %d", resp.StatusCode)
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &usecases.CheckoutSession{
		ID:   sessionID,
		Paid: payload.Status == "paid",
	}, nil
}
