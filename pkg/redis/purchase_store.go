package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// ErrPurchaseNotFound is returned for unknown or expired checkout sessions
var ErrPurchaseNotFound = errors.New("pending purchase not found")

// PendingPurchase parks an extra-domain checkout between initiate and verify.
// No domains row exists until the payment is verified; if the session expires
// the reservation simply evaporates.
type PendingPurchase struct {
	AccountID uuid.UUID `json:"accountId"`
	Host      string    `json:"host"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

// PurchaseStore keeps pending purchases in Redis keyed by checkout session ID
type PurchaseStore struct {
	ttl time.Duration
}

var (
	setPurchaseValue = Set
	getPurchaseValue = Get
	delPurchaseValue = Del
)

// NewPurchaseStore creates a new purchase store
func NewPurchaseStore(ttl time.Duration) *PurchaseStore {
	return &PurchaseStore{ttl: ttl}
}

// Put stores a pending purchase under the checkout session ID
func (s *PurchaseStore) Put(ctx context.Context, sessionID string, p *PendingPurchase) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return setPurchaseValue(ctx, "purchase:"+sessionID, data, s.ttl)
}

// Get retrieves a pending purchase by checkout session ID
func (s *PurchaseStore) Get(ctx context.Context, sessionID string) (*PendingPurchase, error) {
	raw, err := getPurchaseValue(ctx, "purchase:"+sessionID)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}

	var p PendingPurchase
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a pending purchase once the domain row has been created
func (s *PurchaseStore) Delete(ctx context.Context, sessionID string) error {
	return delPurchaseValue(ctx, "purchase:"+sessionID)
}
