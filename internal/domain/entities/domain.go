package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// DomainKind distinguishes the signup base domain from purchased extras
type DomainKind string

const (
	DomainKindBase  DomainKind = "base"
	DomainKindExtra DomainKind = "extra"
)

// Domain represents a host an account is authorized to serve the widget from.
// Extra domains become inactive on cancellation but are retained: the host
// stays reserved to its original account so a cancelled domain can never be
// hijacked by another tenant.
type Domain struct {
	ID            uuid.UUID    `json:"id"`
	AccountID     uuid.UUID    `json:"accountId"`
	Host          string       `json:"host"`
	Kind          DomainKind   `json:"kind"`
	IsActive      bool         `json:"isActive"`
	Price         null.Float64 `json:"price,omitempty"`
	NextBillingAt null.Time    `json:"nextBillingAt,omitempty"`
	BillingRef    null.String  `json:"-"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`

	// Relationships
	Account *Account `json:"-"`
}

// PurchaseDomainInput represents input for starting an extra-domain checkout
type PurchaseDomainInput struct {
	Domain string `json:"domain" binding:"required"`
}

// PurchaseSessionResponse is returned when a checkout session has been
// created. No Domain row exists yet at this point.
type PurchaseSessionResponse struct {
	SessionID   string  `json:"sessionId"`
	CheckoutURL string  `json:"checkoutUrl"`
	Host        string  `json:"host"`
	Price       float64 `json:"price"`
}

// DomainListResponse is the dashboard view of an account's domain set
type DomainListResponse struct {
	BaseDomain   *Domain    `json:"baseDomain"`
	ExtraDomains []*Domain  `json:"extraDomains"`
	Limits       PlanLimits `json:"limits"`
}
