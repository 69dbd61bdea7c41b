package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ApiKey represents a widget API key owned by a Domain. At most one key per
// domain is active at any time; revoked keys are kept as history.
type ApiKey struct {
	ID           uuid.UUID   `json:"id"`
	DomainID     uuid.UUID   `json:"domainId"`
	KeyPrefix    string      `json:"keyPrefix"`
	KeyHash      string      `json:"-"`
	SecretMasked string      `json:"secretMasked"`
	Description  null.String `json:"description,omitempty"`
	IsActive     bool        `json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
	RevokedAt    null.Time   `json:"revokedAt,omitempty"`
	UpdatedAt    time.Time   `json:"updatedAt"`

	// DomainHost is populated on list reads for dashboard display
	DomainHost string `json:"domainHost,omitempty"`

	// Relationships
	Domain *Domain `json:"-"`
}

// GenerateKeyInput represents input for generating or regenerating a key
type GenerateKeyInput struct {
	Domain      string `json:"domain" binding:"required"`
	Description string `json:"description,omitempty"`
}

// GenerateKeyResponse carries the raw secret. This is the only moment the
// raw secret is ever returned; afterwards only the masked form exists.
type GenerateKeyResponse struct {
	ID           uuid.UUID `json:"id"`
	DomainID     uuid.UUID `json:"domainId"`
	DomainHost   string    `json:"domainHost"`
	ApiKey       string    `json:"apiKey"`
	SecretMasked string    `json:"secretMasked"`
	CreatedAt    time.Time `json:"createdAt"`
}
