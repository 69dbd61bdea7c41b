package entities

import (
	"time"

	"github.com/google/uuid"
)

// PlanTier represents the subscription level of an account
type PlanTier string

const (
	PlanStarter    PlanTier = "starter"
	PlanBusiness   PlanTier = "business"
	PlanEnterprise PlanTier = "enterprise"
)

// Valid reports whether the tier is one of the known plan tiers
func (p PlanTier) Valid() bool {
	switch p {
	case PlanStarter, PlanBusiness, PlanEnterprise:
		return true
	}
	return false
}

// Account represents a registered customer/tenant
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Plan         PlanTier  `json:"plan"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterAccountInput represents input for account signup.
// Domain is the base domain the widget will be embedded on; it is
// immutable after signup.
type RegisterAccountInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Password string `json:"password" binding:"required,min=8"`
	Domain   string `json:"domain" binding:"required"`
	Plan     string `json:"plan,omitempty"`
}

// LoginInput represents input for dashboard login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
