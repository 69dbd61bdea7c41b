package repositories

import (
	"context"

	"github.com/google/uuid"
	"nature-widget.backend/internal/domain/entities"
)

// DomainRepository is the durable record of base and extra domains.
type DomainRepository interface {
	Create(ctx context.Context, domain *entities.Domain) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Domain, error)
	// FindByHost looks a host up across all accounts, active or not.
	// Cancelled hosts stay reserved to their original account.
	FindByHost(ctx context.Context, host string) (*entities.Domain, error)
	FindBaseByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Domain, error)
	FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*entities.Domain, error)
	FindActiveByAccountID(ctx context.Context, accountID uuid.UUID) ([]*entities.Domain, error)
	CountActiveByAccountID(ctx context.Context, accountID uuid.UUID) (int, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}
