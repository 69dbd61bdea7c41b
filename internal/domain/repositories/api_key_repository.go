package repositories

import (
	"context"

	"github.com/google/uuid"
	"nature-widget.backend/internal/domain/entities"
)

// ApiKeyRepository is the durable record of widget API keys (the key store).
// Lookups by hash fail closed: a revoked or unknown key is ErrNotFound.
type ApiKeyRepository interface {
	Create(ctx context.Context, apiKey *entities.ApiKey) error
	FindActiveByHash(ctx context.Context, keyHash string) (*entities.ApiKey, error)
	FindActiveByDomainID(ctx context.Context, domainID uuid.UUID) (*entities.ApiKey, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error)
	FindByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*entities.ApiKey, int64, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}
