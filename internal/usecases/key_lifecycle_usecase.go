package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"nature-widget.backend/internal/domain/entities"
	domainerrors "nature-widget.backend/internal/domain/errors"
	"nature-widget.backend/internal/domain/repositories"
	"nature-widget.backend/pkg/utils"
)

const (
	apiKeyPrefix    = "nw_live_"
	apiKeySecretLen = 32 // hex chars after the prefix
)

// KeyLifecycleUsecase generates, rotates and revokes widget API keys against
// the key store, upholding "at most one active key per domain".
type KeyLifecycleUsecase struct {
	apiKeyRepo repositories.ApiKeyRepository
	domainRepo repositories.DomainRepository
	uow        repositories.UnitOfWork
}

// NewKeyLifecycleUsecase creates a new key lifecycle usecase
func NewKeyLifecycleUsecase(
	apiKeyRepo repositories.ApiKeyRepository,
	domainRepo repositories.DomainRepository,
	uow repositories.UnitOfWork,
) *KeyLifecycleUsecase {
	return &KeyLifecycleUsecase{
		apiKeyRepo: apiKeyRepo,
		domainRepo: domainRepo,
		uow:        uow,
	}
}

// Generate creates a key for a domain that has none. A pre-existing active
// key is a conflict on purpose: callers rotate with Regenerate, they never
// stack keys. The raw secret is returned here and never again.
func (u *KeyLifecycleUsecase) Generate(ctx context.Context, accountID uuid.UUID, input *entities.GenerateKeyInput) (*entities.GenerateKeyResponse, error) {
	domain, err := u.resolveOwnedDomain(ctx, accountID, input.Domain)
	if err != nil {
		return nil, err
	}

	var resp *entities.GenerateKeyResponse
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if _, err := u.apiKeyRepo.FindActiveByDomainID(txCtx, domain.ID); err == nil {
			return domainerrors.Conflict("domain already has an active key; regenerate instead")
		} else if err != domainerrors.ErrNotFound {
			return err
		}

		resp, err = u.createKey(txCtx, domain, input.Description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Regenerate atomically revokes the currently active key (if any) and
// creates a replacement. The widget path can never observe the domain with
// zero or two active keys: revoke and insert commit together.
func (u *KeyLifecycleUsecase) Regenerate(ctx context.Context, accountID uuid.UUID, input *entities.GenerateKeyInput) (*entities.GenerateKeyResponse, error) {
	domain, err := u.resolveOwnedDomain(ctx, accountID, input.Domain)
	if err != nil {
		return nil, err
	}

	var resp *entities.GenerateKeyResponse
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := u.apiKeyRepo.FindActiveByDomainID(txCtx, domain.ID)
		if err == nil {
			if err := u.apiKeyRepo.Revoke(txCtx, current.ID); err != nil {
				return err
			}
		} else if err != domainerrors.ErrNotFound {
			return err
		}

		resp, err = u.createKey(txCtx, domain, input.Description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Revoke revokes a key without creating a replacement. Idempotent: revoking
// an already-revoked key succeeds silently.
func (u *KeyLifecycleUsecase) Revoke(ctx context.Context, accountID uuid.UUID, keyID uuid.UUID) error {
	key, err := u.apiKeyRepo.FindByID(ctx, keyID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return domainerrors.NotFound("api key not found")
		}
		return err
	}

	domain, err := u.domainRepo.FindByID(ctx, key.DomainID)
	if err != nil {
		return err
	}
	if domain.AccountID != accountID {
		// Ownership mismatch reads as not-found so key IDs cannot be enumerated.
		return domainerrors.NotFound("api key not found")
	}

	if !key.IsActive {
		return nil
	}
	return u.apiKeyRepo.Revoke(ctx, key.ID)
}

// List returns the account's key history, most recent first, masked only.
func (u *KeyLifecycleUsecase) List(ctx context.Context, accountID uuid.UUID, page, limit int) ([]*entities.ApiKey, utils.PaginationMeta, error) {
	params := utils.GetPaginationParams(page, limit)
	keys, total, err := u.apiKeyRepo.FindByAccountID(ctx, accountID, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return keys, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

func (u *KeyLifecycleUsecase) resolveOwnedDomain(ctx context.Context, accountID uuid.UUID, rawHost string) (*entities.Domain, error) {
	host, err := NormalizeHost(rawHost)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid domain")
	}

	domain, err := u.domainRepo.FindByHost(ctx, host)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("domain not found")
		}
		return nil, err
	}
	if domain.AccountID != accountID {
		return nil, domainerrors.NotFound("domain not found")
	}
	if !domain.IsActive {
		return nil, domainerrors.Conflict("domain is cancelled; keys cannot be issued for it")
	}
	return domain, nil
}

func (u *KeyLifecycleUsecase) createKey(ctx context.Context, domain *entities.Domain, description string) (*entities.GenerateKeyResponse, error) {
	raw, err := generateRandomHex(apiKeySecretLen)
	if err != nil {
		return nil, domainerrors.InternalServerError("failed to generate key")
	}
	secret := apiKeyPrefix + raw

	entity := &entities.ApiKey{
		DomainID:     domain.ID,
		KeyPrefix:    apiKeyPrefix,
		KeyHash:      sha256Hex([]byte(secret)),
		SecretMasked: apiKeyPrefix + "****" + secret[len(secret)-4:],
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if description != "" {
		entity.Description = null.StringFrom(description)
	}

	if err := u.apiKeyRepo.Create(ctx, entity); err != nil {
		if err == domainerrors.ErrAlreadyExists {
			return nil, domainerrors.Conflict("domain already has an active key")
		}
		return nil, err
	}

	return &entities.GenerateKeyResponse{
		ID:           entity.ID,
		DomainID:     domain.ID,
		DomainHost:   domain.Host,
		ApiKey:       secret, // shown once
		SecretMasked: entity.SecretMasked,
		CreatedAt:    entity.CreatedAt,
	}, nil
}
