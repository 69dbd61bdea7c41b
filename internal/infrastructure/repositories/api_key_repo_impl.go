package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"nature-widget.backend/internal/domain/entities"
	domainerrors "nature-widget.backend/internal/domain/errors"
	"nature-widget.backend/internal/infrastructure/models"
)

// ApiKeyRepository implements key store data operations
type ApiKeyRepository struct {
	db *gorm.DB
}

// NewApiKeyRepository creates a new api key repository
func NewApiKeyRepository(db *gorm.DB) *ApiKeyRepository {
	return &ApiKeyRepository{db: db}
}

// Create inserts a new key. It refuses to create a second active key for the
// same domain: callers run this inside a UnitOfWork transaction, and the
// partial unique index on (domain_id) WHERE is_active backstops the race two
// concurrent transactions can still win against the count.
func (r *ApiKeyRepository) Create(ctx context.Context, apiKey *entities.ApiKey) error {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var count int64
	err := db.Model(&models.ApiKey{}).
		Where("domain_id = ? AND is_active = ?", apiKey.DomainID, true).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return domainerrors.ErrAlreadyExists
	}

	m := &models.ApiKey{
		ID:           apiKey.ID,
		DomainID:     apiKey.DomainID,
		KeyPrefix:    apiKey.KeyPrefix,
		KeyHash:      apiKey.KeyHash,
		SecretMasked: apiKey.SecretMasked,
		IsActive:     apiKey.IsActive,
		CreatedAt:    apiKey.CreatedAt,
		UpdatedAt:    apiKey.UpdatedAt,
	}
	if apiKey.Description.Valid {
		m.Description = &apiKey.Description.String
	}

	if err := db.Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	apiKey.ID = m.ID
	return nil
}

// FindActiveByHash resolves a presented key by its SHA256, preloading the
// owning domain and account so the widget path spends a single read here.
// Revoked and unknown keys both come back ErrNotFound: the path fails closed.
func (r *ApiKeyRepository) FindActiveByHash(ctx context.Context, keyHash string) (*entities.ApiKey, error) {
	var m models.ApiKey
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Domain").
		Preload("Domain.Account").
		Where("key_hash = ? AND is_active = ?", keyHash, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	e := r.toEntity(&m)
	if m.Domain.ID != uuid.Nil {
		e.Domain = &entities.Domain{
			ID:        m.Domain.ID,
			AccountID: m.Domain.AccountID,
			Host:      m.Domain.Host,
			Kind:      entities.DomainKind(m.Domain.Kind),
			IsActive:  m.Domain.IsActive,
			CreatedAt: m.Domain.CreatedAt,
			UpdatedAt: m.Domain.UpdatedAt,
		}
		if m.Domain.Account.ID != uuid.Nil {
			e.Domain.Account = &entities.Account{
				ID:        m.Domain.Account.ID,
				Email:     m.Domain.Account.Email,
				Name:      m.Domain.Account.Name,
				Plan:      entities.PlanTier(m.Domain.Account.Plan),
				CreatedAt: m.Domain.Account.CreatedAt,
				UpdatedAt: m.Domain.Account.UpdatedAt,
			}
		}
	}
	return e, nil
}

// FindActiveByDomainID gets the single active key of a domain, if any
func (r *ApiKeyRepository) FindActiveByDomainID(ctx context.Context, domainID uuid.UUID) (*entities.ApiKey, error) {
	var m models.ApiKey
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("domain_id = ? AND is_active = ?", domainID, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// FindByID gets a key by ID regardless of state
func (r *ApiKeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error) {
	var m models.ApiKey
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// FindByAccountID lists key history for all of an account's domains, most
// recent first. Only hashes and masked secrets exist at this layer.
func (r *ApiKeyRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*entities.ApiKey, int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	base := db.Model(&models.ApiKey{}).
		Joins("JOIN domains ON domains.id = api_keys.domain_id").
		Where("domains.account_id = ?", accountID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := db.Model(&models.ApiKey{}).
		Select("api_keys.*, domains.host AS domain_host").
		Joins("JOIN domains ON domains.id = api_keys.domain_id").
		Where("domains.account_id = ?", accountID).
		Order("api_keys.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var rows []struct {
		models.ApiKey
		DomainHost string
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.ApiKey, 0, len(rows))
	for i := range rows {
		e := r.toEntity(&rows[i].ApiKey)
		e.DomainHost = rows[i].DomainHost
		out = append(out, e)
	}
	return out, total, nil
}

// Revoke marks a key revoked. Revoking an already-revoked key is a no-op.
func (r *ApiKeyRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.ApiKey{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"revoked_at": now,
			"updated_at": now,
		})
	return result.Error
}

func (r *ApiKeyRepository) toEntity(m *models.ApiKey) *entities.ApiKey {
	e := &entities.ApiKey{
		ID:           m.ID,
		DomainID:     m.DomainID,
		KeyPrefix:    m.KeyPrefix,
		KeyHash:      m.KeyHash,
		SecretMasked: m.SecretMasked,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Description != nil {
		e.Description = null.StringFrom(*m.Description)
	}
	if m.RevokedAt != nil {
		e.RevokedAt = null.TimeFrom(*m.RevokedAt)
	}
	return e
}
