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

// DomainRepository implements domain registry data operations
type DomainRepository struct {
	db *gorm.DB
}

// NewDomainRepository creates a new domain repository
func NewDomainRepository(db *gorm.DB) *DomainRepository {
	return &DomainRepository{db: db}
}

// Create creates a new domain row
func (r *DomainRepository) Create(ctx context.Context, domain *entities.Domain) error {
	m := &models.Domain{
		ID:        domain.ID,
		AccountID: domain.AccountID,
		Host:      domain.Host,
		Kind:      string(domain.Kind),
		IsActive:  domain.IsActive,
		CreatedAt: domain.CreatedAt,
		UpdatedAt: domain.UpdatedAt,
	}
	if domain.Price.Valid {
		m.Price = &domain.Price.Float64
	}
	if domain.NextBillingAt.Valid {
		m.NextBillingAt = &domain.NextBillingAt.Time
	}
	if domain.BillingRef.Valid {
		m.BillingRef = &domain.BillingRef.String
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	domain.ID = m.ID
	return nil
}

// FindByID gets a domain by ID
func (r *DomainRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Domain, error) {
	var m models.Domain
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// FindByHost looks a host up across all accounts, active or not
func (r *DomainRepository) FindByHost(ctx context.Context, host string) (*entities.Domain, error) {
	var m models.Domain
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("host = ?", host).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// FindBaseByAccountID gets the account's base domain
func (r *DomainRepository) FindBaseByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Domain, error) {
	var m models.Domain
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("account_id = ? AND kind = ?", accountID, string(entities.DomainKindBase)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// FindByAccountID lists all domains of an account, active and inactive
func (r *DomainRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*entities.Domain, error) {
	var ms []models.Domain
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

// FindActiveByAccountID lists the account's authorized domain set: the base
// domain plus every active extra
func (r *DomainRepository) FindActiveByAccountID(ctx context.Context, accountID uuid.UUID) ([]*entities.Domain, error) {
	var ms []models.Domain
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("account_id = ? AND is_active = ?", accountID, true).
		Order("created_at ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

// FindLapsedExtras lists active extra domains whose next billing date fell
// before cutoff. Used by the billing lapse sweep.
func (r *DomainRepository) FindLapsedExtras(ctx context.Context, cutoff time.Time, limit int) ([]*entities.Domain, error) {
	var ms []models.Domain
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("kind = ? AND is_active = ? AND next_billing_at < ?", string(entities.DomainKindExtra), true, cutoff).
		Order("next_billing_at ASC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

// CountActiveByAccountID counts active domains for plan limit evaluation
func (r *DomainRepository) CountActiveByAccountID(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Domain{}).
		Where("account_id = ? AND is_active = ?", accountID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Deactivate marks a domain inactive. The row is retained; the host stays
// reserved to the account.
func (r *DomainRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Domain{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *DomainRepository) toEntity(m *models.Domain) *entities.Domain {
	e := &entities.Domain{
		ID:        m.ID,
		AccountID: m.AccountID,
		Host:      m.Host,
		Kind:      entities.DomainKind(m.Kind),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Price != nil {
		e.Price = null.Float64From(*m.Price)
	}
	if m.NextBillingAt != nil {
		e.NextBillingAt = null.TimeFrom(*m.NextBillingAt)
	}
	if m.BillingRef != nil {
		e.BillingRef = null.StringFrom(*m.BillingRef)
	}
	return e
}

func (r *DomainRepository) toEntities(ms []models.Domain) []*entities.Domain {
	out := make([]*entities.Domain, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out
}
