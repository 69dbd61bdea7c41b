package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"nature-widget.backend/internal/domain/entities"
	domainerrors "nature-widget.backend/internal/domain/errors"
	"nature-widget.backend/internal/domain/repositories"
	"nature-widget.backend/pkg/metrics"
	redispkg "nature-widget.backend/pkg/redis"
)

// CheckoutSession is the billing collaborator's view of a purchase
type CheckoutSession struct {
	ID          string
	CheckoutURL string
	Paid        bool
}

// BillingGateway abstracts the external payment provider. The engine never
// trusts it with authorization decisions; it only initiates checkouts and
// verifies that a session was paid.
type BillingGateway interface {
	CreateCheckoutSession(ctx context.Context, accountID uuid.UUID, host string, price float64) (*CheckoutSession, error)
	VerifySession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

// PendingPurchaseStore parks purchases between initiate and verify
type PendingPurchaseStore interface {
	Put(ctx context.Context, sessionID string, p *redispkg.PendingPurchase) error
	Get(ctx context.Context, sessionID string) (*redispkg.PendingPurchase, error)
	Delete(ctx context.Context, sessionID string) error
}

const extraDomainBillingCycle = 30 * 24 * time.Hour

// DomainPurchaseUsecase orchestrates extra-domain purchase and cancellation
// against the domain registry, enforcing plan ceilings. Purchases are
// two-phase: initiate checkout, then verify; the domain row is created only
// on verified payment, never speculatively.
type DomainPurchaseUsecase struct {
	domainRepo  repositories.DomainRepository
	apiKeyRepo  repositories.ApiKeyRepository
	accountRepo repositories.AccountRepository
	uow         repositories.UnitOfWork
	billing     BillingGateway
	pending     PendingPurchaseStore
}

// NewDomainPurchaseUsecase creates a new domain purchase usecase
func NewDomainPurchaseUsecase(
	domainRepo repositories.DomainRepository,
	apiKeyRepo repositories.ApiKeyRepository,
	accountRepo repositories.AccountRepository,
	uow repositories.UnitOfWork,
	billing BillingGateway,
	pending PendingPurchaseStore,
) *DomainPurchaseUsecase {
	return &DomainPurchaseUsecase{
		domainRepo:  domainRepo,
		apiKeyRepo:  apiKeyRepo,
		accountRepo: accountRepo,
		uow:         uow,
		billing:     billing,
		pending:     pending,
	}
}

// ListDomains returns the account's full domain set (active and cancelled)
// together with freshly evaluated plan limits.
func (u *DomainPurchaseUsecase) ListDomains(ctx context.Context, accountID uuid.UUID) (*entities.DomainListResponse, error) {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	domains, err := u.domainRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	resp := &entities.DomainListResponse{ExtraDomains: []*entities.Domain{}}
	used := 0
	for _, d := range domains {
		if d.IsActive {
			used++
		}
		if d.Kind == entities.DomainKindBase {
			resp.BaseDomain = d
		} else {
			resp.ExtraDomains = append(resp.ExtraDomains, d)
		}
	}
	resp.Limits = EvaluatePlanLimits(account.Plan, used)
	return resp, nil
}

// Purchase starts an extra-domain checkout. The host is reserved in Redis
// for the session's lifetime only; nothing is written to the registry until
// the payment is verified.
func (u *DomainPurchaseUsecase) Purchase(ctx context.Context, accountID uuid.UUID, rawHost string) (*entities.PurchaseSessionResponse, error) {
	host, err := NormalizeHost(rawHost)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid domain")
	}

	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	limits, err := u.freshLimits(ctx, account)
	if err != nil {
		return nil, err
	}
	if !limits.CanAddDomain {
		metrics.DomainPurchases.WithLabelValues("limit_exceeded").Inc()
		return nil, domainerrors.LimitExceeded("plan does not allow another domain")
	}

	if err := u.checkHostAvailable(ctx, host); err != nil {
		metrics.DomainPurchases.WithLabelValues("host_conflict").Inc()
		return nil, err
	}

	session, err := u.billing.CreateCheckoutSession(ctx, accountID, host, limits.PricePerExtra)
	if err != nil {
		metrics.DomainPurchases.WithLabelValues("checkout_error").Inc()
		return nil, domainerrors.InternalServerError("failed to start checkout")
	}

	err = u.pending.Put(ctx, session.ID, &redispkg.PendingPurchase{
		AccountID: accountID,
		Host:      host,
		Price:     limits.PricePerExtra,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, domainerrors.InternalServerError("failed to store pending purchase")
	}

	metrics.DomainPurchases.WithLabelValues("initiated").Inc()
	return &entities.PurchaseSessionResponse{
		SessionID:   session.ID,
		CheckoutURL: session.CheckoutURL,
		Host:        host,
		Price:       limits.PricePerExtra,
	}, nil
}

// VerifyPurchase completes a checkout. Limits and host uniqueness are
// re-checked inside the transaction, not trusted from the initiate phase.
// Safe to re-invoke: a purchase already applied returns the existing domain.
func (u *DomainPurchaseUsecase) VerifyPurchase(ctx context.Context, accountID uuid.UUID, sessionID string) (*entities.Domain, error) {
	pending, err := u.pending.Get(ctx, sessionID)
	if err != nil {
		if err == redispkg.ErrPurchaseNotFound {
			return nil, domainerrors.NotFound("checkout session not found or expired")
		}
		return nil, err
	}
	if pending.AccountID != accountID {
		return nil, domainerrors.NotFound("checkout session not found or expired")
	}

	// Re-verify already-applied purchases without touching billing again.
	if existing, err := u.domainRepo.FindByHost(ctx, pending.Host); err == nil {
		if existing.AccountID == accountID && existing.Kind == entities.DomainKindExtra {
			return existing, nil
		}
		return nil, domainerrors.Conflict("domain is already registered")
	} else if err != domainerrors.ErrNotFound {
		return nil, err
	}

	session, err := u.billing.VerifySession(ctx, sessionID)
	if err != nil {
		return nil, domainerrors.InternalServerError("failed to verify checkout session")
	}
	if !session.Paid {
		return nil, domainerrors.BadRequest("checkout session is not paid")
	}

	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var created *entities.Domain
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		limits, err := u.freshLimits(txCtx, account)
		if err != nil {
			return err
		}
		if !limits.CanAddDomain {
			return domainerrors.LimitExceeded("plan does not allow another domain")
		}
		if err := u.checkHostAvailable(txCtx, pending.Host); err != nil {
			return err
		}

		now := time.Now()
		created = &entities.Domain{
			AccountID:     accountID,
			Host:          pending.Host,
			Kind:          entities.DomainKindExtra,
			IsActive:      true,
			Price:         null.Float64From(pending.Price),
			NextBillingAt: null.TimeFrom(now.Add(extraDomainBillingCycle)),
			BillingRef:    null.StringFrom(sessionID),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return u.domainRepo.Create(txCtx, created)
	})
	if err != nil {
		metrics.DomainPurchases.WithLabelValues("verify_failed").Inc()
		return nil, err
	}

	_ = u.pending.Delete(ctx, sessionID)
	metrics.DomainPurchases.WithLabelValues("completed").Inc()
	return created, nil
}

// Cancel deactivates an extra domain. Unconditional, no payment dependency,
// idempotent. Any active key of the domain is revoked in the same
// transaction: a cancelled domain must never hold a live key.
func (u *DomainPurchaseUsecase) Cancel(ctx context.Context, accountID uuid.UUID, domainID uuid.UUID) error {
	domain, err := u.domainRepo.FindByID(ctx, domainID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return domainerrors.NotFound("domain not found")
		}
		return err
	}
	if domain.AccountID != accountID {
		return domainerrors.NotFound("domain not found")
	}
	if domain.Kind == entities.DomainKindBase {
		return domainerrors.BadRequest("base domain cannot be cancelled")
	}
	if !domain.IsActive {
		return nil
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.domainRepo.Deactivate(txCtx, domain.ID); err != nil {
			return err
		}

		key, err := u.apiKeyRepo.FindActiveByDomainID(txCtx, domain.ID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return nil
			}
			return err
		}
		return u.apiKeyRepo.Revoke(txCtx, key.ID)
	})
}

func (u *DomainPurchaseUsecase) freshLimits(ctx context.Context, account *entities.Account) (entities.PlanLimits, error) {
	used, err := u.domainRepo.CountActiveByAccountID(ctx, account.ID)
	if err != nil {
		return entities.PlanLimits{}, err
	}
	return EvaluatePlanLimits(account.Plan, used), nil
}

func (u *DomainPurchaseUsecase) checkHostAvailable(ctx context.Context, host string) error {
	_, err := u.domainRepo.FindByHost(ctx, host)
	if err == nil {
		// Registered to someone, active or not. Cancelled hosts stay
		// reserved to their original account.
		return domainerrors.Conflict("domain is already registered")
	}
	if err != domainerrors.ErrNotFound {
		return err
	}
	return nil
}
