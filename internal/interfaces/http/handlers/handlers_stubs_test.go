package handlers

import (
	"context"

	"github.com/google/uuid"
	"nature-widget.backend/internal/domain/entities"
	domainerrors "nature-widget.backend/internal/domain/errors"
	"nature-widget.backend/internal/usecases"
	redispkg "nature-widget.backend/pkg/redis"
)

type accountRepoStub struct {
	createFn     func(ctx context.Context, account *entities.Account) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*entities.Account, error)
	getByEmailFn func(ctx context.Context, email string) (*entities.Account, error)
}

func (s *accountRepoStub) Create(ctx context.Context, account *entities.Account) error {
	if s.createFn != nil {
		return s.createFn(ctx, account)
	}
	return nil
}
func (s *accountRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, domainerrors.ErrNotFound
}
func (s *accountRepoStub) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return nil, domainerrors.ErrNotFound
}

type domainRepoStub struct {
	createFn        func(ctx context.Context, domain *entities.Domain) error
	findByIDFn      func(ctx context.Context, id uuid.UUID) (*entities.Domain, error)
	findByHostFn    func(ctx context.Context, host string) (*entities.Domain, error)
	findByAccountFn func(ctx context.Context, accountID uuid.UUID) ([]*entities.Domain, error)
	countActiveFn   func(ctx context.Context, accountID uuid.UUID) (int, error)
	deactivateFn    func(ctx context.Context, id uuid.UUID) error
}

func (s *domainRepoStub) Create(ctx context.Context, domain *entities.Domain) error {
	if s.createFn != nil {
		return s.createFn(ctx, domain)
	}
	return nil
}
func (s *domainRepoStub) FindByID(ctx context.Context, id uuid.UUID) (*entities.Domain, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id)
	}
	return nil, domainerrors.ErrNotFound
}
func (s *domainRepoStub) FindByHost(ctx context.Context, host string) (*entities.Domain, error) {
	if s.findByHostFn != nil {
		return s.findByHostFn(ctx, host)
	}
	return nil, domainerrors.ErrNotFound
}
func (s *domainRepoStub) FindBaseByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Domain, error) {
	return nil, domainerrors.ErrNotFound
}
func (s *domainRepoStub) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*entities.Domain, error) {
	if s.findByAccountFn != nil {
		return s.findByAccountFn(ctx, accountID)
	}
	return []*entities.Domain{}, nil
}
func (s *domainRepoStub) FindActiveByAccountID(ctx context.Context, accountID uuid.UUID) ([]*entities.Domain, error) {
	if s.findByAccountFn != nil {
		return s.findByAccountFn(ctx, accountID)
	}
	return []*entities.Domain{}, nil
}
func (s *domainRepoStub) CountActiveByAccountID(ctx context.Context, accountID uuid.UUID) (int, error) {
	if s.countActiveFn != nil {
		return s.countActiveFn(ctx, accountID)
	}
	return 0, nil
}
func (s *domainRepoStub) Deactivate(ctx context.Context, id uuid.UUID) error {
	if s.deactivateFn != nil {
		return s.deactivateFn(ctx, id)
	}
	return nil
}

type keyRepoStub struct {
	createFn          func(ctx context.Context, apiKey *entities.ApiKey) error
	findActiveByDomFn func(ctx context.Context, domainID uuid.UUID) (*entities.ApiKey, error)
	findByIDFn        func(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error)
	findByAccountFn   func(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*entities.ApiKey, int64, error)
	revokeFn          func(ctx context.Context, id uuid.UUID) error
}

func (s *keyRepoStub) Create(ctx context.Context, apiKey *entities.ApiKey) error {
	if s.createFn != nil {
		return s.createFn(ctx, apiKey)
	}
	return nil
}
func (s *keyRepoStub) FindActiveByHash(context.Context, string) (*entities.ApiKey, error) {
	return nil, domainerrors.ErrNotFound
}
func (s *keyRepoStub) FindActiveByDomainID(ctx context.Context, domainID uuid.UUID) (*entities.ApiKey, error) {
	if s.findActiveByDomFn != nil {
		return s.findActiveByDomFn(ctx, domainID)
	}
	return nil, domainerrors.ErrNotFound
}
func (s *keyRepoStub) FindByID(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id)
	}
	return nil, domainerrors.ErrNotFound
}
func (s *keyRepoStub) FindByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*entities.ApiKey, int64, error) {
	if s.findByAccountFn != nil {
		return s.findByAccountFn(ctx, accountID, limit, offset)
	}
	return []*entities.ApiKey{}, 0, nil
}
func (s *keyRepoStub) Revoke(ctx context.Context, id uuid.UUID) error {
	if s.revokeFn != nil {
		return s.revokeFn(ctx, id)
	}
	return nil
}

// uowStub runs the function inline without a real transaction
type uowStub struct{}

func (uowStub) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type billingStub struct {
	createFn func(ctx context.Context, accountID uuid.UUID, host string, price float64) (*usecases.CheckoutSession, error)
	verifyFn func(ctx context.Context, sessionID string) (*usecases.CheckoutSession, error)
}

func (s *billingStub) CreateCheckoutSession(ctx context.Context, accountID uuid.UUID, host string, price float64) (*usecases.CheckoutSession, error) {
	if s.createFn != nil {
		return s.createFn(ctx, accountID, host, price)
	}
	return &usecases.CheckoutSession{ID: "sess_stub", CheckoutURL: "https://pay.example/sess_stub"}, nil
}
func (s *billingStub) VerifySession(ctx context.Context, sessionID string) (*usecases.CheckoutSession, error) {
	if s.verifyFn != nil {
		return s.verifyFn(ctx, sessionID)
	}
	return &usecases.CheckoutSession{ID: sessionID, Paid: true}, nil
}

type pendingStoreStub struct {
	store map[string]*redispkg.PendingPurchase
}

func newPendingStoreStub() *pendingStoreStub {
	return &pendingStoreStub{store: map[string]*redispkg.PendingPurchase{}}
}
func (s *pendingStoreStub) Put(_ context.Context, sessionID string, p *redispkg.PendingPurchase) error {
	s.store[sessionID] = p
	return nil
}
func (s *pendingStoreStub) Get(_ context.Context, sessionID string) (*redispkg.PendingPurchase, error) {
	if p, ok := s.store[sessionID]; ok {
		return p, nil
	}
	return nil, redispkg.ErrPurchaseNotFound
}
func (s *pendingStoreStub) Delete(_ context.Context, sessionID string) error {
	delete(s.store, sessionID)
	return nil
}
