package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"nature-widget.backend/internal/domain/entities"
	domainerrors "nature-widget.backend/internal/domain/errors"
)

func newKeyLifecycleFixture() (*KeyLifecycleUsecase, *MockApiKeyRepository, *MockDomainRepository, *MockUnitOfWork) {
	apiKeyRepo := new(MockApiKeyRepository)
	domainRepo := new(MockDomainRepository)
	uow := new(MockUnitOfWork)
	return NewKeyLifecycleUsecase(apiKeyRepo, domainRepo, uow), apiKeyRepo, domainRepo, uow
}

func TestKeyLifecycle_Generate(t *testing.T) {
	ctx := context.Background()
	accountID := newTestUUID(t)
	domain := &entities.Domain{
		ID:        newTestUUID(t),
		AccountID: accountID,
		Host:      "popeye.com",
		Kind:      entities.DomainKindBase,
		IsActive:  true,
	}

	t.Run("issues a key and returns the raw secret once", func(t *testing.T) {
		uc, apiKeyRepo, domainRepo, uow := newKeyLifecycleFixture()

		domainRepo.On("FindByHost", ctx, "popeye.com").Return(domain, nil)
		uow.On("Do", mock.Anything, mock.Anything).Return(nil)
		apiKeyRepo.On("FindActiveByDomainID", mock.Anything, domain.ID).Return(nil, domainerrors.ErrNotFound)
		apiKeyRepo.On("Create", mock.Anything, mock.MatchedBy(func(k *entities.ApiKey) bool {
			return k.DomainID == domain.ID && k.IsActive && len(k.KeyHash) == 64
		})).Return(nil)

		resp, err := uc.Generate(ctx, accountID, &entities.GenerateKeyInput{Domain: "popeye.com"})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(resp.ApiKey, "nw_live_"))
		assert.Len(t, resp.ApiKey, len("nw_live_")+32)
		assert.Equal(t, "popeye.com", resp.DomainHost)
		// Masked form reveals only prefix and last four characters.
		assert.Equal(t, "nw_live_****"+resp.ApiKey[len(resp.ApiKey)-4:], resp.SecretMasked)
		assert.NotContains(t, resp.SecretMasked, resp.ApiKey[len("nw_live_"):len(resp.ApiKey)-4])
		apiKeyRepo.AssertExpectations(t)
	})

	t.Run("conflicts when the domain already holds an active key", func(t *testing.T) {
		uc, apiKeyRepo, domainRepo, uow := newKeyLifecycleFixture()

		domainRepo.On("FindByHost", ctx, "popeye.com").Return(domain, nil)
		uow.On("Do", mock.Anything, mock.Anything).Return(nil)
		apiKeyRepo.On("FindActiveByDomainID", mock.Anything, domain.ID).
			Return(&entities.ApiKey{ID: newTestUUID(t), DomainID: domain.ID, IsActive: true}, nil)

		_, err := uc.Generate(ctx, accountID, &entities.GenerateKeyInput{Domain: "popeye.com"})
		require.Error(t, err)

		var appErr *domainerrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, domainerrors.CodeConflict, appErr.Code)
		apiKeyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects a domain owned by another account", func(t *testing.T) {
		uc, _, domainRepo, _ := newKeyLifecycleFixture()

		foreign := &entities.Domain{ID: newTestUUID(t), AccountID: newTestUUID(t), Host: "popeye.com", IsActive: true}
		domainRepo.On("FindByHost", ctx, "popeye.com").Return(foreign, nil)

		_, err := uc.Generate(ctx, accountID, &entities.GenerateKeyInput{Domain: "popeye.com"})
		assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	})

	t.Run("rejects a cancelled domain", func(t *testing.T) {
		uc, _, domainRepo, _ := newKeyLifecycleFixture()

		cancelled := &entities.Domain{ID: newTestUUID(t), AccountID: accountID, Host: "popeye.com", IsActive: false}
		domainRepo.On("FindByHost", ctx, "popeye.com").Return(cancelled, nil)

		_, err := uc.Generate(ctx, accountID, &entities.GenerateKeyInput{Domain: "popeye.com"})
		assert.True(t, errors.Is(err, domainerrors.ErrAlreadyExists))
	})

	t.Run("rejects garbage host input", func(t *testing.T) {
		uc, _, _, _ := newKeyLifecycleFixture()

		_, err := uc.Generate(ctx, accountID, &entities.GenerateKeyInput{Domain: "not a host"})
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))
	})
}

func TestKeyLifecycle_Regenerate(t *testing.T) {
	ctx := context.Background()
	accountID := newTestUUID(t)
	domain := &entities.Domain{
		ID:        newTestUUID(t),
		AccountID: accountID,
		Host:      "popeye.com",
		IsActive:  true,
	}

	t.Run("revokes the current key and issues a replacement", func(t *testing.T) {
		uc, apiKeyRepo, domainRepo, uow := newKeyLifecycleFixture()

		current := &entities.ApiKey{ID: newTestUUID(t), DomainID: domain.ID, IsActive: true}
		domainRepo.On("FindByHost", ctx, "popeye.com").Return(domain, nil)
		uow.On("Do", mock.Anything, mock.Anything).Return(nil)
		apiKeyRepo.On("FindActiveByDomainID", mock.Anything, domain.ID).Return(current, nil)
		apiKeyRepo.On("Revoke", mock.Anything, current.ID).Return(nil)
		apiKeyRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := uc.Regenerate(ctx, accountID, &entities.GenerateKeyInput{Domain: "popeye.com"})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.ApiKey, "nw_live_"))
		apiKeyRepo.AssertExpectations(t)
	})

	t.Run("works for a domain that has no key yet", func(t *testing.T) {
		uc, apiKeyRepo, domainRepo, uow := newKeyLifecycleFixture()

		domainRepo.On("FindByHost", ctx, "popeye.com").Return(domain, nil)
		uow.On("Do", mock.Anything, mock.Anything).Return(nil)
		apiKeyRepo.On("FindActiveByDomainID", mock.Anything, domain.ID).Return(nil, domainerrors.ErrNotFound)
		apiKeyRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := uc.Regenerate(ctx, accountID, &entities.GenerateKeyInput{Domain: "popeye.com"})
		require.NoError(t, err)
		apiKeyRepo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})

	t.Run("rolls back the revoke when the insert fails", func(t *testing.T) {
		uc, apiKeyRepo, domainRepo, uow := newKeyLifecycleFixture()

		current := &entities.ApiKey{ID: newTestUUID(t), DomainID: domain.ID, IsActive: true}
		domainRepo.On("FindByHost", ctx, "popeye.com").Return(domain, nil)
		uow.On("Do", mock.Anything, mock.Anything).Return(nil)
		apiKeyRepo.On("FindActiveByDomainID", mock.Anything, domain.ID).Return(current, nil)
		apiKeyRepo.On("Revoke", mock.Anything, current.ID).Return(nil)
		apiKeyRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

		_, err := uc.Regenerate(ctx, accountID, &entities.GenerateKeyInput{Domain: "popeye.com"})
		assert.Error(t, err)
	})
}

func TestKeyLifecycle_Revoke(t *testing.T) {
	ctx := context.Background()
	accountID := newTestUUID(t)
	domainID := newTestUUID(t)
	keyID := newTestUUID(t)

	t.Run("revokes an owned active key", func(t *testing.T) {
		uc, apiKeyRepo, domainRepo, _ := newKeyLifecycleFixture()

		apiKeyRepo.On("FindByID", ctx, keyID).
			Return(&entities.ApiKey{ID: keyID, DomainID: domainID, IsActive: true}, nil)
		domainRepo.On("FindByID", ctx, domainID).
			Return(&entities.Domain{ID: domainID, AccountID: accountID}, nil)
		apiKeyRepo.On("Revoke", ctx, keyID).Return(nil)

		require.NoError(t, uc.Revoke(ctx, accountID, keyID))
		apiKeyRepo.AssertExpectations(t)
	})

	t.Run("revoking an already revoked key is a no-op", func(t *testing.T) {
		uc, apiKeyRepo, domainRepo, _ := newKeyLifecycleFixture()

		apiKeyRepo.On("FindByID", ctx, keyID).
			Return(&entities.ApiKey{ID: keyID, DomainID: domainID, IsActive: false}, nil)
		domainRepo.On("FindByID", ctx, domainID).
			Return(&entities.Domain{ID: domainID, AccountID: accountID}, nil)

		require.NoError(t, uc.Revoke(ctx, accountID, keyID))
		apiKeyRepo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})

	t.Run("a foreign key reads as not found", func(t *testing.T) {
		uc, apiKeyRepo, domainRepo, _ := newKeyLifecycleFixture()

		apiKeyRepo.On("FindByID", ctx, keyID).
			Return(&entities.ApiKey{ID: keyID, DomainID: domainID, IsActive: true}, nil)
		domainRepo.On("FindByID", ctx, domainID).
			Return(&entities.Domain{ID: domainID, AccountID: newTestUUID(t)}, nil)

		err := uc.Revoke(ctx, accountID, keyID)
		assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
		apiKeyRepo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})

	t.Run("unknown key reads as not found", func(t *testing.T) {
		uc, apiKeyRepo, _, _ := newKeyLifecycleFixture()

		apiKeyRepo.On("FindByID", ctx, keyID).Return(nil, domainerrors.ErrNotFound)

		err := uc.Revoke(ctx, accountID, keyID)
		assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	})
}

func TestKeyLifecycle_List(t *testing.T) {
	ctx := context.Background()
	accountID := newTestUUID(t)

	uc, apiKeyRepo, _, _ := newKeyLifecycleFixture()
	keys := []*entities.ApiKey{
		{ID: newTestUUID(t), SecretMasked: "nw_live_****abcd", DomainHost: "popeye.com"},
	}
	apiKeyRepo.On("FindByAccountID", ctx, accountID, 20, 0).Return(keys, int64(1), nil)

	got, meta, err := uc.List(ctx, accountID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(1), meta.TotalCount)
	assert.Equal(t, 1, meta.TotalPages)
}
