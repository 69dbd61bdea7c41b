package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"nature-widget.backend/internal/domain/entities"
	domainerrors "nature-widget.backend/internal/domain/errors"
)

func TestAccountRepository_CreateAndGetters(t *testing.T) {
	db := newTestDB(t)
	createAccountTable(t, db)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	now := time.Now()
	account := &entities.Account{
		ID:           uuid.New(),
		Email:        "olive@popeye.com",
		Name:         "Olive Oyl",
		PasswordHash: "hashed",
		Plan:         entities.PlanStarter,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(ctx, account))

	byID, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, account.Email, byID.Email)
	require.Equal(t, entities.PlanStarter, byID.Plan)

	byEmail, err := repo.GetByEmail(ctx, "olive@popeye.com")
	require.NoError(t, err)
	require.Equal(t, account.ID, byEmail.ID)
}

func TestAccountRepository_NotFoundBranches(t *testing.T) {
	db := newTestDB(t)
	createAccountTable(t, db)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByEmail(ctx, "nobody@popeye.com")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
