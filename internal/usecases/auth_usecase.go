package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"nature-widget.backend/internal/domain/entities"
	domainerrors "nature-widget.backend/internal/domain/errors"
	"nature-widget.backend/internal/domain/repositories"
	"nature-widget.backend/pkg/crypto"
	"nature-widget.backend/pkg/jwt"
)

// AuthUsecase handles dashboard signup and login. Signup is the only place
// a base domain is created; it is written in the same transaction as the
// account and is immutable afterwards.
type AuthUsecase struct {
	accountRepo repositories.AccountRepository
	domainRepo  repositories.DomainRepository
	uow         repositories.UnitOfWork
	jwtService  *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	accountRepo repositories.AccountRepository,
	domainRepo repositories.DomainRepository,
	uow repositories.UnitOfWork,
	jwtService *jwt.JWTService,
) *AuthUsecase {
	return &AuthUsecase{
		accountRepo: accountRepo,
		domainRepo:  domainRepo,
		uow:         uow,
		jwtService:  jwtService,
	}
}

// Register creates an account and its base domain atomically
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterAccountInput) (*entities.Account, *jwt.TokenPair, error) {
	host, err := NormalizeHost(input.Domain)
	if err != nil {
		return nil, nil, domainerrors.BadRequest("invalid base domain")
	}

	plan := entities.PlanStarter
	if input.Plan != "" {
		plan = entities.PlanTier(input.Plan)
		if !plan.Valid() {
			return nil, nil, domainerrors.BadRequest("unknown plan tier")
		}
	}

	if _, err := u.accountRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, nil, domainerrors.Conflict("email is already registered")
	} else if err != domainerrors.ErrNotFound {
		return nil, nil, err
	}

	if _, err := u.domainRepo.FindByHost(ctx, host); err == nil {
		return nil, nil, domainerrors.Conflict("domain is already registered")
	} else if err != domainerrors.ErrNotFound {
		return nil, nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, nil, domainerrors.InternalServerError("failed to hash password")
	}

	now := time.Now()
	account := &entities.Account{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: passwordHash,
		Plan:         plan,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.accountRepo.Create(txCtx, account); err != nil {
			return err
		}
		return u.domainRepo.Create(txCtx, &entities.Domain{
			AccountID: account.ID,
			Host:      host,
			Kind:      entities.DomainKindBase,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, nil, err
	}

	tokens, err := u.jwtService.GenerateTokenPair(account.ID, account.Email, string(account.Plan))
	if err != nil {
		return nil, nil, domainerrors.InternalServerError("failed to issue tokens")
	}
	return account, tokens, nil
}

// Login authenticates a dashboard user
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.Account, *jwt.TokenPair, error) {
	account, err := u.accountRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, nil, domainerrors.Unauthorized("invalid credentials")
		}
		return nil, nil, err
	}

	if !crypto.CheckPassword(input.Password, account.PasswordHash) {
		return nil, nil, domainerrors.Unauthorized("invalid credentials")
	}

	tokens, err := u.jwtService.GenerateTokenPair(account.ID, account.Email, string(account.Plan))
	if err != nil {
		return nil, nil, domainerrors.InternalServerError("failed to issue tokens")
	}
	return account, tokens, nil
}

// GetAccount returns the authenticated account
func (u *AuthUsecase) GetAccount(ctx context.Context, accountID uuid.UUID) (*entities.Account, error) {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("account not found")
		}
		return nil, err
	}
	return account, nil
}
