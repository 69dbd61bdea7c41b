package usecases

import (
	"context"
	"net/url"
	"strings"

	"nature-widget.backend/internal/domain/entities"
	domainerrors "nature-widget.backend/internal/domain/errors"
	"nature-widget.backend/internal/domain/repositories"
)

// WidgetAuthResult is attached to the request context after a successful
// authorization decision.
type WidgetAuthResult struct {
	Account     *entities.Account
	KeyDomain   *entities.Domain
	MatchedHost string
	OriginHost  string
}

// WidgetAuthUsecase is the request-hot-path authorization check: is the
// presented key valid, and is the requesting origin an authorized domain of
// the key's account. It spends at most two store reads per decision (key
// lookup with owner preloaded, then the active domain set) and never
// retries; any store failure denies the request.
type WidgetAuthUsecase struct {
	apiKeyRepo  repositories.ApiKeyRepository
	domainRepo  repositories.DomainRepository
	accountRepo repositories.AccountRepository
	devMode     bool
}

// NewWidgetAuthUsecase creates a new widget authorization usecase. devMode
// relaxes only the missing-Origin rule, nothing else.
func NewWidgetAuthUsecase(
	apiKeyRepo repositories.ApiKeyRepository,
	domainRepo repositories.DomainRepository,
	accountRepo repositories.AccountRepository,
	devMode bool,
) *WidgetAuthUsecase {
	return &WidgetAuthUsecase{
		apiKeyRepo:  apiKeyRepo,
		domainRepo:  domainRepo,
		accountRepo: accountRepo,
		devMode:     devMode,
	}
}

// Authorize decides a single widget request. secret is the presented API
// key; originHost is the bare host from the Origin/Referer header, empty if
// the request carried neither.
func (u *WidgetAuthUsecase) Authorize(ctx context.Context, secret, originHost string) (*WidgetAuthResult, error) {
	if secret == "" {
		return nil, domainerrors.InvalidKey()
	}

	key, err := u.apiKeyRepo.FindActiveByHash(ctx, sha256Hex([]byte(secret)))
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.InvalidKey()
		}
		// Store failure: fail closed.
		return nil, domainerrors.InternalError(err)
	}

	keyDomain, account, err := u.resolveOwner(ctx, key)
	if err != nil {
		return nil, err
	}
	if !keyDomain.IsActive {
		// Cancellation cascades key revocation, so this should not happen;
		// deny anyway rather than trust the cascade.
		return nil, domainerrors.InvalidKey()
	}

	if originHost == "" {
		if !u.devMode {
			return nil, domainerrors.MissingOrigin()
		}
		return &WidgetAuthResult{
			Account:     account,
			KeyDomain:   keyDomain,
			MatchedHost: keyDomain.Host,
		}, nil
	}

	domains, err := u.domainRepo.FindActiveByAccountID(ctx, account.ID)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	allowSubdomains := SubdomainMatchingEnabled(account.Plan)
	for _, d := range domains {
		if HostMatches(originHost, d.Host, allowSubdomains) {
			return &WidgetAuthResult{
				Account:     account,
				KeyDomain:   keyDomain,
				MatchedHost: d.Host,
				OriginHost:  originHost,
			}, nil
		}
	}

	return nil, domainerrors.DomainNotAuthorized()
}

// resolveOwner uses the preloaded relationships when present and falls back
// to individual reads otherwise.
func (u *WidgetAuthUsecase) resolveOwner(ctx context.Context, key *entities.ApiKey) (*entities.Domain, *entities.Account, error) {
	keyDomain := key.Domain
	if keyDomain == nil {
		d, err := u.domainRepo.FindByID(ctx, key.DomainID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return nil, nil, domainerrors.InvalidKey()
			}
			return nil, nil, domainerrors.InternalError(err)
		}
		keyDomain = d
	}

	account := keyDomain.Account
	if account == nil {
		a, err := u.accountRepo.GetByID(ctx, keyDomain.AccountID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return nil, nil, domainerrors.InvalidKey()
			}
			return nil, nil, domainerrors.InternalError(err)
		}
		account = a
	}

	return keyDomain, account, nil
}

// OriginHostFromHeaders extracts the requesting host from the Origin header,
// falling back to the Referer. Returns "" when neither yields a host.
func OriginHostFromHeaders(origin, referer string) string {
	for _, raw := range []string{origin, referer} {
		raw = strings.TrimSpace(raw)
		if raw == "" || raw == "null" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Hostname() == "" {
			continue
		}
		return strings.ToLower(u.Hostname())
	}
	return ""
}
