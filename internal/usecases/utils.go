package usecases

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	domainerrors "nature-widget.backend/internal/domain/errors"
)

var apiKeyRandRead = rand.Read

func generateRandomHex(n int) (string, error) {
	bytes := make([]byte, n/2) // n is hex chars
	if _, err := apiKeyRandRead(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func sha256Hex(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// NormalizeHost reduces user input to a bare lowercase host: no scheme, no
// port, no path. "https://Blog.Popeye.com:443/x" becomes "blog.popeye.com".
func NormalizeHost(raw string) (string, error) {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return "", domainerrors.ErrInvalidInput
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil || u.Hostname() == "" {
			return "", domainerrors.ErrInvalidInput
		}
		s = u.Hostname()
	} else {
		// Strip any path and port from bare input.
		if i := strings.IndexByte(s, '/'); i >= 0 {
			s = s[:i]
		}
		if i := strings.IndexByte(s, ':'); i >= 0 {
			s = s[:i]
		}
	}

	if s == "" || strings.ContainsAny(s, " \t") || !strings.Contains(s, ".") {
		return "", domainerrors.ErrInvalidInput
	}
	return s, nil
}

// HostMatches reports whether an origin host is authorized by a registered
// host. A strict subdomain only matches across a dot boundary, so
// "notpopeye.com" never matches "popeye.com".
func HostMatches(originHost, registeredHost string, allowSubdomains bool) bool {
	if originHost == registeredHost {
		return true
	}
	if !allowSubdomains {
		return false
	}
	return strings.HasSuffix(originHost, "."+registeredHost)
}
