package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Manager owns the token lifecycle: storage, decoding, role derivation and
// advisory expiry enforcement. It implements api.TokenSource.
type Manager struct {
	store  Store
	logger *zap.Logger
}

// NewManager constructs a Manager over the given store.
func NewManager(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, logger: logger}
}

// Token returns the current bearer token, or "" when logged out.
func (m *Manager) Token() string {
	tok, err := m.store.Token()
	if err != nil {
		m.logger.Warn("read token", zap.Error(err))
		return ""
	}
	return tok
}

// Save stores a freshly issued token, recording its claim expiry (if any)
// alongside for diagnostics.
func (m *Manager) Save(tok string) error {
	exp := time.Time{}
	if t := expiry(Decode(tok)); t != nil {
		exp = *t
	}
	return m.store.Save(tok, exp)
}

// Clear removes the stored token.
func (m *Manager) Clear() error { return m.store.Clear() }

// Claims returns the decoded claims of the stored token, nil when absent or
// undecodable.
func (m *Manager) Claims() jwt.MapClaims { return Decode(m.Token()) }

// Roles returns the normalized role set of the current token.
func (m *Manager) Roles() []string { return NormalizeRoles(m.Claims()) }

// IsAdmin reports whether the current token carries an admin role. Advisory
// only; the server enforces authorization on every call.
func (m *Manager) IsAdmin() bool { return IsAdmin(m.Roles()) }

// IsAuthenticated reports whether a decodable, unexpired token is stored.
// An expired token is proactively cleared so later calls go out anonymous.
func (m *Manager) IsAuthenticated() bool {
	tok := m.Token()
	if tok == "" {
		return false
	}
	claims := Decode(tok)
	if claims == nil {
		return false
	}
	if t := expiry(claims); t != nil && t.Before(time.Now()) {
		if err := m.store.Clear(); err != nil {
			m.logger.Warn("clear expired token", zap.Error(err))
		}
		return false
	}
	return true
}

func expiry(claims jwt.MapClaims) *time.Time {
	if claims == nil {
		return nil
	}
	nd, err := claims.GetExpirationTime()
	if err != nil || nd == nil {
		return nil
	}
	return &nd.Time
}
