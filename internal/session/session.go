// Package session implements the sign-in gate in front of memo mutations.
//
// A sign-in issues an HS256-signed JWT that is stored in the memo home. The
// gate is open while that token verifies and has not expired.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ErrInvalidEmail is returned by SignIn for a malformed address.
var ErrInvalidEmail = errors.New("invalid email address")

const issuer = "memoapp"

// Gate reports whether a signed-in session exists.
type Gate interface {
	Active() bool
}

// Session describes a verified sign-in.
type Session struct {
	ID        string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Manager issues, verifies and revokes the session token stored at path.
type Manager struct {
	path   string
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager returns a Manager storing its token at path.
func NewManager(path string, secret []byte, ttl time.Duration) *Manager {
	return &Manager{path: path, secret: secret, ttl: ttl, now: time.Now}
}

// SignIn issues a new token for email, replacing any previous session.
func (m *Manager) SignIn(email string) (*Session, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEmail, email)
	}

	now := m.now().UTC().Truncate(time.Second)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Subject:   addr.Address,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("SignIn: sign: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return nil, fmt.Errorf("SignIn: %w", err)
	}
	if err := os.WriteFile(m.path, []byte(token), 0o600); err != nil {
		return nil, fmt.Errorf("SignIn: write token: %w", err)
	}
	return &Session{ID: claims.ID, Email: addr.Address, IssuedAt: now, ExpiresAt: now.Add(m.ttl)}, nil
}

// SignOut removes the stored token. Returns false when there was none.
func (m *Manager) SignOut() (bool, error) {
	err := os.Remove(m.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("SignOut: %w", err)
	}
	return true, nil
}

// Current returns the stored session when its token verifies.
func (m *Manager) Current() (*Session, bool) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, false
	}
	claims := &jwt.RegisteredClaims{}
	// Expiry is checked against m.now rather than the package-level clock.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithoutClaimsValidation(),
	)
	_, err = parser.ParseWithClaims(strings.TrimSpace(string(data)), claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || claims.Issuer != issuer || !claims.VerifyExpiresAt(m.now(), true) {
		return nil, false
	}
	return &Session{
		ID:        claims.ID,
		Email:     claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, true
}

// Active implements Gate.
func (m *Manager) Active() bool {
	_, ok := m.Current()
	return ok
}

// LoadOrCreateKey reads a hex-encoded signing key from path, creating a
// random 32-byte key there on first use.
func LoadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key, decErr := hex.DecodeString(strings.TrimSpace(string(data)))
		if decErr != nil || len(key) == 0 {
			return nil, fmt.Errorf("LoadOrCreateKey: malformed key file %s", path)
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("LoadOrCreateKey: %w", err)
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("LoadOrCreateKey: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("LoadOrCreateKey: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("LoadOrCreateKey: %w", err)
	}
	return key, nil
}
