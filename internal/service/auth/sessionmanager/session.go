package sessionmanager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/memojjang/memojjang/internal/apperrors"
	"github.com/memojjang/memojjang/internal/models"
	"github.com/memojjang/memojjang/internal/repository"
)

const (
	defaultSessionTTL    = 14 * 24 * time.Hour
	defaultSigningMethod = "HS256"
)

// Claims of the signed session cookie
// The cookie itself carries no user data, only the session row id
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID uuid.UUID `json:"sid"`
}

// Session manager with sensible defaults
type Config struct {
	// Secret key to sign session cookie values
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set then default is used
	Alg string

	// Session lifetime
	// If not set then default is used
	SessionTTL time.Duration
}

// Manager creates and resolves browser sessions.
// The signed cookie value references a sessions row, so a session can be
// revoked server side no matter what the browser still holds.
type Manager struct {
	key string
	alg jwt.SigningMethod
	ttl time.Duration

	sessionRepo repository.SessionRepo
}

func New(cfg Config, sessionRepo repository.SessionRepo) (*Manager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	return &Manager{
		key:         cfg.SecretKey,
		alg:         jwt.GetSigningMethod(cfg.Alg),
		ttl:         cfg.SessionTTL,
		sessionRepo: sessionRepo,
	}, nil
}

// TTL the manager issues sessions with
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create persists a new session for the user and returns the signed
// cookie value to hand to the browser
func (m *Manager) Create(ctx context.Context, user models.User) (models.IssuedSession, error) {
	var issued models.IssuedSession
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(m.ttl)

	session, err := m.sessionRepo.CreateSession(ctx, models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: expiresAt,
		RevokedAt: nil,
	})
	if err != nil {
		return issued, fmt.Errorf("error while saving session. Err: %w", err)
	}

	token := jwt.NewWithClaims(
		m.alg,
		SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			SessionID: session.ID,
		},
	)
	value, err := token.SignedString([]byte(m.key))
	if err != nil {
		return issued, fmt.Errorf("error while signing session token. Err: %w", err)
	}

	return models.IssuedSession{Value: value, ExpiresAt: expiresAt}, nil
}

// Resolve returns the user id the token belongs to
// Fails for forged, expired and revoked sessions
func (m *Manager) Resolve(ctx context.Context, raw string) (uuid.UUID, error) {
	session, err := m.lookup(ctx, raw)
	if err != nil {
		return uuid.Nil, err
	}

	if session.RevokedAt != nil {
		return uuid.Nil, fmt.Errorf("error while resolving session. Err: %w", apperrors.ErrSessionRevoked)
	}

	if session.ExpiresAt.Before(time.Now()) {
		return uuid.Nil, fmt.Errorf("error while resolving session. Err: %w", apperrors.ErrSessionExpired)
	}

	return session.UserID, nil
}

// Revoke ends the session
// Idempotent: revoking an already dead or unknown session is not an error
func (m *Manager) Revoke(ctx context.Context, raw string) error {
	session, err := m.lookup(ctx, raw)
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return nil
	case err != nil:
		return err
	}

	err = m.sessionRepo.RevokeSession(ctx, session.ID, time.Now())
	if err != nil && !errors.Is(err, apperrors.ErrSessionNotFound) {
		return fmt.Errorf("error while revoking session. Err: %w", err)
	}

	return nil
}

func (m *Manager) lookup(ctx context.Context, raw string) (models.Session, error) {
	claims := &SessionClaims{}

	_, err := jwt.ParseWithClaims(
		raw,
		claims,
		func(t *jwt.Token) (any, error) {
			return []byte(m.key), nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)
	if err != nil {
		return models.Session{}, fmt.Errorf("error while parsing session token: %w", apperrors.ErrSessionNotFound)
	}

	session, err := m.sessionRepo.GetSession(ctx, claims.SessionID)
	if err != nil {
		return session, fmt.Errorf("error while loading session. Err: %w", err)
	}

	return session, nil
}
