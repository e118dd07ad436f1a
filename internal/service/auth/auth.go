package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/memojjang/memojjang/internal/apperrors"
	"github.com/memojjang/memojjang/internal/models"
	"github.com/memojjang/memojjang/internal/repository"
	"github.com/memojjang/memojjang/internal/service/auth/sessionmanager"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type Config struct {
	// Hasher to use during registration and login
	// BcryptHasher is used if not set
	Hasher PasswordHasher
}

// Auth service: registration, credential check and session lifecycle
type AuthService struct {
	sessions *sessionmanager.Manager
	hasher   PasswordHasher
	userRepo repository.UserRepo
}

func NewService(cfg Config, sessions *sessionmanager.Manager, userRepo repository.UserRepo) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	if sessions == nil || userRepo == nil {
		return nil, errors.New("session manager and user repo must not be nil")
	}

	return &AuthService{
		sessions: sessions,
		hasher:   hasher,
		userRepo: userRepo,
	}, nil
}

// Register creates the user
// Duplicate username or email surfaces as apperrors.ErrUsernameTaken / ErrEmailTaken
func (s *AuthService) Register(ctx context.Context, username string, email string, password string) (models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password, Err: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, username, email, hash)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Login checks the credentials
// Unknown username and wrong password both return apperrors.ErrUserNotFound,
// so a caller can't tell which part was wrong
func (s *AuthService) Login(ctx context.Context, username string, password string) (models.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		// Burn a comparison anyway so a missing user takes as long as a wrong password
		_ = s.hasher.Compare(enumerationGuardHash, password)
		return models.User{}, apperrors.ErrUserNotFound
	}

	err = s.hasher.Compare(user.HashedPassword, password)
	if err != nil {
		return models.User{}, apperrors.ErrUserNotFound
	}

	return user, nil
}

// CreateSession starts a session for the user and returns the cookie value
func (s *AuthService) CreateSession(ctx context.Context, user models.User) (models.IssuedSession, error) {
	return s.sessions.Create(ctx, user)
}

// CurrentUser resolves the session token to its user
func (s *AuthService) CurrentUser(ctx context.Context, token string) (models.User, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("session resolved but user is gone. Err: %w", err)
	}

	return user, nil
}

// Logout ends the session, idempotent
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Bcrypt hash of nothing in particular, compared against when the username
// does not exist
var enumerationGuardHash = func() string {
	h, err := DefaultHasher.Hash("memojjang-enumeration-guard")
	if err != nil {
		panic(err)
	}
	return h
}()
