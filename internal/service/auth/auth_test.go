package auth

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/memojjang/memojjang/internal/apperrors"
	"github.com/memojjang/memojjang/internal/repository/postgres"
	"github.com/memojjang/memojjang/internal/service/auth/sessionmanager"
	"github.com/memojjang/memojjang/internal/testutil"
)

func Test_Auth(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Begin new db transaction and create new AuthService
	// Rollback transaction when test stops
	withTx := func(dbpool *pgxpool.Pool, sessionTTL time.Duration, t *testing.T, fn func(s *AuthService)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			userRepo := &postgres.UserRepo{DB: tx}
			sessionRepo := &postgres.SessionRepo{DB: tx}

			sessions, err := sessionmanager.New(
				sessionmanager.Config{
					SecretKey:  "test-secret-key",
					SessionTTL: sessionTTL,
				},
				sessionRepo,
			)
			require.NoError(t, err, "session manager should be created without errors")

			s, err := NewService(Config{}, sessions, userRepo)
			require.NoError(t, err, "auth service couldn't be started", err)

			fn(s)
		})
	}

	t.Run("new auth service defaults", func(t *testing.T) {
		sessions, err := sessionmanager.New(sessionmanager.Config{SecretKey: "key"}, nil)
		require.NoError(t, err)

		s, err := NewService(Config{}, sessions, &postgres.UserRepo{})
		require.NoError(t, err, "auth service should be created without errors")
		require.Equal(t, DefaultHasher, s.hasher, "default hasher should be set to BcryptHasher")
	})

	t.Run("new auth service requires deps", func(t *testing.T) {
		_, err := NewService(Config{}, nil, nil)
		require.Error(t, err)
	})

	t.Run("Register", func(t *testing.T) {
		t.Run("new user ok", func(t *testing.T) {
			withTx(pg.Pool, time.Hour, t, func(s *AuthService) {
				user, err := s.Register(t.Context(), "alice", "a@x.com", "pw12345")

				require.NoError(t, err, "registering new user should be ok")
				require.Equal(t, "alice", user.Username)
				require.Equal(t, "a@x.com", user.Email)
				require.NotEqual(t, "pw12345", user.HashedPassword, "password must never be stored as given")
				require.NotEmpty(t, user.HashedPassword)
			})
		})

		t.Run("fail if username taken", func(t *testing.T) {
			withTx(pg.Pool, time.Hour, t, func(s *AuthService) {
				_, err := s.Register(t.Context(), "alice", "a@x.com", "pw12345")
				require.NoError(t, err)

				_, err = s.Register(t.Context(), "alice", "other@x.com", "other-pwd")

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrUsernameTaken)
			})
		})

		t.Run("fail if email taken", func(t *testing.T) {
			withTx(pg.Pool, time.Hour, t, func(s *AuthService) {
				_, err := s.Register(t.Context(), "alice", "a@x.com", "pw12345")
				require.NoError(t, err)

				_, err = s.Register(t.Context(), "bob", "a@x.com", "other-pwd")

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrEmailTaken)
			})
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("existing user ok", func(t *testing.T) {
			withTx(pg.Pool, time.Hour, t, func(s *AuthService) {
				registered, err := s.Register(t.Context(), "alice", "a@x.com", "pw12345")
				require.NoError(t, err)

				user, err := s.Login(t.Context(), "alice", "pw12345")

				require.NoError(t, err)
				require.Equal(t, registered.ID, user.ID)
			})
		})

		tests := []struct {
			name     string
			username string
			password string
		}{
			{
				name:     "login fail if wrong password",
				username: "alice",
				password: "wrong",
			},
			{
				name:     "login fail if user not exists",
				username: "not-existed-user",
				password: "pw12345",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				withTx(pg.Pool, time.Hour, t, func(s *AuthService) {
					_, err := s.Register(t.Context(), "alice", "a@x.com", "pw12345")
					require.NoError(t, err)

					_, err = s.Login(t.Context(), tt.username, tt.password)

					require.Error(t, err)
					require.ErrorIs(t, err, apperrors.ErrUserNotFound, "wrong username and wrong password must be indistinguishable")
				})
			})
		}
	})

	t.Run("CurrentUser", func(t *testing.T) {
		t.Run("resolves fresh session", func(t *testing.T) {
			withTx(pg.Pool, time.Hour, t, func(s *AuthService) {
				registered, err := s.Register(t.Context(), "alice", "a@x.com", "pw12345")
				require.NoError(t, err)

				issued, err := s.CreateSession(t.Context(), registered)
				require.NoError(t, err)

				user, err := s.CurrentUser(t.Context(), issued.Value)

				require.NoError(t, err)
				require.Equal(t, registered.ID, user.ID)
			})
		})

		t.Run("fail for garbage token", func(t *testing.T) {
			withTx(pg.Pool, time.Hour, t, func(s *AuthService) {
				_, err := s.CurrentUser(t.Context(), "not-a-session")
				require.Error(t, err)
			})
		})

		t.Run("fail after logout", func(t *testing.T) {
			withTx(pg.Pool, time.Hour, t, func(s *AuthService) {
				registered, err := s.Register(t.Context(), "alice", "a@x.com", "pw12345")
				require.NoError(t, err)
				issued, err := s.CreateSession(t.Context(), registered)
				require.NoError(t, err)

				require.NoError(t, s.Logout(t.Context(), issued.Value))

				_, err = s.CurrentUser(t.Context(), issued.Value)
				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrSessionRevoked)
			})
		})
	})

	t.Run("Logout", func(t *testing.T) {
		t.Run("idempotent", func(t *testing.T) {
			withTx(pg.Pool, time.Hour, t, func(s *AuthService) {
				registered, err := s.Register(t.Context(), "alice", "a@x.com", "pw12345")
				require.NoError(t, err)
				issued, err := s.CreateSession(t.Context(), registered)
				require.NoError(t, err)

				require.NoError(t, s.Logout(t.Context(), issued.Value))
				require.NoError(t, s.Logout(t.Context(), issued.Value), "second logout should succeed too")
			})
		})

		t.Run("unknown token is fine", func(t *testing.T) {
			withTx(pg.Pool, time.Hour, t, func(s *AuthService) {
				require.NoError(t, s.Logout(t.Context(), "whatever"))
			})
		})
	})
}
