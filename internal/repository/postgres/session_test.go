package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memojjang/memojjang/internal/apperrors"
	"github.com/memojjang/memojjang/internal/models"
	"github.com/memojjang/memojjang/internal/testutil"
)

func Test_SessionRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	newSession := func(t *testing.T, tx pgx.Tx) models.Session {
		t.Helper()
		userRepo := UserRepo{DB: tx}
		user, err := userRepo.CreateUser(t.Context(), "sessionuser", "sessionuser@example.com", "hash")
		require.NoError(t, err)

		now := time.Now().Truncate(time.Second)
		return models.Session{
			ID:        uuid.New(),
			UserID:    user.ID,
			CreatedAt: now,
			ExpiresAt: now.Add(time.Hour),
		}
	}

	t.Run("create and get session", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := SessionRepo{DB: tx}
			session := newSession(t, tx)

			created, err := r.CreateSession(t.Context(), session)
			require.NoError(t, err)
			assert.Equal(t, session.ID, created.ID)
			assert.Nil(t, created.RevokedAt, "fresh session should not be revoked")

			got, err := r.GetSession(t.Context(), session.ID)
			require.NoError(t, err)
			assert.Equal(t, session.UserID, got.UserID)
			assert.Nil(t, got.RevokedAt)
		})
	})

	t.Run("get session not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := SessionRepo{DB: tx}

			_, err := r.GetSession(t.Context(), uuid.New())

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		})
	})

	t.Run("revoke session", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := SessionRepo{DB: tx}
			session := newSession(t, tx)
			_, err := r.CreateSession(t.Context(), session)
			require.NoError(t, err)

			err = r.RevokeSession(t.Context(), session.ID, time.Now())
			require.NoError(t, err)

			got, err := r.GetSession(t.Context(), session.ID)
			require.NoError(t, err)
			assert.NotNil(t, got.RevokedAt, "session should be marked revoked")
		})
	})

	t.Run("revoke keeps original revoked_at", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := SessionRepo{DB: tx}
			session := newSession(t, tx)
			_, err := r.CreateSession(t.Context(), session)
			require.NoError(t, err)

			first := time.Now().Truncate(time.Second)
			require.NoError(t, r.RevokeSession(t.Context(), session.ID, first))
			require.NoError(t, r.RevokeSession(t.Context(), session.ID, first.Add(time.Hour)))

			got, err := r.GetSession(t.Context(), session.ID)
			require.NoError(t, err)
			require.NotNil(t, got.RevokedAt)
			assert.WithinDuration(t, first, *got.RevokedAt, time.Second, "second revoke should not overwrite revoked_at")
		})
	})

	t.Run("revoke unknown session", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := SessionRepo{DB: tx}

			err := r.RevokeSession(t.Context(), uuid.New(), time.Now())

			assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		})
	})
}
