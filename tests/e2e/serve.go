package e2e

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/memojjang/memojjang/internal/handlers"
	"github.com/memojjang/memojjang/internal/handlers/middleware"
	"github.com/memojjang/memojjang/internal/handlers/render"
	"github.com/memojjang/memojjang/internal/logger"
	"github.com/memojjang/memojjang/internal/repository/postgres"
	"github.com/memojjang/memojjang/internal/service/auth"
	"github.com/memojjang/memojjang/internal/service/auth/sessionmanager"
	"github.com/memojjang/memojjang/internal/service/memo"
	"github.com/memojjang/memojjang/internal/testutil"
)

type Services struct {
	AuthService *auth.AuthService
	MemoService *memo.MemoService
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		sessions, err := sessionmanager.New(sessionmanager.Config{SecretKey: "test-secret"}, storage.Session())
		require.NoError(t, err, "session manager should be created without errors")

		as, err := auth.NewService(auth.Config{}, sessions, storage.User())
		require.NoError(t, err, "auth service starting error")

		ms := memo.NewService(storage.Memo())

		renderer, err := render.NewRenderer()
		require.NoError(t, err, "templates should parse")

		log := logger.NewNoOpLogger()
		authHandler := handlers.NewAuth(as, renderer, log, false)
		memoHandler := handlers.NewMemo(ms, renderer, log)

		router := handlers.NewRouter(
			authHandler,
			memoHandler,
			renderer,
			middleware.RequireLogin(as),
			log,
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService: as,
			MemoService: ms,
		})
	})
}

// NewClient returns a client with a cookie jar that does not follow
// redirects, so tests can assert Location headers
func NewClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err, "cookie jar should be created")

	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// PostForm submits a form encoded body the way a browser form does
func PostForm(t *testing.T, client *http.Client, targetURL string, values url.Values) *http.Response {
	t.Helper()

	resp, err := client.Post(targetURL, "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
	require.NoError(t, err, "form post should not fail")
	return resp
}
