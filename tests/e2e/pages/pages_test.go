package pages

import (
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/memojjang/memojjang/internal/testutil"
	"github.com/memojjang/memojjang/tests/e2e"
)

func Test_Pages(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeWithTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		t.Run("home page for anonymous visitors", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				client := e2e.NewClient(t)

				resp, err := client.Get(srvURL + "/")
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusOK, resp.StatusCode)
				require.Contains(t, string(body), "/login/")
				require.Contains(t, string(body), "/register/")
			})
		})

		t.Run("home page greets a logged in user", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				_, err := s.AuthService.Register(t.Context(), "alice", "alice@example.com", "pw12345")
				require.NoError(t, err)

				client := e2e.NewClient(t)
				loginResp := e2e.PostForm(t, client, srvURL+"/login/", url.Values{
					"username": {"alice"},
					"password": {"pw12345"},
				})
				_ = loginResp.Body.Close()
				require.Equal(t, http.StatusFound, loginResp.StatusCode)

				resp, err := client.Get(srvURL + "/")
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusOK, resp.StatusCode)
				require.Contains(t, string(body), "alice")
				require.Contains(t, string(body), "/logout/")
			})
		})

		t.Run("unknown paths render the 404 page", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				client := e2e.NewClient(t)

				resp, err := client.Get(srvURL + "/nope/")
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusNotFound, resp.StatusCode)
			})
		})
	})
}
