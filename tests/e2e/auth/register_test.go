package auth

import (
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/memojjang/memojjang/internal/testutil"
	"github.com/memojjang/memojjang/tests/e2e"
)

const RegisterURL = "/register/"

func Test_Register(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeWithTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		t.Run("register page renders the form", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				client := e2e.NewClient(t)

				resp, err := client.Get(srvURL + RegisterURL)
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusOK, resp.StatusCode)
				require.Contains(t, string(body), `name="username"`)
				require.Contains(t, string(body), `name="email"`)
				require.Contains(t, string(body), `name="password"`)
				require.Contains(t, string(body), `name="password_confirmation"`)
			})
		})

		t.Run("register ok logs the user in", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				client := e2e.NewClient(t)

				resp := e2e.PostForm(t, client, srvURL+RegisterURL, url.Values{
					"username":              {"alice"},
					"email":                 {"alice@example.com"},
					"password":              {"pw12345"},
					"password_confirmation": {"pw12345"},
				})
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusFound, resp.StatusCode, "successful registration should redirect")
				require.Equal(t, "/memos/", resp.Header.Get("Location"))

				require.Len(t, resp.Cookies(), 1, "session cookie should be set")
				cookie := resp.Cookies()[0]
				require.Equal(t, "sessionid", cookie.Name)
				require.True(t, cookie.HttpOnly, "session cookie should be HttpOnly")
				require.Equal(t, "/", cookie.Path)
				require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
				require.NotEmpty(t, cookie.Value)
				require.InDelta(t, (14 * 24 * time.Hour).Seconds(), float64(cookie.MaxAge), 5, "max age should be the session TTL")

				// The session works: the memo list opens without another login
				listResp, err := client.Get(srvURL + "/memos/")
				require.NoError(t, err)
				defer func() { _ = listResp.Body.Close() }()
				require.Equal(t, http.StatusOK, listResp.StatusCode)
			})
		})

		t.Run("taken username re-renders the form", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				_, err := s.AuthService.Register(t.Context(), "alice", "alice@example.com", "pw12345")
				require.NoError(t, err)

				client := e2e.NewClient(t)
				resp := e2e.PostForm(t, client, srvURL+RegisterURL, url.Values{
					"username":              {"alice"},
					"email":                 {"other@example.com"},
					"password":              {"pw12345"},
					"password_confirmation": {"pw12345"},
				})
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusOK, resp.StatusCode, "failed registration should re-render, not redirect")
				require.Contains(t, string(body), "This username is already taken")
				require.Contains(t, string(body), "other@example.com", "submitted email should be echoed back")
				require.NotContains(t, string(body), "pw12345", "password must never be echoed back")
				require.Empty(t, resp.Cookies(), "no session on failure")
			})
		})

		t.Run("taken email re-renders the form", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				_, err := s.AuthService.Register(t.Context(), "alice", "alice@example.com", "pw12345")
				require.NoError(t, err)

				client := e2e.NewClient(t)
				resp := e2e.PostForm(t, client, srvURL+RegisterURL, url.Values{
					"username":              {"bob"},
					"email":                 {"alice@example.com"},
					"password":              {"pw12345"},
					"password_confirmation": {"pw12345"},
				})
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusOK, resp.StatusCode)
				require.Contains(t, string(body), "This email is already registered")
			})
		})

		t.Run("password mismatch re-renders the form", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				client := e2e.NewClient(t)
				resp := e2e.PostForm(t, client, srvURL+RegisterURL, url.Values{
					"username":              {"alice"},
					"email":                 {"alice@example.com"},
					"password":              {"pw12345"},
					"password_confirmation": {"different"},
				})
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusOK, resp.StatusCode)
				require.Contains(t, string(body), "Passwords do not match")
			})
		})

		t.Run("blank form lists required fields", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				client := e2e.NewClient(t)
				resp := e2e.PostForm(t, client, srvURL+RegisterURL, url.Values{})
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusOK, resp.StatusCode)
				require.Contains(t, string(body), "This field is required")
			})
		})
	})
}
