package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/memojjang/memojjang/internal/handlers/userctx"
	"github.com/memojjang/memojjang/internal/models"
)

type authService interface {
	CurrentUser(ctx context.Context, token string) (models.User, error)
}

// Name of the cookie the session token travels in
const SessionCookieName = "sessionid"

// RequireLogin resolves the session cookie into a user and puts it in the
// request context. Anonymous requests are redirected to the login page with
// the original path as a return hint.
func RequireLogin(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				redirectToLogin(w, r)
				return
			}

			user, err := as.CurrentUser(r.Context(), cookie.Value)
			if err != nil {
				redirectToLogin(w, r)
				return
			}

			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login/?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
}
