package handlers

import (
	"net/http"
	"time"

	"github.com/memojjang/memojjang/internal/handlers/middleware"
	"github.com/memojjang/memojjang/internal/models"
)

// Session cookie: HttpOnly always, Secure outside dev
// SameSite Lax so the session survives top level redirects after login
func setSessionCookie(w http.ResponseWriter, issued models.IssuedSession, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    issued.Value,
		Path:     "/",
		MaxAge:   int(time.Until(issued.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
