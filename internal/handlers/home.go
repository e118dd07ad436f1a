package handlers

import (
	"net/http"

	"github.com/memojjang/memojjang/internal/handlers/render"
	"github.com/memojjang/memojjang/internal/logger"
	"github.com/memojjang/memojjang/internal/models"
)

// Landing page, open to everyone
// The session is resolved softly so a logged in visitor gets their nav,
// an anonymous one is not redirected anywhere
func handleHome(as authService, renderer *render.Renderer, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := struct {
			Title string
			User  *models.User
		}{
			Title: "Home",
			User:  userFromRequest(r, as),
		}

		if err := renderer.HTML(w, http.StatusOK, "home.html", data); err != nil {
			log.Error("can't render home page", "error", err.Error())
			renderer.ServerError(w)
		}
	})
}
