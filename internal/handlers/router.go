package handlers

import (
	"net/http"

	"github.com/memojjang/memojjang/internal/handlers/middleware"
	"github.com/memojjang/memojjang/internal/handlers/render"
	"github.com/memojjang/memojjang/internal/logger"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authHandler *AuthHandler,
	memoHandler *MemoHandler,
	renderer *render.Renderer,
	authMiddleware func(http.Handler) http.Handler,
	log logger.Logger,
) http.Handler {
	withAuth := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	mux := http.NewServeMux()

	// Patterns end with {$} so the trailing slash matches exactly,
	// not as a subtree
	mux.Handle("GET /{$}", handleHome(authHandler.auth, renderer, log))

	mux.Handle("GET /login/{$}", http.HandlerFunc(authHandler.LoginPage))
	mux.Handle("POST /login/{$}", http.HandlerFunc(authHandler.Login))
	mux.Handle("GET /register/{$}", http.HandlerFunc(authHandler.RegisterPage))
	mux.Handle("POST /register/{$}", http.HandlerFunc(authHandler.Register))
	mux.Handle("GET /logout/{$}", withAuth(authHandler.Logout))

	mux.Handle("GET /memos/{$}", withAuth(memoHandler.List))
	mux.Handle("GET /memos/create/{$}", withAuth(memoHandler.CreatePage))
	mux.Handle("POST /memos/create/{$}", withAuth(memoHandler.Create))
	mux.Handle("GET /memos/{id}/{$}", withAuth(memoHandler.Detail))
	mux.Handle("GET /memos/{id}/edit/{$}", withAuth(memoHandler.EditPage))
	mux.Handle("POST /memos/{id}/edit/{$}", withAuth(memoHandler.Edit))
	mux.Handle("GET /memos/{id}/delete/{$}", withAuth(memoHandler.DeletePage))
	mux.Handle("POST /memos/{id}/delete/{$}", withAuth(memoHandler.Delete))

	// Everything else is the 404 page
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderer.NotFound(w)
	}))

	return chain(mux,
		middleware.LoggerMiddleware(log),
	)
}
