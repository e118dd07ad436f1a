package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/memojjang/memojjang/internal/apperrors"
	"github.com/memojjang/memojjang/internal/handlers/render"
	"github.com/memojjang/memojjang/internal/handlers/userctx"
	"github.com/memojjang/memojjang/internal/logger"
	"github.com/memojjang/memojjang/internal/models"
)

type authService interface {
	// Register user
	// Has to return apperrors.ErrUsernameTaken / apperrors.ErrEmailTaken on duplicates
	Register(ctx context.Context, username string, email string, password string) (models.User, error)

	// Check credentials
	// Has to return apperrors.ErrUserNotFound for unknown username and wrong
	// password alike
	Login(ctx context.Context, username string, password string) (models.User, error)

	// Start a session, returning the cookie value
	CreateSession(ctx context.Context, user models.User) (models.IssuedSession, error)

	// Resolve session token into the user
	CurrentUser(ctx context.Context, token string) (models.User, error)

	// End session, idempotent
	Logout(ctx context.Context, token string) error
}

// Key the login form stows its single non-field message under
const nonFieldError = "__all__"

type AuthHandler struct {
	auth          authService
	render        *render.Renderer
	log           logger.Logger
	secureCookies bool
}

func NewAuth(auth authService, renderer *render.Renderer, log logger.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		render:        renderer,
		log:           log,
		secureCookies: secureCookies,
	}
}

type loginPageData struct {
	Title string
	User  *models.User
	Form  *render.Form
	Next  string
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, http.StatusOK, render.NewForm(), nextPath(r))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	type loginRequest struct {
		Username string `form:"username" validate:"required"`
		Password string `form:"password" validate:"required"`
	}

	data, err := render.BindForm[loginRequest](r)
	if err != nil {
		h.render.ServerError(w)
		return
	}

	form := render.FormWithValues(map[string]string{"username": data.Username})

	if errs := render.Validate(data); errs != nil {
		h.renderLogin(w, http.StatusOK, form.SetErrors(errs), nextPath(r))
		return
	}

	user, err := h.auth.Login(r.Context(), data.Username, data.Password)
	if err != nil {
		// One generic message, whatever was wrong: the form must not reveal
		// whether the username exists
		form.Errors[nonFieldError] = "Login failed. Check your username and password."
		h.renderLogin(w, http.StatusOK, form, nextPath(r))
		return
	}

	if !h.startSession(w, r, user) {
		return
	}

	http.Redirect(w, r, afterLoginTarget(r), http.StatusFound)
}

type registerPageData struct {
	Title string
	User  *models.User
	Form  *render.Form
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, http.StatusOK, render.NewForm())
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	type registerRequest struct {
		Username             string `form:"username" validate:"required,max=150"`
		Email                string `form:"email" validate:"required,email,max=254"`
		Password             string `form:"password" validate:"required"`
		PasswordConfirmation string `form:"password_confirmation" validate:"required,eqfield=Password"`
	}

	data, err := render.BindForm[registerRequest](r)
	if err != nil {
		h.render.ServerError(w)
		return
	}

	// Re-render never echoes passwords back
	form := render.FormWithValues(map[string]string{
		"username": data.Username,
		"email":    data.Email,
	})

	if errs := render.Validate(data); errs != nil {
		h.renderRegister(w, http.StatusOK, form.SetErrors(errs))
		return
	}

	user, err := h.auth.Register(r.Context(), data.Username, data.Email, data.Password)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrUsernameTaken):
		form.Errors["username"] = "This username is already taken"
		h.renderRegister(w, http.StatusOK, form)
		return
	case errors.Is(err, apperrors.ErrEmailTaken):
		form.Errors["email"] = "This email is already registered"
		h.renderRegister(w, http.StatusOK, form)
		return
	default:
		h.log.Error("registration failed", "error", err.Error())
		h.render.ServerError(w)
		return
	}

	// New users are logged in right away
	if !h.startSession(w, r, user) {
		return
	}

	http.Redirect(w, r, "/memos/", http.StatusFound)
}

// Logout runs behind RequireLogin, so there is always a session cookie here
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := sessionFromRequest(r); ok {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			h.log.Error("logout failed", "error", err.Error())
		}
	}

	clearSessionCookie(w, h.secureCookies)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user models.User) bool {
	issued, err := h.auth.CreateSession(r.Context(), user)
	if err != nil {
		h.log.Error("can't create session", "error", err.Error())
		h.render.ServerError(w)
		return false
	}

	setSessionCookie(w, issued, h.secureCookies)
	return true
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, code int, form *render.Form, next string) {
	err := h.render.HTML(w, code, "login.html", loginPageData{
		Title: "Log in",
		Form:  form,
		Next:  next,
	})
	if err != nil {
		h.log.Error("can't render login page", "error", err.Error())
		h.render.ServerError(w)
	}
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, code int, form *render.Form) {
	err := h.render.HTML(w, code, "register.html", registerPageData{
		Title: "Register",
		Form:  form,
	})
	if err != nil {
		h.log.Error("can't render register page", "error", err.Error())
		h.render.ServerError(w)
	}
}

// nextPath returns the sanitized return hint from the query string
func nextPath(r *http.Request) string {
	return sanitizeNext(r.URL.Query().Get("next"))
}

func afterLoginTarget(r *http.Request) string {
	if next := nextPath(r); next != "" {
		return next
	}
	return "/memos/"
}

// Only same site absolute paths are allowed as redirect targets,
// anything else (full URLs, protocol relative //host) is dropped
func sanitizeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}

// userFromRequest soft-resolves the session for pages that render for
// anonymous visitors too
func userFromRequest(r *http.Request, as authService) *models.User {
	if user, ok := userctx.FromContext(r.Context()); ok {
		return &user
	}

	token, ok := sessionFromRequest(r)
	if !ok {
		return nil
	}

	user, err := as.CurrentUser(r.Context(), token)
	if err != nil {
		return nil
	}
	return &user
}
