package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/memojjang/memojjang/internal/apperrors"
	"github.com/memojjang/memojjang/internal/handlers/render"
	"github.com/memojjang/memojjang/internal/handlers/userctx"
	"github.com/memojjang/memojjang/internal/logger"
	"github.com/memojjang/memojjang/internal/models"
	"github.com/memojjang/memojjang/internal/service/validate"
)

type memoService interface {
	List(ctx context.Context, actor models.User) ([]models.Memo, error)
	Create(ctx context.Context, actor models.User, title string, content string) (models.Memo, error)
	Get(ctx context.Context, actor models.User, memoID uuid.UUID) (models.Memo, error)
	Update(ctx context.Context, actor models.User, memoID uuid.UUID, title string, content string) (models.Memo, error)
	Delete(ctx context.Context, actor models.User, memoID uuid.UUID) error
}

type MemoHandler struct {
	memos  memoService
	render *render.Renderer
	log    logger.Logger
}

func NewMemo(memos memoService, renderer *render.Renderer, log logger.Logger) *MemoHandler {
	return &MemoHandler{
		memos:  memos,
		render: renderer,
		log:    log,
	}
}

// Blank checks live in the memo service, so the form only names the fields
type memoForm struct {
	Title   string `form:"title"`
	Content string `form:"content"`
}

func (h *MemoHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.FromContext(r.Context())

	memos, err := h.memos.List(r.Context(), actor)
	if err != nil {
		h.log.Error("can't list memos", "error", err.Error())
		h.render.ServerError(w)
		return
	}

	h.renderPage(w, http.StatusOK, "memo_list.html", struct {
		Title string
		User  *models.User
		Memos []models.Memo
	}{
		Title: "My memos",
		User:  &actor,
		Memos: memos,
	})
}

func (h *MemoHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.FromContext(r.Context())
	h.renderMemoForm(w, &actor, "New memo", "/memos/create/", render.NewForm())
}

func (h *MemoHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.FromContext(r.Context())

	data, err := render.BindForm[memoForm](r)
	if err != nil {
		h.render.ServerError(w)
		return
	}

	memo, err := h.memos.Create(r.Context(), actor, data.Title, data.Content)
	if err != nil {
		h.handleMemoFormError(w, r, &actor, err, "New memo", "/memos/create/", data)
		return
	}

	h.log.Info("memo created", "memo_id", memo.ID, "user_id", actor.ID)
	http.Redirect(w, r, "/memos/", http.StatusFound)
}

func (h *MemoHandler) Detail(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.FromContext(r.Context())

	memo, ok := h.loadMemo(w, r, actor)
	if !ok {
		return
	}

	h.renderPage(w, http.StatusOK, "memo_detail.html", struct {
		Title string
		User  *models.User
		Memo  models.Memo
	}{
		Title: memo.Title,
		User:  &actor,
		Memo:  memo,
	})
}

func (h *MemoHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.FromContext(r.Context())

	memo, ok := h.loadMemo(w, r, actor)
	if !ok {
		return
	}

	form := render.FormWithValues(map[string]string{
		"title":   memo.Title,
		"content": memo.Content,
	})
	h.renderMemoForm(w, &actor, "Edit memo", "/memos/"+memo.ID.String()+"/edit/", form)
}

func (h *MemoHandler) Edit(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.FromContext(r.Context())

	memoID, ok := memoIDFromPath(r)
	if !ok {
		h.render.NotFound(w)
		return
	}

	data, err := render.BindForm[memoForm](r)
	if err != nil {
		h.render.ServerError(w)
		return
	}

	memo, err := h.memos.Update(r.Context(), actor, memoID, data.Title, data.Content)
	if err != nil {
		h.handleMemoFormError(w, r, &actor, err, "Edit memo", "/memos/"+memoID.String()+"/edit/", data)
		return
	}

	http.Redirect(w, r, "/memos/"+memo.ID.String()+"/", http.StatusFound)
}

func (h *MemoHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.FromContext(r.Context())

	memo, ok := h.loadMemo(w, r, actor)
	if !ok {
		return
	}

	h.renderPage(w, http.StatusOK, "memo_confirm_delete.html", struct {
		Title string
		User  *models.User
		Memo  models.Memo
	}{
		Title: "Delete memo",
		User:  &actor,
		Memo:  memo,
	})
}

func (h *MemoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.FromContext(r.Context())

	memoID, ok := memoIDFromPath(r)
	if !ok {
		h.render.NotFound(w)
		return
	}

	err := h.memos.Delete(r.Context(), actor, memoID)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrMemoNotFound):
		h.render.NotFound(w)
		return
	default:
		h.log.Error("can't delete memo", "error", err.Error())
		h.render.ServerError(w)
		return
	}

	h.log.Info("memo deleted", "memo_id", memoID, "user_id", actor.ID)
	http.Redirect(w, r, "/memos/", http.StatusFound)
}

// loadMemo reads the id from the path and fetches the memo scoped to the actor
// Renders the 404 page for malformed ids, missing memos and foreign memos alike
func (h *MemoHandler) loadMemo(w http.ResponseWriter, r *http.Request, actor models.User) (models.Memo, bool) {
	memoID, ok := memoIDFromPath(r)
	if !ok {
		h.render.NotFound(w)
		return models.Memo{}, false
	}

	memo, err := h.memos.Get(r.Context(), actor, memoID)
	switch {
	case err == nil:
		return memo, true
	case errors.Is(err, apperrors.ErrMemoNotFound):
		h.render.NotFound(w)
		return models.Memo{}, false
	default:
		h.log.Error("can't load memo", "error", err.Error())
		h.render.ServerError(w)
		return models.Memo{}, false
	}
}

func (h *MemoHandler) handleMemoFormError(w http.ResponseWriter, r *http.Request, actor *models.User, err error, heading string, action string, data memoForm) {
	var fieldErrs validate.FieldErrors

	switch {
	case errors.As(err, &fieldErrs):
		form := render.FormWithValues(map[string]string{
			"title":   data.Title,
			"content": data.Content,
		})
		h.renderMemoForm(w, actor, heading, action, form.SetErrors(fieldErrs))
	case errors.Is(err, apperrors.ErrMemoNotFound):
		h.render.NotFound(w)
	default:
		h.log.Error("memo operation failed", "error", err.Error())
		h.render.ServerError(w)
	}
}

func (h *MemoHandler) renderMemoForm(w http.ResponseWriter, actor *models.User, heading string, action string, form *render.Form) {
	h.renderPage(w, http.StatusOK, "memo_form.html", struct {
		Title   string
		Heading string
		Action  string
		User    *models.User
		Form    *render.Form
	}{
		Title:   heading,
		Heading: heading,
		Action:  action,
		User:    actor,
		Form:    form,
	})
}

func (h *MemoHandler) renderPage(w http.ResponseWriter, code int, page string, data any) {
	if err := h.render.HTML(w, code, page, data); err != nil {
		h.log.Error("can't render page", "page", page, "error", err.Error())
		h.render.ServerError(w)
	}
}

func memoIDFromPath(r *http.Request) (uuid.UUID, bool) {
	memoID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return memoID, true
}
