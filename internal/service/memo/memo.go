package memo

import (
	"context"

	"github.com/google/uuid"

	"github.com/memojjang/memojjang/internal/models"
	"github.com/memojjang/memojjang/internal/repository"
	"github.com/memojjang/memojjang/internal/service/validate"
)

// Memo service
// Every operation takes the acting user explicitly and never trusts a
// client supplied owner: the repo queries are scoped by actor id
type MemoService struct {
	memoRepo repository.MemoRepo
}

func NewService(memoRepo repository.MemoRepo) *MemoService {
	return &MemoService{memoRepo: memoRepo}
}

// List actor's memos, newest first
func (s *MemoService) List(ctx context.Context, actor models.User) ([]models.Memo, error) {
	return s.memoRepo.ListMemos(ctx, actor.ID)
}

// Create memo owned by the actor
// Blank title or content yields validate.FieldErrors naming every blank field
// and persists nothing
func (s *MemoService) Create(ctx context.Context, actor models.User, title string, content string) (models.Memo, error) {
	if errs := validateFields(title, content); errs != nil {
		return models.Memo{}, errs
	}

	return s.memoRepo.CreateMemo(ctx, actor.ID, title, content)
}

// Get one memo
// A memo that does not exist and a memo owned by someone else both return
// apperrors.ErrMemoNotFound
func (s *MemoService) Get(ctx context.Context, actor models.User, memoID uuid.UUID) (models.Memo, error) {
	return s.memoRepo.GetMemo(ctx, actor.ID, memoID)
}

// Update title and content, refreshing updated_at
// Same not found semantics as Get, same validation as Create
func (s *MemoService) Update(ctx context.Context, actor models.User, memoID uuid.UUID, title string, content string) (models.Memo, error) {
	if errs := validateFields(title, content); errs != nil {
		return models.Memo{}, errs
	}

	return s.memoRepo.UpdateMemo(ctx, actor.ID, memoID, title, content)
}

// Delete memo permanently
// Same not found semantics as Get; deleting twice fails the same way both times
func (s *MemoService) Delete(ctx context.Context, actor models.User, memoID uuid.UUID) error {
	return s.memoRepo.DeleteMemo(ctx, actor.ID, memoID)
}

func validateFields(title string, content string) validate.FieldErrors {
	var errs validate.FieldErrors
	errs = validate.Required(errs, "title", title)
	errs = validate.Required(errs, "content", content)
	if len(errs) > 0 {
		return errs
	}
	return nil
}
