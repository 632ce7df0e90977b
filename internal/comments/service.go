// Package comments is the comment resource: a document repository bound to the
// comments container with merge-style updates.
package comments

import (
	"context"
	"strings"

	"github.com/socialhub/go-services/internal/apperr"
	"github.com/socialhub/go-services/internal/document"
)

type Service struct {
	repo *document.Repository[Comment, *Comment]
}

// NewService binds store to the comments container. Updates merge only the
// non-empty fields of the patch.
func NewService(store document.Store[Comment], opts ...document.Option) *Service {
	return &Service{repo: document.New[Comment](Container, store, document.Merge, opts...)}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Comment, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return nil, apperr.E(apperr.InvalidInput, "comments.create", "fields 'title' and 'body' are required")
	}
	c, err := s.repo.Create(ctx, &Comment{Title: in.Title, Body: in.Body})
	return c, resourceErr(err)
}

func (s *Service) Get(ctx context.Context, id string) (*Comment, error) {
	c, err := s.repo.Get(ctx, id)
	return c, resourceErr(err)
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Comment, error) {
	c, err := s.repo.Update(ctx, id, patch)
	return c, resourceErr(err)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return resourceErr(s.repo.Delete(ctx, id))
}

func (s *Service) List(ctx context.Context, page document.Page) ([]*Comment, error) {
	list, err := s.repo.List(ctx, page)
	return list, resourceErr(err)
}

func resourceErr(err error) error {
	if apperr.Is(err, apperr.NotFound) {
		return &apperr.Error{Kind: apperr.NotFound, Op: "comments", Msg: "comment not found", Err: err}
	}
	return err
}
