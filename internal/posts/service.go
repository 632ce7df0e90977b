// Package posts is the post resource: a document repository bound to the posts
// container with replace-style updates.
package posts

import (
	"context"
	"strings"

	"github.com/socialhub/go-services/internal/apperr"
	"github.com/socialhub/go-services/internal/document"
)

// Service exposes post operations to the HTTP layer.
type Service struct {
	repo *document.Repository[Post, *Post]
}

// NewService binds store to the posts container. Updates replace the whole
// post except its id and creation timestamp.
func NewService(store document.Store[Post], opts ...document.Option) *Service {
	return &Service{repo: document.New[Post](Container, store, document.Replace, opts...)}
}

// Create validates title and body before the post reaches the repository.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return nil, apperr.E(apperr.InvalidInput, "posts.create", "fields 'title' and 'body' are required")
	}
	p, err := s.repo.Create(ctx, &Post{Title: in.Title, Body: in.Body, Media: in.Media})
	return p, resourceErr(err)
}

func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	p, err := s.repo.Get(ctx, id)
	return p, resourceErr(err)
}

// Update replaces title, body and media with the patch contents.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Post, error) {
	p, err := s.repo.Update(ctx, id, patch)
	return p, resourceErr(err)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return resourceErr(s.repo.Delete(ctx, id))
}

func (s *Service) List(ctx context.Context, page document.Page) ([]*Post, error) {
	list, err := s.repo.List(ctx, page)
	return list, resourceErr(err)
}

func resourceErr(err error) error {
	if apperr.Is(err, apperr.NotFound) {
		return &apperr.Error{Kind: apperr.NotFound, Op: "posts", Msg: "post not found", Err: err}
	}
	return err
}
