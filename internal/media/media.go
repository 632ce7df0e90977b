// Package media is the object store wrapper: uploads get fresh unique names,
// downloads stream back with their stored content type.
package media

import (
	"context"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/socialhub/go-services/internal/apperr"
	"github.com/socialhub/go-services/internal/storage"
)

// Upload is an incoming file. Size may be -1 when the length is unknown.
type Upload struct {
	Reader      io.Reader
	Size        int64
	Filename    string
	ContentType string
}

// Stored describes an uploaded object.
type Stored struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Download is an opened object. The caller must close Body.
type Download struct {
	Name        string
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

type Service struct {
	backend storage.Backend
	newID   func() string
}

func NewService(backend storage.Backend) *Service {
	return &Service{backend: backend, newID: uuid.NewString}
}

// Upload stores the file under a new name: a UUID followed by the lower-cased
// extension of the uploaded file name. Names are never reused.
func (s *Service) Upload(ctx context.Context, up Upload) (*Stored, error) {
	if up.Reader == nil || up.Size == 0 {
		return nil, apperr.E(apperr.InvalidInput, "media.upload", "a non-empty file is required")
	}
	name := s.newID() + strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(up.Filename, `\`, "/"))))
	ct := up.ContentType
	if ct == "" {
		ct = storage.DefaultContentType
	}
	if err := s.backend.Put(ctx, name, up.Reader, up.Size, ct); err != nil {
		return nil, err
	}
	return &Stored{URL: s.backend.URL(name), Name: name}, nil
}

func (s *Service) Download(ctx context.Context, name string) (*Download, error) {
	if err := storage.ValidateName(name); err != nil {
		return nil, err
	}
	obj, err := s.backend.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	ct := obj.ContentType
	if ct == "" {
		ct = storage.DefaultContentType
	}
	return &Download{Name: name, Body: obj.Body, ContentType: ct, Size: obj.Size}, nil
}

// List returns every stored name in lexical order.
func (s *Service) List(ctx context.Context) ([]string, error) {
	names, err := s.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	sort.Strings(names)
	return names, nil
}

// Page applies an offset/limit window to List. A zero limit means no limit.
func (s *Service) Page(ctx context.Context, limit, offset int) ([]string, error) {
	names, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if offset > 0 {
		if offset >= len(names) {
			return []string{}, nil
		}
		names = names[offset:]
	}
	if limit > 0 && limit < len(names) {
		names = names[:limit]
	}
	return names, nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	return s.backend.Remove(ctx, name)
}
