// Package storage provides the blob backends behind the media store: MinIO,
// Azure Blob Storage and an in-memory backend for tests and local runs.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/socialhub/go-services/internal/apperr"
)

// DefaultContentType is reported for objects stored without a content type.
const DefaultContentType = "application/octet-stream"

// Object is a stored blob opened for reading. The caller must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Backend is a flat named-object container.
type Backend interface {
	// EnsureContainer creates the container when it does not exist yet.
	EnsureContainer(ctx context.Context) error
	// Put stores r under name. size may be -1 when unknown.
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	// Get opens the named object. A missing object is apperr.NotFound.
	Get(ctx context.Context, name string) (*Object, error)
	// List returns every object name in the container.
	List(ctx context.Context) ([]string, error)
	// Remove deletes the named object. A missing object is apperr.NotFound.
	Remove(ctx context.Context, name string) error
	// URL is the address of the named object inside the backend.
	URL(name string) string
}

// New builds the backend selected by cfg.Backend.
func New(cfg *Config) (Backend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config missing")
	}
	switch strings.ToLower(cfg.Backend) {
	case BackendMinIO:
		b, err := NewMinIO(&cfg.MinIO, cfg.Container)
		if err != nil {
			return nil, err
		}
		return b, nil
	case BackendAzure:
		b, err := NewAzure(&cfg.Azure, cfg.Container)
		if err != nil {
			return nil, err
		}
		return b, nil
	case BackendMemory:
		return NewMemory(cfg.Container), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// ValidateName rejects names that could escape the flat container.
func ValidateName(name string) error {
	const op = "storage.name"
	if name == "" {
		return apperr.E(apperr.InvalidInput, op, "object name is required")
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return apperr.E(apperr.InvalidInput, op, "invalid object name")
	}
	return nil
}

func unavailable(op string, err error) error {
	return apperr.Wrap(apperr.BackendUnavailable, op, err)
}

func notFound(op string, err error) error {
	return &apperr.Error{Kind: apperr.NotFound, Op: op, Msg: "media not found", Err: err}
}
