// Package store holds the Store implementations backing document.Repository.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/socialhub/go-services/internal/apperr"
	"github.com/socialhub/go-services/internal/document"
)

// Memory is an in-process partitioned container used for tests and for running
// without MongoDB. Documents are copied on the way in and out.
type Memory[T any, P interface {
	*T
	document.Entity
}] struct {
	mu    sync.RWMutex
	store map[document.Key]T
}

func NewMemory[T any, P interface {
	*T
	document.Entity
}]() *Memory[T, P] {
	return &Memory[T, P]{store: make(map[document.Key]T)}
}

func (m *Memory[T, P]) Insert(ctx context.Context, key document.Key, doc *T) error {
	if err := ctx.Err(); err != nil {
		return apperr.Wrap(apperr.BackendUnavailable, "memory.insert", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[key]; ok {
		return apperr.E(apperr.InvalidInput, "memory.insert", "document already exists")
	}
	m.store[key] = *doc
	return nil
}

func (m *Memory[T, P]) Find(ctx context.Context, key document.Key) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Wrap(apperr.BackendUnavailable, "memory.find", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.store[key]
	if !ok {
		return nil, apperr.E(apperr.NotFound, "memory.find", "document not found")
	}
	return &d, nil
}

func (m *Memory[T, P]) Replace(ctx context.Context, key document.Key, doc *T) error {
	if err := ctx.Err(); err != nil {
		return apperr.Wrap(apperr.BackendUnavailable, "memory.replace", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[key]; !ok {
		return apperr.E(apperr.NotFound, "memory.replace", "document not found")
	}
	m.store[key] = *doc
	return nil
}

func (m *Memory[T, P]) Remove(ctx context.Context, key document.Key) error {
	if err := ctx.Err(); err != nil {
		return apperr.Wrap(apperr.BackendUnavailable, "memory.remove", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[key]; !ok {
		return apperr.E(apperr.NotFound, "memory.remove", "document not found")
	}
	delete(m.store, key)
	return nil
}

func (m *Memory[T, P]) Scan(ctx context.Context, page document.Page) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Wrap(apperr.BackendUnavailable, "memory.scan", err)
	}
	m.mu.RLock()
	out := make([]*T, 0, len(m.store))
	for _, d := range m.store {
		d := d
		out = append(out, &d)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := P(out[i]).DocMeta(), P(out[j]).DocMeta()
		if !a.CreationTimestamp.Equal(b.CreationTimestamp) {
			return a.CreationTimestamp.Before(b.CreationTimestamp)
		}
		return a.ID < b.ID
	})

	if page.Offset > 0 {
		if page.Offset >= len(out) {
			return []*T{}, nil
		}
		out = out[page.Offset:]
	}
	if page.Limit > 0 && page.Limit < len(out) {
		out = out[:page.Limit]
	}
	return out, nil
}

// Len returns the number of stored documents.
func (m *Memory[T, P]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}
