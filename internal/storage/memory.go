package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
)

type memObject struct {
	data        []byte
	contentType string
}

// Memory keeps objects in process memory.
type Memory struct {
	mu        sync.RWMutex
	container string
	objects   map[string]memObject
}

func NewMemory(container string) *Memory {
	return &Memory{container: container, objects: make(map[string]memObject)}
}

func (m *Memory) EnsureContainer(ctx context.Context) error {
	return ctx.Err()
}

func (m *Memory) Put(ctx context.Context, name string, r io.Reader, _ int64, contentType string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return unavailable("memory.put", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return unavailable("memory.put", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = memObject{data: data, contentType: contentType}
	return nil
}

func (m *Memory) Get(ctx context.Context, name string) (*Object, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, unavailable("memory.get", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[name]
	if !ok {
		return nil, notFound("memory.get", nil)
	}
	return &Object{
		Body:        io.NopCloser(bytes.NewReader(o.data)),
		ContentType: o.contentType,
		Size:        int64(len(o.data)),
	}, nil
}

func (m *Memory) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("memory.list", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.objects))
	for name := range m.objects {
		names = append(names, name)
	}
	return names, nil
}

func (m *Memory) Remove(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return unavailable("memory.remove", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[name]; !ok {
		return notFound("memory.remove", nil)
	}
	delete(m.objects, name)
	return nil
}

func (m *Memory) URL(name string) string {
	return "memory://" + m.container + "/" + name
}
