// Package document implements the persistence contract shared by every document
// resource: self-partitioned create/read/update/delete/list against a Store.
package document

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/socialhub/go-services/internal/apperr"
)

// Store is a partitioned document container. Implementations classify their
// failures with apperr: a missing (id, partition key) pair is NotFound, a
// communication failure is BackendUnavailable.
type Store[T any] interface {
	Insert(ctx context.Context, key Key, doc *T) error
	Find(ctx context.Context, key Key) (*T, error)
	Replace(ctx context.Context, key Key, doc *T) error
	Remove(ctx context.Context, key Key) error
	// Scan returns documents ordered by creation timestamp, then id.
	Scan(ctx context.Context, page Page) ([]*T, error)
}

// Repository binds a document shape to one container and one update policy.
type Repository[T any, P interface {
	*T
	Entity
}] struct {
	container string
	store     Store[T]
	policy    UpdatePolicy
	now       func() time.Time
	newID     func() string
}

// Option customises a Repository.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.newID = gen }
}

// New returns a repository for container backed by store.
func New[T any, P interface {
	*T
	Entity
}](container string, store Store[T], policy UpdatePolicy, opts ...Option) *Repository[T, P] {
	o := options{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	return &Repository[T, P]{
		container: container,
		store:     store,
		policy:    policy,
		now:       o.now,
		newID:     o.newID,
	}
}

// Container returns the container name the repository is bound to.
func (r *Repository[T, P]) Container() string { return r.container }

// Policy returns the update policy the repository applies.
func (r *Repository[T, P]) Policy() UpdatePolicy { return r.policy }

// Create assigns an id when absent, stamps the creation time and writes the
// document at partition key = id. Every call writes a new document.
func (r *Repository[T, P]) Create(ctx context.Context, doc *T) (*T, error) {
	const op = "document.create"
	if doc == nil {
		return nil, apperr.E(apperr.InvalidInput, op, "document is required")
	}
	m := P(doc).DocMeta()
	if m.ID == "" {
		m.ID = r.newID()
	}
	m.PartitionKey = m.ID
	// stored timestamps carry millisecond precision
	m.CreationTimestamp = r.now().UTC().Truncate(time.Millisecond)

	if err := r.store.Insert(ctx, m.Key(), doc); err != nil {
		return nil, r.wrap(op, err)
	}
	return doc, nil
}

// Get reads the document stored at (id, id).
func (r *Repository[T, P]) Get(ctx context.Context, id string) (*T, error) {
	const op = "document.get"
	if id == "" {
		return nil, apperr.E(apperr.InvalidInput, op, "id is required")
	}
	doc, err := r.store.Find(ctx, KeyFor(id))
	if err != nil {
		return nil, r.wrap(op, err)
	}
	return doc, nil
}

// Update folds patch into the stored document using the repository policy.
// The id, partition key and creation timestamp always survive the update.
// There is no concurrency token: the last writer wins.
func (r *Repository[T, P]) Update(ctx context.Context, id string, patch Patch[T]) (*T, error) {
	const op = "document.update"
	if id == "" {
		return nil, apperr.E(apperr.InvalidInput, op, "id is required")
	}
	if patch == nil {
		return nil, apperr.E(apperr.InvalidInput, op, "patch is required")
	}
	key := KeyFor(id)
	doc, err := r.store.Find(ctx, key)
	if err != nil {
		return nil, r.wrap(op, err)
	}
	orig := *P(doc).DocMeta()

	patch.Apply(doc, r.policy)
	*P(doc).DocMeta() = orig

	if err := r.store.Replace(ctx, key, doc); err != nil {
		return nil, r.wrap(op, err)
	}
	return doc, nil
}

// Delete removes the document. Deleting an absent document is NotFound.
func (r *Repository[T, P]) Delete(ctx context.Context, id string) error {
	const op = "document.delete"
	if id == "" {
		return apperr.E(apperr.InvalidInput, op, "id is required")
	}
	if err := r.store.Remove(ctx, KeyFor(id)); err != nil {
		return r.wrap(op, err)
	}
	return nil
}

// List scans the container. The zero Page returns every document.
func (r *Repository[T, P]) List(ctx context.Context, page Page) ([]*T, error) {
	const op = "document.list"
	docs, err := r.store.Scan(ctx, page.Normalize())
	if err != nil {
		return nil, r.wrap(op, err)
	}
	if docs == nil {
		docs = []*T{}
	}
	return docs, nil
}

// wrap keeps the store's classification and adds the container to the operation.
func (r *Repository[T, P]) wrap(op string, err error) error {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal && ctxErr(err) {
		kind = apperr.BackendUnavailable
	}
	return &apperr.Error{Kind: kind, Op: op + "(" + r.container + ")", Msg: messageOf(err), Err: err}
}

func messageOf(err error) string {
	if apperr.KindOf(err) == apperr.Internal {
		return ""
	}
	return apperr.Message(err)
}

func ctxErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
