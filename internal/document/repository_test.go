package document_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialhub/go-services/internal/apperr"
	"github.com/socialhub/go-services/internal/document"
	"github.com/socialhub/go-services/internal/document/store"
)

type note struct {
	document.Meta `bson:",inline"`
	Title         string `json:"title" bson:"title"`
	Body          string `json:"body" bson:"body"`
}

type notePatch struct {
	Title document.Optional[string] `json:"title"`
	Body  document.Optional[string] `json:"body"`
}

func (p notePatch) Apply(n *note, policy document.UpdatePolicy) {
	document.SetString(policy, &n.Title, p.Title)
	document.SetString(policy, &n.Body, p.Body)
}

func newRepo(policy document.UpdatePolicy, opts ...document.Option) *document.Repository[note, *note] {
	return document.New[note]("notes", store.NewMemory[note](), policy, opts...)
}

func TestCreateThenGet(t *testing.T) {
	ctx := context.Background()
	r := newRepo(document.Merge)

	before := time.Now().UTC().Truncate(time.Millisecond)
	created, err := r.Create(ctx, &note{Title: "Hello", Body: "World"})
	require.NoError(t, err)
	after := time.Now().UTC()

	require.NotEmpty(t, created.ID)
	require.Equal(t, created.ID, created.PartitionKey)
	require.False(t, created.CreationTimestamp.Before(before))
	require.False(t, created.CreationTimestamp.After(after))

	got, err := r.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Hello", got.Title)
	require.Equal(t, "World", got.Body)
	require.True(t, created.CreationTimestamp.Equal(got.CreationTimestamp))
}

func TestCreateTwiceProducesTwoDocuments(t *testing.T) {
	ctx := context.Background()
	r := newRepo(document.Merge)

	a, err := r.Create(ctx, &note{Title: "t", Body: "b"})
	require.NoError(t, err)
	b, err := r.Create(ctx, &note{Title: "t", Body: "b"})
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)

	list, err := r.List(ctx, document.Page{})
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestCreateKeepsCallerID(t *testing.T) {
	ctx := context.Background()
	r := newRepo(document.Merge)

	d, err := r.Create(ctx, &note{Meta: document.Meta{ID: "fixed"}, Title: "t", Body: "b"})
	require.NoError(t, err)
	require.Equal(t, "fixed", d.ID)
	require.Equal(t, "fixed", d.PartitionKey)

	_, err = r.Create(ctx, &note{Meta: document.Meta{ID: "fixed"}, Title: "t", Body: "b"})
	require.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestGetUnknownIsNotFound(t *testing.T) {
	r := newRepo(document.Merge)
	_, err := r.Get(context.Background(), "unknown-id")
	require.True(t, apperr.Is(err, apperr.NotFound), "got %v", err)
}

func TestMergeUpdate(t *testing.T) {
	ctx := context.Background()
	r := newRepo(document.Merge)
	d, err := r.Create(ctx, &note{Title: "title", Body: "body"})
	require.NoError(t, err)

	// only title set: body preserved
	u, err := r.Update(ctx, d.ID, notePatch{Title: document.Some("new title")})
	require.NoError(t, err)
	assert.Equal(t, "new title", u.Title)
	assert.Equal(t, "body", u.Body)

	// both empty: unchanged
	u2, err := r.Update(ctx, d.ID, notePatch{Title: document.Some(""), Body: document.Some("")})
	require.NoError(t, err)
	assert.Equal(t, "new title", u2.Title)
	assert.Equal(t, "body", u2.Body)
	assert.Equal(t, d.ID, u2.ID)
	assert.True(t, d.CreationTimestamp.Equal(u2.CreationTimestamp))

	got, err := r.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)
	assert.Equal(t, "body", got.Body)
}

func TestReplaceUpdate(t *testing.T) {
	ctx := context.Background()
	r := newRepo(document.Replace)
	d, err := r.Create(ctx, &note{Title: "title", Body: "body"})
	require.NoError(t, err)

	u, err := r.Update(ctx, d.ID, notePatch{Title: document.Some("only title")})
	require.NoError(t, err)
	assert.Equal(t, "only title", u.Title)
	assert.Equal(t, "", u.Body)
	assert.Equal(t, d.ID, u.ID)
	assert.Equal(t, d.ID, u.PartitionKey)
	assert.True(t, d.CreationTimestamp.Equal(u.CreationTimestamp))
}

// metaPatch tries to smuggle a new id and timestamp through the patch.
type metaPatch struct{}

func (metaPatch) Apply(n *note, policy document.UpdatePolicy) {
	n.ID = "hijacked"
	n.PartitionKey = "hijacked"
	n.CreationTimestamp = time.Unix(0, 0)
	n.Title = "x"
}

func TestUpdateReattachesMeta(t *testing.T) {
	ctx := context.Background()
	for _, policy := range []document.UpdatePolicy{document.Merge, document.Replace} {
		r := newRepo(policy)
		d, err := r.Create(ctx, &note{Title: "t", Body: "b"})
		require.NoError(t, err)

		u, err := r.Update(ctx, d.ID, metaPatch{})
		require.NoError(t, err, policy.String())
		assert.Equal(t, d.ID, u.ID, policy.String())
		assert.True(t, d.CreationTimestamp.Equal(u.CreationTimestamp), policy.String())

		_, err = r.Get(ctx, "hijacked")
		assert.True(t, apperr.Is(err, apperr.NotFound), policy.String())
	}
}

func TestUpdateUnknownIsNotFound(t *testing.T) {
	r := newRepo(document.Replace)
	_, err := r.Update(context.Background(), "missing", notePatch{Title: document.Some("x")})
	require.True(t, apperr.Is(err, apperr.NotFound))
}

func TestDeleteThenGetAndDeleteAgain(t *testing.T) {
	ctx := context.Background()
	r := newRepo(document.Merge)
	d, err := r.Create(ctx, &note{Title: "t", Body: "b"})
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, d.ID))
	_, err = r.Get(ctx, d.ID)
	require.True(t, apperr.Is(err, apperr.NotFound))
	err = r.Delete(ctx, d.ID)
	require.True(t, apperr.Is(err, apperr.NotFound))
}

func TestListGrowsByN(t *testing.T) {
	ctx := context.Background()
	r := newRepo(document.Merge)
	_, err := r.Create(ctx, &note{Title: "seed", Body: "seed"})
	require.NoError(t, err)

	start, err := r.List(ctx, document.Page{})
	require.NoError(t, err)

	const n = 5
	for i := 0; i < n; i++ {
		_, err := r.Create(ctx, &note{Title: fmt.Sprint("t", i), Body: "b"})
		require.NoError(t, err)
	}
	end, err := r.List(ctx, document.Page{})
	require.NoError(t, err)
	require.Len(t, end, len(start)+n)
}

func TestListIsOrderedAndPaged(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	r := newRepo(document.Merge, document.WithClock(clock))
	for i := 0; i < 4; i++ {
		_, err := r.Create(ctx, &note{Title: fmt.Sprint(i), Body: "b"})
		require.NoError(t, err)
	}

	all, err := r.List(ctx, document.Page{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, d := range all {
		assert.Equal(t, fmt.Sprint(i), d.Title)
	}

	page, err := r.List(ctx, document.Page{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "1", page[0].Title)
	assert.Equal(t, "2", page[1].Title)
}

func TestCancelledContextIsBackendUnavailable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newRepo(document.Merge)
	_, err := r.Create(ctx, &note{Title: "t", Body: "b"})
	require.True(t, apperr.Is(err, apperr.BackendUnavailable))
	require.ErrorIs(t, err, context.Canceled)
}

func TestOptionalJSON(t *testing.T) {
	var p notePatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","body":null}`), &p))
	assert.True(t, p.Title.Set)
	assert.Equal(t, "x", p.Title.Value)
	assert.False(t, p.Body.Set)

	var q notePatch
	require.NoError(t, json.Unmarshal([]byte(`{}`), &q))
	assert.False(t, q.Title.Set)
	assert.False(t, q.Body.Set)
}
