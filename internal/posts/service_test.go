package posts

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialhub/go-services/internal/apperr"
	"github.com/socialhub/go-services/internal/document"
	"github.com/socialhub/go-services/internal/document/store"
)

func newService() *Service {
	return NewService(store.NewMemory[Post]())
}

func TestCreateRequiresTitleAndBody(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for _, in := range []CreateInput{
		{Title: "", Body: "b"},
		{Title: "t", Body: ""},
		{Title: "   ", Body: "b"},
	} {
		_, err := svc.Create(ctx, in)
		require.True(t, apperr.Is(err, apperr.InvalidInput), "%+v", in)
	}

	list, err := svc.List(ctx, document.Page{})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestCreateRoundTrip(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Title: "Hello", Body: "World", Media: "abc.png"})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.False(t, p.CreationTimestamp.IsZero())

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "World", got.Body)
	assert.Equal(t, "abc.png", got.Media)
}

func TestUpdateReplacesWholeBody(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	p, err := svc.Create(ctx, CreateInput{Title: "Hello", Body: "World", Media: "abc.png"})
	require.NoError(t, err)

	// a client sending a full document cannot move id or creation time
	var patch Patch
	body := `{"id":"other","creationTimestamp":"2000-01-01T00:00:00Z","title":"New","body":"Text"}`
	require.NoError(t, json.Unmarshal([]byte(body), &patch))

	u, err := svc.Update(ctx, p.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, p.ID, u.ID)
	assert.True(t, p.CreationTimestamp.Equal(u.CreationTimestamp))
	assert.Equal(t, "New", u.Title)
	assert.Equal(t, "Text", u.Body)
	assert.Equal(t, "", u.Media)
}

func TestNotFoundCarriesResourceMessage(t *testing.T) {
	svc := newService()
	_, err := svc.Get(context.Background(), "unknown-id")
	require.True(t, apperr.Is(err, apperr.NotFound))
	require.Equal(t, "post not found", apperr.Message(err))

	err = svc.Delete(context.Background(), "unknown-id")
	require.True(t, apperr.Is(err, apperr.NotFound))
}

func TestPostJSONShape(t *testing.T) {
	svc := newService()
	p, err := svc.Create(context.Background(), CreateInput{Title: "Hello", Body: "World"})
	require.NoError(t, err)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, p.ID, m["id"])
	assert.Equal(t, "", m["media"])
	assert.Contains(t, m, "creationTimestamp")
	assert.NotContains(t, m, "PartitionKey")
	assert.NotContains(t, m, "pk")
}
