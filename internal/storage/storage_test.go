package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialhub/go-services/internal/apperr"
)

func TestValidateName(t *testing.T) {
	require.NoError(t, ValidateName("0b7c1f1e-3a8e-4a4e-9e4b-0c1b1f1e3a8e.png"))
	for _, name := range []string{"", "../etc/passwd", "a/b.png", `a\b.png`, "a..b"} {
		err := ValidateName(name)
		require.True(t, apperr.Is(err, apperr.InvalidInput), "name %q", name)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	b, err := New(&Config{Backend: "memory", Container: "media"})
	require.NoError(t, err)
	require.IsType(t, &Memory{}, b)

	_, err = New(&Config{Backend: "ftp"})
	require.Error(t, err)

	_, err = New(&Config{Backend: "minio"})
	require.Error(t, err)

	_, err = New(&Config{Backend: "azure"})
	require.Error(t, err)
}

func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("media")
	require.NoError(t, m.EnsureContainer(ctx))

	require.NoError(t, m.Put(ctx, "a.txt", strings.NewReader("hello"), 5, "text/plain"))
	obj, err := m.Get(ctx, "a.txt")
	require.NoError(t, err)
	defer obj.Body.Close()
	b, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
	assert.Equal(t, "text/plain", obj.ContentType)
	assert.EqualValues(t, 5, obj.Size)

	names, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, names)
	assert.Equal(t, "memory://media/a.txt", m.URL("a.txt"))

	require.NoError(t, m.Remove(ctx, "a.txt"))
	err = m.Remove(ctx, "a.txt")
	require.True(t, apperr.Is(err, apperr.NotFound))
	_, err = m.Get(ctx, "a.txt")
	require.True(t, apperr.Is(err, apperr.NotFound))
}

func TestMemoryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory("media")
	_, err := m.List(ctx)
	require.True(t, apperr.Is(err, apperr.BackendUnavailable))
}

const devAccountKey = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="

func newAzureAgainst(t *testing.T, srv *httptest.Server) *Azure {
	t.Helper()
	cs := "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=" + devAccountKey +
		";BlobEndpoint=" + srv.URL + "/devstoreaccount1;"
	a, err := NewAzure(&AzureConfig{ConnectionString: cs}, "media")
	require.NoError(t, err)
	return a
}

func TestAzureMissingBlobIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-ms-error-code", "BlobNotFound")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	a := newAzureAgainst(t, srv)

	_, err := a.Get(context.Background(), "missing.png")
	require.True(t, apperr.Is(err, apperr.NotFound), "got %v", err)
	require.Equal(t, "media not found", apperr.Message(err))

	err = a.Remove(context.Background(), "missing.png")
	require.True(t, apperr.Is(err, apperr.NotFound), "got %v", err)
}

func TestAzureURL(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	a := newAzureAgainst(t, srv)
	assert.Equal(t, srv.URL+"/devstoreaccount1/media/x.png", a.URL("x.png"))
}

func TestAzureRequiresConnection(t *testing.T) {
	_, err := NewAzure(&AzureConfig{}, "media")
	require.Error(t, err)
}

func newMinIOAgainst(t *testing.T, srv *httptest.Server) *MinIO {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	s, err := NewMinIO(&MinIOConfig{Endpoint: u.Host, AccessKey: "k", SecretKey: "s", Region: "us-east-1"}, "media")
	require.NoError(t, err)
	return s
}

func TestMinIOMissingObjectIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	s := newMinIOAgainst(t, srv)

	err := s.Remove(context.Background(), "missing.png")
	require.True(t, apperr.Is(err, apperr.NotFound), "got %v", err)

	_, err = s.Get(context.Background(), "missing.png")
	require.True(t, apperr.Is(err, apperr.NotFound), "got %v", err)
}

func TestMinIOURL(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	s := newMinIOAgainst(t, srv)
	assert.Equal(t, srv.URL+"/media/x.png", s.URL("x.png"))
}

func TestMinIORejectsBadName(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	s := newMinIOAgainst(t, srv)
	err := s.Put(context.Background(), "../x", strings.NewReader("x"), 1, "text/plain")
	require.True(t, apperr.Is(err, apperr.InvalidInput))
}
