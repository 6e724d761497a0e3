package s3_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedgen/internal/config"
	"feedgen/internal/port"
	s3store "feedgen/internal/storage/s3"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	headers map[string]http.Header
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		f.headers[r.URL.Path] = r.Header.Clone()
		w.Header().Set("ETag", `"abc123"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodHead && r.URL.Path == "/feedgen-exports":
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newClient(t *testing.T, endpoint string) *s3store.Client {
	t.Helper()
	client, err := s3store.NewS3Client(&config.S3Config{
		Region:    "us-east-1",
		Bucket:    "feedgen-exports",
		Endpoint:  endpoint,
		AccessKey: "test",
		SecretKey: "test",
	})
	require.NoError(t, err)
	return client
}

func TestClient_Upload(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}, headers: map[string]http.Header{}}
	server := httptest.NewServer(fake)
	defer server.Close()

	out, err := newClient(t, server.URL).Upload(context.Background(), port.UploadInput{
		Key:         "exports/feedgen_export_20261001-120000.csv",
		Body:        strings.NewReader("id,title\nA-1,Shoe\n"),
		ContentType: "text/csv; charset=utf-8",
	})
	require.NoError(t, err)
	assert.Equal(t, `"abc123"`, out.ETag)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	path := "/feedgen-exports/exports/feedgen_export_20261001-120000.csv"
	assert.Contains(t, fake.objects[path], "A-1,Shoe")
	assert.Equal(t, `attachment; filename="feedgen_export_20261001-120000.csv"`, fake.headers[path].Get("Content-Disposition"))
}

func TestClient_Delete(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"/feedgen-exports/exports/a.csv": "id"}, headers: map[string]http.Header{}}
	server := httptest.NewServer(fake)
	defer server.Close()

	require.NoError(t, newClient(t, server.URL).Delete(context.Background(), "", "exports/a.csv"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Empty(t, fake.objects)
}

func TestClient_GetPresignedURL(t *testing.T) {
	client := newClient(t, "http://localhost:9000")

	url, err := client.GetPresignedURL(context.Background(), "", "exports/a.csv", 600)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/feedgen-exports/exports/a.csv?"))
	assert.Contains(t, url, "X-Amz-Expires=600")
}

func TestClient_Ping(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}, headers: map[string]http.Header{}}
	server := httptest.NewServer(fake)
	defer server.Close()

	assert.NoError(t, newClient(t, server.URL).Ping(context.Background()))

	missing, err := s3store.NewS3Client(&config.S3Config{
		Region: "us-east-1", Bucket: "nope", Endpoint: server.URL, AccessKey: "test", SecretKey: "test",
	})
	require.NoError(t, err)
	assert.Error(t, missing.Ping(context.Background()))
}
