package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	body   []byte
}

func newFakeS3(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{method: r.Method, path: r.URL.Path, body: body})
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func newTestStorage(t *testing.T, endpoint string) FileStorage {
	t.Helper()
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "exports",
	})
	require.NoError(t, err)
	return fs
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "", endpointURL("", true))
	assert.Equal(t, "https://minio:9000", endpointURL("minio:9000", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "http://already", endpointURL("http://already", true))
}

func TestS3PutAndDelete(t *testing.T) {
	srv, requests := newFakeS3(t)
	fs := newTestStorage(t, srv.URL)

	require.NoError(t, fs.PutObject(context.Background(), "exports/u1/a.json", "application/json", []byte(`{"ok":true}`)))
	require.NoError(t, fs.DeleteObject(context.Background(), "exports/u1/a.json"))

	reqs := requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPut, reqs[0].method)
	assert.Equal(t, "/exports/exports/u1/a.json", reqs[0].path)
	assert.Contains(t, string(reqs[0].body), `{"ok":true}`)
	assert.Equal(t, http.MethodDelete, reqs[1].method)
}

func TestS3PresignedDownloadURL(t *testing.T) {
	fs := newTestStorage(t, "http://minio.local:9000")

	raw, err := fs.GeneratePresignedDownloadURL(context.Background(), "exports/u1/a.json", 5*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "minio.local:9000", u.Host)
	assert.Equal(t, "/exports/exports/u1/a.json", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
}

func TestDisabledStorage(t *testing.T) {
	fs := Disabled()
	assert.ErrorIs(t, fs.PutObject(context.Background(), "k", "text/plain", nil), ErrDisabled)
	_, err := fs.GeneratePresignedDownloadURL(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, fs.DeleteObject(context.Background(), "k"), ErrDisabled)
}
