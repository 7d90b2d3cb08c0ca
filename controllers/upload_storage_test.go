package controllers_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/qr-table-order/config"
	"github.com/yeremiapane/qr-table-order/feed"
	"github.com/yeremiapane/qr-table-order/router"
	"github.com/yeremiapane/qr-table-order/storage"
	"github.com/yeremiapane/qr-table-order/testhelpers"
)

// bucketStorage keeps objects in memory, standing in for a remote bucket.
type bucketStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *bucketStorage) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[name] = data
	return nil
}

func (b *bucketStorage) Open(_ context.Context, name string) (*storage.Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.Object{
		ReadCloser:  io.NopCloser(bytes.NewReader(data)),
		Size:        int64(len(data)),
		ContentType: "image/jpeg",
	}, nil
}

func TestUploadsServedFromNonLocalStorage(t *testing.T) {
	bucket := &bucketStorage{objects: map[string][]byte{}}
	deps := router.Dependencies{
		Config:  &config.Config{CORSOrigin: "*", UploadDir: t.TempDir()},
		DB:      testhelpers.NewTestDB(t),
		Storage: bucket,
		Hub:     feed.NewHub(),
	}
	r := router.SetupRouter(deps, router.NewServices(deps))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "file", "sate ayam.jpg", []byte("jpeg")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data struct {
			FileName string `json:"fileName"`
		} `json:"data"`
	}
	decodeBody(t, w, &body)
	require.Contains(t, bucket.objects, body.Data.FileName)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/"+body.Data.FileName, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg", w.Body.String())
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/missing.jpg", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
