package controllers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/qr-table-order/controllers"
)

func multipartRequest(t *testing.T, field, name string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadStoresTimestampedFile(t *testing.T) {
	app := newTestApp(t)

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, multipartRequest(t, "file", "nasi goreng spesial.jpg", []byte("jpeg")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data struct {
			FileName string `json:"fileName"`
		} `json:"data"`
	}
	decodeBody(t, w, &body)
	assert.True(t, strings.HasSuffix(body.Data.FileName, "-nasi-goreng-spesial.jpg"), body.Data.FileName)

	content, err := os.ReadFile(filepath.Join(app.uploadDir, body.Data.FileName))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(content))

	w = httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/"+body.Data.FileName, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg", w.Body.String())
}

func TestUploadErrors(t *testing.T) {
	app := newTestApp(t)

	w, _ := app.do(t, http.MethodGet, "/upload", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = httptest.NewRecorder()
	app.router.ServeHTTP(w, multipartRequest(t, "image", "a.jpg", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.do(t, http.MethodPost, "/upload", map[string]string{"file": "nope"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUploadsServesImagesOnly(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, os.WriteFile(filepath.Join(app.uploadDir, "notes.txt"), []byte("secret"), 0644))

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/notes.txt", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStoredFileName(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	assert.Equal(t, "1700000000123-my-photo.png", controllers.StoredFileName(at, "my photo.png"))
	assert.Equal(t, "1700000000123-a-b.jpg", controllers.StoredFileName(at, "../dir/a\tb.jpg"))
}
