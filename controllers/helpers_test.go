package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/qr-table-order/config"
	"github.com/yeremiapane/qr-table-order/feed"
	"github.com/yeremiapane/qr-table-order/router"
	"github.com/yeremiapane/qr-table-order/storage"
	"github.com/yeremiapane/qr-table-order/testhelpers"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	router    *gin.Engine
	db        *gorm.DB
	hub       *feed.Hub
	uploadDir string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	uploadDir := filepath.Join(t.TempDir(), "uploads")
	local, err := storage.NewLocalStorage(uploadDir)
	require.NoError(t, err)

	db := testhelpers.NewTestDB(t)
	hub := feed.NewHub()
	deps := router.Dependencies{
		Config:  &config.Config{CORSOrigin: "*", UploadDir: uploadDir},
		DB:      db,
		Storage: local,
		Hub:     hub,
	}
	return &testApp{
		router:    router.SetupRouter(deps, router.NewServices(deps)),
		db:        db,
		hub:       hub,
		uploadDir: uploadDir,
	}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && json.Valid(w.Body.Bytes()) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

type idOnly struct {
	ID uint `json:"id"`
}

// seedCatalog creates table-1 and a Nasi Goreng menu priced 25000 in Food.
func (a *testApp) seedCatalog(t *testing.T) (tableID, menuID uint) {
	t.Helper()

	w, env := a.do(t, http.MethodPost, "/category/seed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []idOnly
	decode(t, env.Data, &categories)
	require.NotEmpty(t, categories)

	w, env = a.do(t, http.MethodPost, "/tables", map[string]string{"name": "Table 1", "slug": "table-1"})
	require.Equal(t, http.StatusCreated, w.Code)
	var table idOnly
	decode(t, env.Data, &table)

	w, env = a.do(t, http.MethodPost, "/menu", map[string]interface{}{
		"name":       "Nasi Goreng",
		"price":      25000,
		"categoryId": categories[0].ID,
		"image":      "x.jpg",
	})
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	var menu idOnly
	decode(t, env.Data, &menu)

	return table.ID, menu.ID
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}
