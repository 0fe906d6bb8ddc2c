package uploads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioform/portfolio-admin-backend/internal/objectstore"
)

func setupUploads(t *testing.T, maxBytes int64, perMinute int) (*gin.Engine, *objectstore.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	objects := objectstore.NewMemory()
	r := gin.New()
	NewHandler(objects, "uploads/", maxBytes, perMinute).Register(r)
	return r, objects
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpload(t *testing.T) {
	r, objects := setupUploads(t, 1<<20, 60)

	w := post(r, "/api/upload?filename=a.png", "pngdata")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK  bool   `json:"ok"`
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Contains(t, resp.URL, "https://storage.test/uploads/")
	assert.Contains(t, resp.URL, "-a.png")

	// Uniquified key, so a second upload of the same name does not clobber.
	w = post(r, "/api/upload?filename=a.png", "other")
	require.Equal(t, http.StatusOK, w.Code)

	objs, err := objects.List(context.Background(), "uploads/")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(objs), 1)
}

func TestUploadValidation(t *testing.T) {
	r, _ := setupUploads(t, 16, 60)

	t.Run("filename required", func(t *testing.T) {
		w := post(r, "/api/upload", "pngdata")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		w := post(r, "/api/upload?filename=a.png", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized body", func(t *testing.T) {
		w := post(r, "/api/upload?filename=a.png", strings.Repeat("x", 64))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestUploadRateLimit(t *testing.T) {
	r, _ := setupUploads(t, 1<<20, 2)

	assert.Equal(t, http.StatusOK, post(r, "/api/upload?filename=a.png", "x").Code)
	assert.Equal(t, http.StatusOK, post(r, "/api/upload?filename=b.png", "x").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(r, "/api/upload?filename=c.png", "x").Code)
}

func TestUploadBackendFailure(t *testing.T) {
	r, objects := setupUploads(t, 1<<20, 60)

	objects.FailNext(assert.AnError)
	w := post(r, "/api/upload?filename=a.png", "pngdata")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
