package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkup-server/internal/config"
	"checkup-server/internal/logger"
	"checkup-server/internal/media"
	"checkup-server/internal/middleware"
)

type mockMediaStore struct {
	UploadFunc func(ctx context.Context, name, contentType string, data []byte) (*media.Asset, error)
	DeleteFunc func(ctx context.Context, publicID string) error

	deleted []string
}

var _ MediaStore = (*mockMediaStore)(nil)

func (m *mockMediaStore) Upload(ctx context.Context, name, contentType string, data []byte) (*media.Asset, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, name, contentType, data)
	}
	return &media.Asset{URL: "https://cdn.example/" + name, PublicID: "pub-" + name}, nil
}

func (m *mockMediaStore) Delete(ctx context.Context, publicID string) error {
	m.deleted = append(m.deleted, publicID)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, publicID)
	}
	return nil
}

func newUploadRouter(store MediaStore, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewUploadHandler(store, logger.New("error"))

	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	private.POST("/upload", h.Upload)
	private.DELETE("/upload", h.Delete)
	return router
}

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUpload_MultipleFiles(t *testing.T) {
	t.Parallel()

	cfg := testCfg()
	router := newUploadRouter(&mockMediaStore{}, cfg)
	token := tokenFor(t, cfg, "doc-1", "drwho", "Dr Who")

	body, contentType := multipartBody(t, map[string][]byte{
		"checkup_audio.webm": []byte("audio-bytes"),
		"second.webm":        []byte("more-bytes"),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool          `json:"success"`
		Result  []media.Asset `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Result, 2)
	for _, asset := range resp.Result {
		assert.NotEmpty(t, asset.URL)
		assert.NotEmpty(t, asset.PublicID)
	}
}

func TestUpload_NoFiles(t *testing.T) {
	t.Parallel()

	cfg := testCfg()
	router := newUploadRouter(&mockMediaStore{}, cfg)
	token := tokenFor(t, cfg, "doc-1", "drwho", "Dr Who")

	body, contentType := multipartBody(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_StoreFailure(t *testing.T) {
	t.Parallel()

	cfg := testCfg()
	store := &mockMediaStore{
		UploadFunc: func(ctx context.Context, name, contentType string, data []byte) (*media.Asset, error) {
			return nil, errors.New("bucket unreachable")
		},
	}
	router := newUploadRouter(store, cfg)
	token := tokenFor(t, cfg, "doc-1", "drwho", "Dr Who")

	body, contentType := multipartBody(t, map[string][]byte{"a.webm": []byte("x")})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// The raw store error is logged, not echoed to the client
	assert.NotContains(t, w.Body.String(), "bucket unreachable")
}

func TestDelete_ByPublicID(t *testing.T) {
	t.Parallel()

	cfg := testCfg()
	store := &mockMediaStore{}
	router := newUploadRouter(store, cfg)
	token := tokenFor(t, cfg, "doc-1", "drwho", "Dr Who")

	w := doJSON(router, http.MethodDelete, "/api/v1/upload", token, gin.H{"public_id": "pub-123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"pub-123"}, store.deleted)
}

func TestDelete_MissingPublicID(t *testing.T) {
	t.Parallel()

	cfg := testCfg()
	store := &mockMediaStore{}
	router := newUploadRouter(store, cfg)
	token := tokenFor(t, cfg, "doc-1", "drwho", "Dr Who")

	w := doJSON(router, http.MethodDelete, "/api/v1/upload", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.deleted)
}
