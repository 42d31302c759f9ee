package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/store"
)

// failingStore errors on every read, standing in for an unreachable
// backend.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("connection refused")
}
func (failingStore) Delete(ctx context.Context, key string) error {
	return errors.New("connection refused")
}
func (failingStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) Close() error { return nil }

func healthResponse(t *testing.T, st store.Store) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/health", NewHealthHandler(st, zap.NewNop()).GetHealth)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthHandler_HealthyStore(t *testing.T) {
	code, body := healthResponse(t, store.NewMemoryStore())

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["storage"])
}

func TestHealthHandler_UnreachableStoreIsDegraded(t *testing.T) {
	code, body := healthResponse(t, failingStore{})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "unavailable", body["storage"])
}
