package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	err error
}

func (s *stubChecker) Health(ctx context.Context) error {
	return s.err
}

func TestHealthHandler_Health(t *testing.T) {
	t.Run("redis only", func(t *testing.T) {
		h := NewHealthHandler(nil, &stubChecker{})
		rec := httptest.NewRecorder()

		h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, map[string]string{"redis": "ok"}, resp.Services)
	})

	t.Run("database down", func(t *testing.T) {
		h := NewHealthHandler(&stubChecker{err: errors.New("refused")}, &stubChecker{})
		rec := httptest.NewRecorder()

		h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "down: refused", resp.Services["database"])
	})
}

func TestHealthHandler_Ready(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(nil, nil).Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	NewHealthHandler(nil, &stubChecker{err: errors.New("timeout")}).Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis not ready")
}
