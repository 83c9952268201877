package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shard-legends/upgrade-planner-service/internal/handlers"
	"github.com/shard-legends/upgrade-planner-service/internal/planner"
	"github.com/shard-legends/upgrade-planner-service/internal/service"
	"github.com/shard-legends/upgrade-planner-service/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// allowBearer accepts any request that carries an Authorization header
func allowBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			http.Error(w, "Missing authorization header", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newTestHandlers(t *testing.T) *handlers.Handlers {
	t.Helper()

	tables, err := storage.NewFileTableSource("").LoadTables(context.Background())
	require.NoError(t, err)

	return handlers.NewHandlers(&handlers.HandlerDependencies{
		Service: service.NewService(&service.ServiceDependencies{
			Tables:  tables,
			Options: planner.Options{},
			Logger:  zap.NewNop(),
		}),
		Logger: zap.NewNop(),
	})
}

func TestPortSeparation(t *testing.T) {
	h := newTestHandlers(t)
	publicServer := httptest.NewServer(newPublicRouter(h, allowBearer, 10*time.Second))
	defer publicServer.Close()
	internalServer := httptest.NewServer(newInternalRouter(h, 10*time.Second))
	defer internalServer.Close()

	tests := []struct {
		name       string
		baseURL    string
		path       string
		wantStatus int
	}{
		{"public has no health", publicServer.URL, "/health", http.StatusNotFound},
		{"public has no metrics", publicServer.URL, "/metrics", http.StatusNotFound},
		{"internal health", internalServer.URL, "/health", http.StatusOK},
		{"internal ready", internalServer.URL, "/ready", http.StatusOK},
		{"internal metrics", internalServer.URL, "/metrics", http.StatusOK},
		{"internal has no planner", internalServer.URL, "/planner/tables", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(tt.baseURL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestPublicRoutesRequireAuth(t *testing.T) {
	server := httptest.NewServer(newPublicRouter(newTestHandlers(t), allowBearer, 10*time.Second))
	defer server.Close()

	resp, err := http.Get(server.URL + "/planner/tables")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/planner/tables", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer token")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSnapshotPlanEndToEnd(t *testing.T) {
	server := httptest.NewServer(newPublicRouter(newTestHandlers(t), allowBearer, 10*time.Second))
	defer server.Close()

	body := `{"total_gold":100,"target_xp":4,"cards":[{"name":"Knight","rarity":"common","level":1,"count":5}]}`
	req, err := http.NewRequest(http.MethodPost, server.URL+"/planner/upgrade-plan/snapshot", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestCORSPreflight(t *testing.T) {
	server := httptest.NewServer(newPublicRouter(newTestHandlers(t), allowBearer, 10*time.Second))
	defer server.Close()

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/planner/upgrade-plan", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://planner.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
