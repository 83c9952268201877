package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

// HealthChecker проверка доступности зависимости
type HealthChecker interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	checks map[string]HealthChecker
}

// NewHealthHandler создает обработчик проверок. Nil зависимости не проверяются.
func NewHealthHandler(db, redis HealthChecker) *HealthHandler {
	checks := make(map[string]HealthChecker)
	if db != nil {
		checks["database"] = db
	}
	if redis != nil {
		checks["redis"] = redis
	}
	return &HealthHandler{checks: checks}
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	response := HealthResponse{
		Status:   "ok",
		Services: make(map[string]string),
	}

	for name, check := range h.checks {
		if err := check.Health(ctx); err != nil {
			response.Status = "unhealthy"
			response.Services[name] = "down: " + err.Error()
		} else {
			response.Services[name] = "ok"
		}
	}

	statusCode := http.StatusOK
	if response.Status != "ok" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	for name, check := range h.checks {
		if err := check.Health(ctx); err != nil {
			http.Error(w, name+" not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
