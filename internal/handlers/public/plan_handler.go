package public

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/shard-legends/upgrade-planner-service/internal/auth"
	"github.com/shard-legends/upgrade-planner-service/internal/models"
	"github.com/shard-legends/upgrade-planner-service/internal/planner"
	"github.com/shard-legends/upgrade-planner-service/internal/service"
	"go.uber.org/zap"
)

// maxRequestBody ограничение размера тела запроса
const maxRequestBody = 1 << 20

// PlanHandler обрабатывает HTTP запросы расчета плана улучшений
type PlanHandler struct {
	planner   service.Planner
	logger    *zap.Logger
	validator *validator.Validate
}

// NewPlanHandler создает новый экземпляр PlanHandler
func NewPlanHandler(planner service.Planner, logger *zap.Logger) *PlanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanHandler{
		planner:   planner,
		logger:    logger,
		validator: validator.New(),
	}
}

// PlanForPlayer обрабатывает POST /planner/upgrade-plan
func (h *PlanHandler) PlanForPlayer(w http.ResponseWriter, r *http.Request) {
	var req models.PlayerPlanRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.planner.PlanForPlayer(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, resp)
}

// PlanForSnapshot обрабатывает POST /planner/upgrade-plan/snapshot
func (h *PlanHandler) PlanForSnapshot(w http.ResponseWriter, r *http.Request) {
	var req models.SnapshotPlanRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.planner.PlanForSnapshot(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, resp)
}

// GetTables обрабатывает GET /planner/tables
func (h *PlanHandler) GetTables(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, h.planner.ReferenceTables(r.Context()))
}

// decodeAndValidate разбирает тело запроса и проверяет его. При ошибке ответ уже записан.
func (h *PlanHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(dst); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid JSON body", map[string]interface{}{
			"reason": err.Error(),
		})
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		var fieldErrors []models.ValidationFieldError
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fe := range validationErrors {
				fieldErrors = append(fieldErrors, models.ValidationFieldError{
					Field: fe.Namespace(),
					Error: fe.Tag(),
				})
			}
		}
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, "Request validation failed", map[string]interface{}{
			"fields": fieldErrors,
		})
		return false
	}

	return true
}

// writeServiceError переводит ошибку сервиса в HTTP ответ
func (h *PlanHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to compute upgrade plan"

	switch {
	case errors.Is(err, service.ErrInvalidPlayerTag):
		status, code, message = http.StatusBadRequest, models.ErrorCodeInvalidTag, "Invalid player tag"
	case errors.Is(err, service.ErrPlayerNotFound):
		status, code, message = http.StatusNotFound, models.ErrorCodePlayerNotFound, "Player not found"
	case errors.Is(err, service.ErrPlayerAPI):
		status, code, message = http.StatusBadGateway, models.ErrorCodeUpstream, "Player data is unavailable"
	case errors.Is(err, planner.ErrInvalidRarity):
		status, code, message = http.StatusUnprocessableEntity, models.ErrorCodeInvalidRarity, "Unknown card rarity"
	case errors.Is(err, planner.ErrInvalidStepCost):
		status, code, message = http.StatusInternalServerError, models.ErrorCodeReferenceTables, "Reference tables are invalid"
	case errors.Is(err, planner.ErrMalformedInput):
		status, code, message = http.StatusBadRequest, models.ErrorCodeValidation, "Malformed input"
	}

	fields := []zap.Field{
		zap.Error(err),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("user_id", auth.GetUserID(r.Context())),
		zap.Int("status", status),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Upgrade plan request failed", fields...)
	} else {
		h.logger.Info("Upgrade plan request rejected", fields...)
	}

	var details map[string]interface{}
	if status < http.StatusInternalServerError {
		details = map[string]interface{}{"reason": err.Error()}
	}
	h.writeErrorResponse(w, status, code, message, details)
}

// writeJSONResponse отправляет JSON ответ
func (h *PlanHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeErrorResponse отправляет JSON ответ с ошибкой
func (h *PlanHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string, details map[string]interface{}) {
	h.writeJSONResponse(w, statusCode, models.ErrorResponse{
		Error:   errorCode,
		Message: message,
		Details: details,
	})
}
