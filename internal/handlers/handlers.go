package handlers

import (
	"github.com/shard-legends/upgrade-planner-service/internal/handlers/public"
	"github.com/shard-legends/upgrade-planner-service/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все HTTP обработчики
type Handlers struct {
	Health *HealthHandler
	Plan   *public.PlanHandler
}

// HandlerDependencies содержит зависимости для создания handlers.
// DB может отсутствовать, если таблицы загружаются из файла.
type HandlerDependencies struct {
	Service *service.Service
	DB      HealthChecker
	Redis   HealthChecker
	Logger  *zap.Logger
}

// NewHandlers создает новый экземпляр Handlers со всеми обработчиками
func NewHandlers(deps *HandlerDependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.DB, deps.Redis),
		Plan:   public.NewPlanHandler(deps.Service.Planner, deps.Logger),
	}
}
