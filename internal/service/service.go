package service

import (
	"context"

	"github.com/shard-legends/upgrade-planner-service/internal/models"
	"github.com/shard-legends/upgrade-planner-service/internal/planner"
	"go.uber.org/zap"
)

// Planner определяет интерфейс сервиса расчета планов улучшения карт
type Planner interface {
	// PlanForPlayer загружает профиль игрока по тегу и строит план
	PlanForPlayer(ctx context.Context, req *models.PlayerPlanRequest) (*models.UpgradePlanResponse, error)

	// PlanForSnapshot строит план по переданному клиентом снимку коллекции
	PlanForSnapshot(ctx context.Context, req *models.SnapshotPlanRequest) (*models.UpgradePlanResponse, error)

	// ReferenceTables возвращает загруженные справочные таблицы
	ReferenceTables(ctx context.Context) *models.TablesResponse
}

// ServiceDependencies содержит зависимости для создания сервисов
type ServiceDependencies struct {
	Tables  *planner.Tables
	Players PlayerClient
	Options planner.Options
	Logger  *zap.Logger
}

// Service объединяет все сервисы
type Service struct {
	Planner Planner
}

// NewService создает новый экземпляр Service со всеми сервисами
func NewService(deps *ServiceDependencies) *Service {
	return &Service{
		Planner: NewPlanService(deps),
	}
}
