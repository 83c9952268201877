package storage

import (
	"context"
	"time"

	"github.com/shard-legends/upgrade-planner-service/internal/planner"
)

// TableSource определяет источник справочных таблиц планировщика
type TableSource interface {
	// LoadTables загружает и проверяет таблицы опыта, требований к картам и прогрессии
	LoadTables(ctx context.Context) (*planner.Tables, error)
}

// RepositoryDependencies содержит зависимости для создания источников данных
type RepositoryDependencies struct {
	DB               DatabaseInterface
	MetricsCollector MetricsInterface
}

// DatabaseInterface определяет интерфейс для работы с базой данных
type DatabaseInterface interface {
	Query(ctx context.Context, query string, args ...interface{}) (Rows, error)
	Health(ctx context.Context) error
}

// MetricsInterface определяет интерфейс для сбора метрик
type MetricsInterface interface {
	IncDBQuery(operation string)
	ObserveDBQueryDuration(operation string, duration time.Duration)
}

// Rows интерфейс для работы с результатом множества строк
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
	Close()
}
