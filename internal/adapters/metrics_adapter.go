package adapters

import (
	"time"

	"github.com/shard-legends/upgrade-planner-service/internal/storage"
	"github.com/shard-legends/upgrade-planner-service/pkg/metrics"
)

const referenceTablesLabel = "reference_tables"

// MetricsAdapter адаптирует metrics для storage.MetricsInterface
type MetricsAdapter struct{}

// NewMetricsAdapter создает новый адаптер для метрик
func NewMetricsAdapter() storage.MetricsInterface {
	return &MetricsAdapter{}
}

// IncDBQuery увеличивает счетчик запросов к БД
func (a *MetricsAdapter) IncDBQuery(operation string) {
	metrics.DBQueriesTotal.WithLabelValues(operation, referenceTablesLabel).Inc()
}

// ObserveDBQueryDuration записывает время выполнения запроса к БД
func (a *MetricsAdapter) ObserveDBQueryDuration(operation string, duration time.Duration) {
	metrics.DBQueryDuration.WithLabelValues(operation, referenceTablesLabel).Observe(duration.Seconds())
}
