package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"query_type", "table"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type", "table"},
	)

	RedisOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_redis_operations_total",
			Help: "Total number of Redis operations",
		},
		[]string{"operation", "status"},
	)

	PlayerAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_player_api_calls_total",
			Help: "Total number of calls to the player data API",
		},
		[]string{"endpoint", "status"},
	)

	PlayerAPICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_player_api_call_duration_seconds",
			Help:    "Player data API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	PlansComputedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_plans_computed_total",
			Help: "Total number of upgrade plans computed",
		},
		[]string{"source", "outcome"},
	)

	PlanStepsAccepted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planner_plan_steps_accepted",
			Help:    "Number of upgrade steps accepted per plan",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 200},
		},
	)

	PlanExperienceGained = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planner_plan_experience_gained",
			Help:    "Account experience gained per plan",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
	)

	PlanComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planner_plan_compute_duration_seconds",
			Help:    "Time spent enumerating and optimizing upgrade steps",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	ServiceUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "planner_service_uptime_seconds",
			Help: "Time since Upgrade Planner Service started in seconds",
		},
	)

	ServiceInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "planner_service_info",
			Help: "Upgrade Planner Service information",
		},
		[]string{"version", "build_time"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordDBQuery(queryType, table string, duration float64) {
	DBQueriesTotal.WithLabelValues(queryType, table).Inc()
	DBQueryDuration.WithLabelValues(queryType, table).Observe(duration)
}

func RecordRedisOperation(operation, status string) {
	RedisOperationsTotal.WithLabelValues(operation, status).Inc()
}

func RecordPlayerAPICall(endpoint, status string, duration float64) {
	PlayerAPICallsTotal.WithLabelValues(endpoint, status).Inc()
	PlayerAPICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordPlan records a successful plan computation.
func RecordPlan(source string, targetReached bool, steps, experience int, duration float64) {
	outcome := "partial"
	if targetReached {
		outcome = "target_reached"
	}
	PlansComputedTotal.WithLabelValues(source, outcome).Inc()
	PlanStepsAccepted.Observe(float64(steps))
	PlanExperienceGained.Observe(float64(experience))
	PlanComputeDuration.Observe(duration)
}

// RecordPlanFailure records a plan request rejected by validation or upstream errors.
func RecordPlanFailure(source string) {
	PlansComputedTotal.WithLabelValues(source, "failed").Inc()
}
