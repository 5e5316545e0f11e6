package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RunsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roguesweeper_runs_started_total",
			Help: "Total runs started",
		},
	)
	RunsEnded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roguesweeper_runs_ended_total",
			Help: "Total runs ended, by outcome",
		},
		[]string{"outcome"},
	)
	LevelsCleared = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roguesweeper_levels_cleared_total",
			Help: "Total levels cleared, by level",
		},
		[]string{"level"},
	)
	Actions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roguesweeper_actions_total",
			Help: "Board actions applied, by kind",
		},
		[]string{"kind"},
	)
	StorageErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roguesweeper_storage_errors_total",
			Help: "Failed store operations, by operation",
		},
		[]string{"op"},
	)
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(
		RunsStarted,
		RunsEnded,
		LevelsCleared,
		Actions,
		StorageErrors,
		RLRequests,
		RLBlocked,
	)
}
