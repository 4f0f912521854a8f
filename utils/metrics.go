package utils

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Counter: общее количество HTTP запросов
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	// handler - какой endpoint, type - тип ошибки
	ErrorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_errors_total",
			Help: "Total app errors",
		},
		[]string{"handler", "type"},
	)

	CompletionCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "habit_completions_total",
			Help: "Habit completions recorded",
		},
	)

	PointsAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_points_awarded_total",
			Help: "Points awarded to the profile",
		},
		[]string{"source"}, // completion | achievement
	)

	AchievementsEarned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_achievements_earned_total",
			Help: "Achievements earned by id",
		},
		[]string{"achievement"},
	)
)

var registerOnce sync.Once

// InitMetrics регистрирует коллекторы в registry по умолчанию. Повторный вызов безопасен.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ReqCount, ReqDuration, ErrorCount, CompletionCount, PointsAwarded, AchievementsEarned)
	})
}
