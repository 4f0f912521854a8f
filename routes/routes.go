package routes

import (
	"time"

	"github.com/IWTDPLZZZ/Habit-Tracker/handlers"
	"github.com/IWTDPLZZZ/Habit-Tracker/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options настраивает защиту перед /api.
type Options struct {
	TokenSecret string

	// Limiter равен nil, если Redis не настроен.
	Limiter    middleware.Counter
	RateMax    int
	RateWindow time.Duration
}

func Register(r *gin.Engine, h *handlers.Handler, opts Options) {
	r.GET("/healthcheck", handlers.Healthcheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	if opts.Limiter != nil && opts.RateMax > 0 {
		api.Use(middleware.RateLimit(opts.Limiter, opts.RateMax, opts.RateWindow))
	}
	api.Use(middleware.TokenAuth(opts.TokenSecret))

	// Привычки
	api.GET("/habits", h.ListHabits)
	api.POST("/habits", h.CreateHabit)
	api.GET("/habits/stats", h.HabitStats)
	api.GET("/habits/unassigned", h.UnassignedHabits)
	api.GET("/habits/:id", h.GetHabit)
	api.PUT("/habits/:id", h.UpdateHabit)
	api.DELETE("/habits/:id", h.DeleteHabit)
	api.POST("/habits/:id/complete", h.CompleteHabit)
	api.GET("/habits/:id/completions", h.HabitCompletions)

	// Профиль и достижения
	api.GET("/profile", h.Profile)
	api.GET("/achievements", h.ListAchievements)
	api.GET("/achievements/summary", h.AchievementSummary)

	// Цели
	api.GET("/goals", h.ListGoals)
	api.POST("/goals", h.CreateGoal)
	api.GET("/goals/summary", h.GoalSummary)
	api.GET("/goals/:id", h.GetGoal)
	api.PUT("/goals/:id", h.UpdateGoal)
	api.DELETE("/goals/:id", h.DeleteGoal)
	api.GET("/goals/:id/progress", h.GoalProgress)
	api.GET("/goals/:id/available-habits", h.AvailableHabits)
	api.POST("/goals/:id/habits/:habitId", h.AttachHabit)
	api.DELETE("/goals/:id/habits/:habitId", h.DetachHabit)
}
