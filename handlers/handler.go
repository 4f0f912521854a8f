package handlers

import (
	"errors"
	"net/http"

	"github.com/IWTDPLZZZ/Habit-Tracker/services"
	"github.com/IWTDPLZZZ/Habit-Tracker/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler отдаёт трекер через JSON API.
type Handler struct {
	tracker *services.Tracker
	log     *zap.Logger
}

func New(tracker *services.Tracker, log *zap.Logger) *Handler {
	return &Handler{
		tracker: tracker,
		log:     log.With(zap.String("component", "http")),
	}
}

// fail переводит ошибки сервисов в HTTP-коды. Всё неизвестное считается сбоем
// хранилища и пишется в лог.
func (h *Handler) fail(c *gin.Context, handler string, err error) {
	switch {
	case errors.Is(err, services.ErrHabitNotFound), errors.Is(err, services.ErrGoalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidHabit), errors.Is(err, services.ErrInvalidGoal):
		utils.ErrorCount.WithLabelValues(handler, "validation").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		utils.ErrorCount.WithLabelValues(handler, "internal").Inc()
		h.log.Error(handler+"_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) badRequest(c *gin.Context, handler string, err error) {
	utils.ErrorCount.WithLabelValues(handler, "bad_request").Inc()
	c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные", "details": err.Error()})
}

func Healthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
