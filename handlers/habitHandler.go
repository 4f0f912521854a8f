package handlers

import (
	"net/http"

	"github.com/IWTDPLZZZ/Habit-Tracker/services"
	"github.com/gin-gonic/gin"
)

// GET /api/habits
func (h *Handler) ListHabits(c *gin.Context) {
	habits, err := h.tracker.ListHabits(c.Request.Context())
	if err != nil {
		h.fail(c, "list_habits", err)
		return
	}
	c.JSON(http.StatusOK, habits)
}

// POST /api/habits
func (h *Handler) CreateHabit(c *gin.Context) {
	var input services.HabitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, "create_habit", err)
		return
	}

	habit, err := h.tracker.CreateHabit(c.Request.Context(), input)
	if err != nil {
		h.fail(c, "create_habit", err)
		return
	}
	c.JSON(http.StatusCreated, habit)
}

// GET /api/habits/:id
func (h *Handler) GetHabit(c *gin.Context) {
	habit, err := h.tracker.HabitByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get_habit", err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

// PUT /api/habits/:id
func (h *Handler) UpdateHabit(c *gin.Context) {
	var patch services.HabitPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.badRequest(c, "update_habit", err)
		return
	}

	habit, err := h.tracker.UpdateHabit(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, "update_habit", err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

// DELETE /api/habits/:id
func (h *Handler) DeleteHabit(c *gin.Context) {
	ok, err := h.tracker.DeleteHabit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "delete_habit", err)
		return
	}
	if !ok {
		h.fail(c, "delete_habit", services.ErrHabitNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Привычка удалена"})
}

// POST /api/habits/:id/complete
func (h *Handler) CompleteHabit(c *gin.Context) {
	res, err := h.tracker.CompleteHabit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "complete_habit", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/habits/:id/completions
func (h *Handler) HabitCompletions(c *gin.Context) {
	log, err := h.tracker.HabitCompletions(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "habit_completions", err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// GET /api/habits/stats
func (h *Handler) HabitStats(c *gin.Context) {
	stats, err := h.tracker.HabitStats(c.Request.Context())
	if err != nil {
		h.fail(c, "habit_stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/habits/unassigned
func (h *Handler) UnassignedHabits(c *gin.Context) {
	habits, err := h.tracker.UnassignedHabits(c.Request.Context())
	if err != nil {
		h.fail(c, "unassigned_habits", err)
		return
	}
	c.JSON(http.StatusOK, habits)
}
