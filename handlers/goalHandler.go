package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/IWTDPLZZZ/Habit-Tracker/services"
	"github.com/gin-gonic/gin"
)

// goalQuery разбирает ?status=&search=&sort=&order= в services.GoalQuery.
func goalQuery(c *gin.Context) (services.GoalQuery, error) {
	q := services.GoalQuery{
		Status: services.GoalStatus(c.DefaultQuery("status", string(services.GoalStatusAll))),
		Search: strings.TrimSpace(c.Query("search")),
		Sort:   services.GoalSort(c.Query("sort")),
	}
	switch q.Status {
	case services.GoalStatusAll, services.GoalStatusActive, services.GoalStatusCompleted:
	default:
		return q, fmt.Errorf("unknown status %q", q.Status)
	}
	switch q.Sort {
	case "", services.SortByDate, services.SortByProgress, services.SortByTitle:
	default:
		return q, fmt.Errorf("unknown sort %q", q.Sort)
	}
	switch order := c.DefaultQuery("order", "asc"); order {
	case "asc":
	case "desc":
		q.Desc = true
	default:
		return q, fmt.Errorf("unknown order %q", order)
	}
	return q, nil
}

// GET /api/goals
func (h *Handler) ListGoals(c *gin.Context) {
	q, err := goalQuery(c)
	if err != nil {
		h.badRequest(c, "list_goals", err)
		return
	}
	goals, err := h.tracker.ListGoals(c.Request.Context(), q)
	if err != nil {
		h.fail(c, "list_goals", err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

// POST /api/goals
func (h *Handler) CreateGoal(c *gin.Context) {
	var in services.GoalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "create_goal", err)
		return
	}
	// сервис принимает пустой заголовок, HTTP нет
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		h.fail(c, "create_goal", services.ErrInvalidGoal)
		return
	}

	goal, err := h.tracker.CreateGoal(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "create_goal", err)
		return
	}
	c.JSON(http.StatusCreated, goal)
}

// GET /api/goals/summary
func (h *Handler) GoalSummary(c *gin.Context) {
	sum, err := h.tracker.GoalSummary(c.Request.Context())
	if err != nil {
		h.fail(c, "goal_summary", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// GET /api/goals/:id
func (h *Handler) GetGoal(c *gin.Context) {
	goal, err := h.tracker.GoalByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get_goal", err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// PUT /api/goals/:id
func (h *Handler) UpdateGoal(c *gin.Context) {
	var patch services.GoalPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.badRequest(c, "update_goal", err)
		return
	}

	goal, err := h.tracker.UpdateGoal(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, "update_goal", err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// DELETE /api/goals/:id
func (h *Handler) DeleteGoal(c *gin.Context) {
	ok, err := h.tracker.DeleteGoal(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "delete_goal", err)
		return
	}
	if !ok {
		h.fail(c, "delete_goal", services.ErrGoalNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Цель удалена"})
}

// GET /api/goals/:id/progress
func (h *Handler) GoalProgress(c *gin.Context) {
	p, err := h.tracker.GoalProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "goal_progress", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /api/goals/:id/available-habits
func (h *Handler) AvailableHabits(c *gin.Context) {
	habits, err := h.tracker.AvailableHabitsForGoal(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "available_habits", err)
		return
	}
	c.JSON(http.StatusOK, habits)
}

// POST /api/goals/:id/habits/:habitId
func (h *Handler) AttachHabit(c *gin.Context) {
	ok, err := h.tracker.AttachHabit(c.Request.Context(), c.Param("id"), c.Param("habitId"))
	if err != nil {
		h.fail(c, "attach_habit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attached": ok})
}

// DELETE /api/goals/:id/habits/:habitId
func (h *Handler) DetachHabit(c *gin.Context) {
	ok, err := h.tracker.DetachHabit(c.Request.Context(), c.Param("id"), c.Param("habitId"))
	if err != nil {
		h.fail(c, "detach_habit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detached": ok})
}
