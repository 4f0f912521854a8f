package handlers

import (
	"net/http"

	"github.com/IWTDPLZZZ/Habit-Tracker/models"
	"github.com/IWTDPLZZZ/Habit-Tracker/services"
	"github.com/gin-gonic/gin"
)

// GET /api/profile
func (h *Handler) Profile(c *gin.Context) {
	view, err := h.tracker.Profile(c.Request.Context())
	if err != nil {
		h.fail(c, "profile", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /api/achievements?search=&category=&rarity=
func (h *Handler) ListAchievements(c *gin.Context) {
	f := services.CatalogFilter{
		Search:   c.Query("search"),
		Category: models.AchievementCategory(c.Query("category")),
		Rarity:   models.Rarity(c.Query("rarity")),
	}
	views, err := h.tracker.ListAchievements(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "list_achievements", err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GET /api/achievements/summary
func (h *Handler) AchievementSummary(c *gin.Context) {
	sum, err := h.tracker.AchievementSummary(c.Request.Context())
	if err != nil {
		h.fail(c, "achievement_summary", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
