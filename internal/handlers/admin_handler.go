package handlers

import (
	"context"
	"net/http"

	"cloze-study-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	Stats *service.StatsService
}

func NewAdminHandler(stats *service.StatsService) *AdminHandler {
	return &AdminHandler{Stats: stats}
}

// GetDistribution reports assignment balance across the population.
func (h *AdminHandler) GetDistribution(c *gin.Context) {
	dist, err := h.Stats.GetDistribution(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dist)
}

// GetMethodStats reports per-method result aggregates.
func (h *AdminHandler) GetMethodStats(c *gin.Context) {
	stats, err := h.Stats.GetMethodStats(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"methods": stats})
}
