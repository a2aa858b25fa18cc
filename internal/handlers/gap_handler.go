package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"cloze-study-service/internal/methods"
	"cloze-study-service/internal/passage"
	"cloze-study-service/internal/service"

	"github.com/gin-gonic/gin"
)

type GapHandler struct {
	Service   *service.GapService
	Catalogue *passage.Catalogue
}

func NewGapHandler(s *service.GapService, catalogue *passage.Catalogue) *GapHandler {
	return &GapHandler{Service: s, Catalogue: catalogue}
}

// GenerateGaps runs the external gap-generation script for one task.
func (h *GapHandler) GenerateGaps(c *gin.Context) {
	var req struct {
		Method    string `json:"method" binding:"required"`
		PassageID int    `json:"passage_id" binding:"required"`
		NumGaps   int    `json:"num_gaps"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.NumGaps <= 0 {
		req.NumGaps = 10
	}

	set, err := h.Service.GenerateGaps(context.Background(), req.Method, req.PassageID, req.NumGaps)
	if errors.Is(err, service.ErrUnknownMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown method", "details": err.Error()})
		return
	}
	if errors.Is(err, service.ErrPassageNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Passage not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate gaps", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, set)
}

// GetPassage returns a passage's reading text and summary. Gap answer keys
// are never exposed here.
func (h *GapHandler) GetPassage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid passage id"})
		return
	}
	p, ok := h.Catalogue.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Passage not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"passage_id": id,
		"volume":     p.Volume,
		"page":       p.Page,
		"summary":    p.Summary,
		"text":       p.Text,
	})
}

// ListMethods describes the gap-generation method catalogue.
func (h *GapHandler) ListMethods(c *gin.Context) {
	out := make([]gin.H, 0, len(methods.All))
	for _, m := range methods.All {
		out = append(out, gin.H{
			"method":      m,
			"label":       methods.Label(m),
			"description": methods.Description(m),
		})
	}
	c.JSON(http.StatusOK, gin.H{"methods": out})
}
