package handlers

import (
	"context"
	"errors"
	"net/http"

	"cloze-study-service/internal/models"
	"cloze-study-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ResultHandler struct {
	Service *service.ResultService
}

func NewResultHandler(s *service.ResultService) *ResultHandler {
	return &ResultHandler{Service: s}
}

func (h *ResultHandler) CreateResult(c *gin.Context) {
	var result models.TestResult
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.Service.CreateResult(context.Background(), &result)
	if errors.Is(err, service.ErrInvalidResult) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields in test result"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *ResultHandler) GetResultsByUser(c *gin.Context) {
	userID := c.Param("id")
	results, err := h.Service.GetResultsByUser(context.Background(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}
