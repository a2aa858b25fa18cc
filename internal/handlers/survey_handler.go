package handlers

import (
	"context"
	"errors"
	"net/http"

	"cloze-study-service/internal/models"
	"cloze-study-service/internal/service"

	"github.com/gin-gonic/gin"
)

type SurveyHandler struct {
	Service *service.SurveyService
}

func NewSurveyHandler(s *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{Service: s}
}

func (h *SurveyHandler) SubmitSurvey(c *gin.Context) {
	var survey models.FinalSurvey
	if err := c.ShouldBindJSON(&survey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if survey.UserID == "" {
		survey.UserID = c.GetHeader("X-User-ID")
	}

	err := h.Service.SubmitSurvey(context.Background(), &survey)
	if errors.Is(err, service.ErrInvalidSurvey) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid survey submission"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, survey)
}

func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	userID := c.Param("id")
	survey, err := h.Service.GetSurvey(context.Background(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Survey not found"})
		return
	}
	c.JSON(http.StatusOK, survey)
}
