package handlers

import (
	"context"
	"errors"
	"net/http"

	"cloze-study-service/internal/assignment"
	"cloze-study-service/internal/progress"
	"cloze-study-service/internal/service"

	"github.com/gin-gonic/gin"
)

// CompletedKey is set on the request context by Advance when the advance
// flips the participant to complete, so the route layer can publish the
// completion event.
const CompletedKey = "participant_completed"

type ParticipantHandler struct {
	Service *service.ParticipantService
}

func NewParticipantHandler(s *service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{Service: s}
}

// Register creates a participant with a counterbalanced assignment.
// Re-registering an existing id returns the stored record.
func (h *ParticipantHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, created, err := h.Service.Register(context.Background(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register participant", "details": err.Error()})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, participant)
}

func (h *ParticipantHandler) GetParticipant(c *gin.Context) {
	id := c.Param("id")
	participant, err := h.Service.Get(context.Background(), id)
	if errors.Is(err, progress.ErrParticipantNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, participant)
}

func (h *ParticipantHandler) GetCurrentTask(c *gin.Context) {
	id := c.Param("id")
	status, err := h.Service.CurrentTask(context.Background(), id)
	if errors.Is(err, progress.ErrParticipantNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *ParticipantHandler) Advance(c *gin.Context) {
	id := c.Param("id")
	status, err := h.Service.Advance(context.Background(), id)
	if errors.Is(err, progress.ErrParticipantNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Set(CompletedKey, status.Complete)
	c.JSON(http.StatusOK, status)
}

func (h *ParticipantHandler) GetStats(c *gin.Context) {
	id := c.Param("id")
	stats, err := h.Service.Stats(context.Background(), id)
	if errors.Is(err, progress.ErrParticipantNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ForceAssignment overwrites a participant's assignment arrays directly.
// Admin and test tooling only.
func (h *ParticipantHandler) ForceAssignment(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		Passages []int    `json:"passages" binding:"required"`
		Methods  []string `json:"methods" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Service.ForceAssignment(context.Background(), id, req.Passages, req.Methods)
	if errors.Is(err, progress.ErrParticipantNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}
	if errors.Is(err, assignment.ErrInvalidAssignment) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment", "details": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment updated"})
}
