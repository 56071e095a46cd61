package api

import (
	"errors"
	"net/http"

	"aim-achiever/internal/goal"

	"github.com/gin-gonic/gin"
)

// Helper to extract user ID from context
func getUserIDFromContext(c *gin.Context) (uint, bool) {
	idVal, exists := c.Get("userId")
	if !exists {
		return 0, false
	}
	switch v := idVal.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// respondGoalError maps engine errors onto HTTP statuses.
func respondGoalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, goal.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, goal.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
	case errors.Is(err, goal.ErrLocked):
		c.JSON(http.StatusConflict, gin.H{"error": "microtask not unlocked"})
	case errors.Is(err, goal.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "concurrent completion attempt, please retry"})
	case errors.Is(err, goal.ErrNoQuiz):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no quiz available for this microtask"})
	case errors.Is(err, goal.ErrGeneration):
		// The oracle is best effort; the client may retry the generation.
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed", "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
