package api

import (
	"net/http"
	"strings"

	"aim-achiever/internal/gemini"

	"github.com/gin-gonic/gin"
)

// POST /ask — free-form question to the oracle, answer returned verbatim
func AskHandler(oracle gemini.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Question string `json:"question"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Question) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing question"})
			return
		}
		answer, err := oracle.Generate(c.Request.Context(), req.Question)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed", "retryable": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"answer": answer})
	}
}
