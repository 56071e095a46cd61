package api

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"aim-achiever/internal/db"
	"aim-achiever/internal/gemini"
	"aim-achiever/internal/mood"

	"github.com/gin-gonic/gin"
)

type CreateMoodRequest struct {
	Date       string `json:"date"` // RFC 3339, defaults to now
	Mood       int    `json:"mood"`
	Energy     int    `json:"energy"`
	Motivation int    `json:"motivation"`
	Notes      string `json:"notes"`
}

func validScale(v int) bool { return v >= 1 && v <= 5 }

// POST /moods — record a check-in and enrich it with the oracle's evaluation.
// Enrichment is best effort; the entry is stored even when the oracle fails.
func CreateMoodHandler(oracle gemini.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req CreateMoodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if !validScale(req.Mood) || !validScale(req.Energy) || !validScale(req.Motivation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mood, energy and motivation must be between 1 and 5"})
			return
		}
		date := time.Now()
		if req.Date != "" {
			parsed, err := time.Parse(time.RFC3339, req.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected RFC 3339"})
				return
			}
			date = parsed
		}

		entry := mood.Entry{
			UserID:     userID,
			Date:       date,
			Mood:       req.Mood,
			Energy:     req.Energy,
			Motivation: req.Motivation,
			Notes:      req.Notes,
		}

		input := fmt.Sprintf("Mood: %d/5, Energy: %d/5, Motivation: %d/5. Notes: %s",
			req.Mood, req.Energy, req.Motivation, req.Notes)
		analysis, err := mood.Analyze(c.Request.Context(), oracle, input)
		if err != nil {
			log.Printf("[Mood] analysis failed for user %d: %v", userID, err)
		} else {
			entry.AIRating = analysis.Rating
			entry.AIQuote = analysis.Quote
			entry.AIAdvice = analysis.Advice
		}

		if err := db.DB.Create(&entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save mood entry"})
			return
		}
		c.JSON(http.StatusCreated, entry)
	}
}

// GET /moods
func ListMoodsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var entries []mood.Entry
		if err := db.DB.Where("user_id = ?", userID).
			Order("date desc").Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch mood entries"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// PUT /moods/:id — edit a check-in. The AI evaluation is kept as recorded;
// only the user-entered fields change.
func UpdateMoodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mood entry id"})
			return
		}
		var req CreateMoodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if !validScale(req.Mood) || !validScale(req.Energy) || !validScale(req.Motivation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mood, energy and motivation must be between 1 and 5"})
			return
		}

		var entry mood.Entry
		if err := db.DB.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "mood entry not found"})
			return
		}
		entry.Mood = req.Mood
		entry.Energy = req.Energy
		entry.Motivation = req.Motivation
		entry.Notes = req.Notes
		if req.Date != "" {
			parsed, err := time.Parse(time.RFC3339, req.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected RFC 3339"})
				return
			}
			entry.Date = parsed
		}
		if err := db.DB.Save(&entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update mood entry"})
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

// DELETE /moods/:id
func DeleteMoodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mood entry id"})
			return
		}
		res := db.DB.Where("id = ? AND user_id = ?", entryID, userID).Delete(&mood.Entry{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete mood entry"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "mood entry not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
