package api

import (
	"net/http"
	"strconv"
	"time"

	"aim-achiever/internal/db"
	"aim-achiever/internal/goal"
	"aim-achiever/internal/user"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// profileRewards bridges the engine's reward emission to the user profile.
type profileRewards struct{}

func (profileRewards) Award(userID uint, xpDelta, streakDelta, completedDelta int) error {
	return user.ApplyReward(db.DB, userID, user.Reward{
		XP:             xpDelta,
		Streak:         streakDelta,
		CompletedTasks: completedDelta,
	})
}

// NewRewardSink returns the production reward sink.
func NewRewardSink() goal.RewardSink {
	return profileRewards{}
}

func parseGoalID(c *gin.Context) (uint, bool) {
	idUint, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return 0, false
	}
	return uint(idUint), true
}

type CreateGoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"` // RFC 3339, optional
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Days        int    `json:"days"`
}

// POST /goals — decompose, back-fill quizzes, persist (all or nothing)
func CreateGoalHandler(engine *goal.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req CreateGoalRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing goal title"})
			return
		}
		var deadline *time.Time
		if req.Deadline != "" {
			parsed, err := time.Parse(time.RFC3339, req.Deadline)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deadline, expected RFC 3339"})
				return
			}
			deadline = &parsed
		}

		g, err := engine.Create(c.Request.Context(), userID, goal.CreateInput{
			Title:       req.Title,
			Description: req.Description,
			Deadline:    deadline,
			Priority:    goal.Priority(req.Priority),
			Category:    req.Category,
			Days:        req.Days,
		})
		if err != nil {
			respondGoalError(c, err)
			return
		}
		db.DB.Model(&user.User{}).Where("id = ?", userID).
			Update("total_tasks", gorm.Expr("total_tasks + 1"))
		c.JSON(http.StatusCreated, g)
	}
}

// GET /goals
func ListGoalsHandler(engine *goal.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		goals, err := engine.List(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch goals"})
			return
		}
		c.JSON(http.StatusOK, goals)
	}
}

// GET /goals/:id
func GetGoalHandler(engine *goal.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		goalID, ok := parseGoalID(c)
		if !ok {
			return
		}
		g, err := engine.Get(c.Request.Context(), userID, goalID)
		if err != nil {
			respondGoalError(c, err)
			return
		}
		c.JSON(http.StatusOK, g)
	}
}

// PUT /goals/:id/status — pause or resume
func UpdateGoalStatusHandler(engine *goal.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		goalID, ok := parseGoalID(c)
		if !ok {
			return
		}
		var req struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing status"})
			return
		}
		g, err := engine.SetStatus(c.Request.Context(), userID, goalID, goal.Status(req.Status))
		if err != nil {
			respondGoalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": g.ID, "status": g.Status})
	}
}

// DELETE /goals/:id
func DeleteGoalHandler(engine *goal.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		goalID, ok := parseGoalID(c)
		if !ok {
			return
		}
		if err := engine.Delete(c.Request.Context(), userID, goalID); err != nil {
			respondGoalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// GET /goals/:id/next — the single microtask eligible for verification
func NextMicrotaskHandler(engine *goal.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		goalID, ok := parseGoalID(c)
		if !ok {
			return
		}
		g, err := engine.Get(c.Request.Context(), userID, goalID)
		if err != nil {
			respondGoalError(c, err)
			return
		}
		next := goal.NextUnlocked(g)
		if next == nil {
			c.JSON(http.StatusOK, gin.H{"microtask": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"microtask": next})
	}
}

// POST /goals/:id/microtasks/:mid/quiz — generate the quiz if still absent
func MicrotaskQuizHandler(engine *goal.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		goalID, ok := parseGoalID(c)
		if !ok {
			return
		}
		mt, err := engine.EnsureQuiz(c.Request.Context(), userID, goalID, c.Param("mid"))
		if err != nil {
			respondGoalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"quiz": goal.ViewQuiz(mt.Quiz)})
	}
}

type SubmitAnswersRequest struct {
	// Answers[i] is the selected option index for question i; null for
	// unanswered questions.
	Answers []*int `json:"answers"`
}

// POST /goals/:id/microtasks/:mid/submit — score and apply completion
func SubmitQuizHandler(engine *goal.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		goalID, ok := parseGoalID(c)
		if !ok {
			return
		}
		var req SubmitAnswersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		result, err := engine.Complete(c.Request.Context(), userID, goalID, c.Param("mid"), req.Answers)
		if err != nil {
			respondGoalError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
