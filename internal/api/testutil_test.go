package api

import (
	"context"
	"strings"
	"testing"
	"time"

	"aim-achiever/internal/db"
	"aim-achiever/internal/goal"
	"aim-achiever/internal/mood"
	"aim-achiever/internal/peer"
	"aim-achiever/internal/user"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// MIGRATE ALL MODELS USED IN TESTS!
	if err := dbConn.AutoMigrate(
		&user.User{},
		&goal.Goal{},
		&goal.Microtask{},
		&mood.Entry{},
		&peer.Request{},
		&peer.Comment{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	db.DB = dbConn
	return dbConn
}

func resetTables(t *testing.T) {
	for _, table := range []string{"users", "goals", "microtasks", "mood_entries", "peer_requests", "peer_comments"} {
		if err := db.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to reset %s table: %v", table, err)
		}
	}
}

func seedUser(t *testing.T, username, email string) user.User {
	u := user.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		Level:        1,
		CreatedAt:    time.Now(),
	}
	if err := db.DB.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

// authedRouter injects the user ID the way the auth middleware would.
func authedRouter(userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	})
	return r
}

// stubOracle returns canned responses in order, then repeats the last one.
type stubOracle struct {
	responses []string
	err       error
	calls     int
}

func (s *stubOracle) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	idx := s.calls - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
