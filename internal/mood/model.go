package mood

import (
	"time"

	"gorm.io/gorm"
)

// Entry is one day's mood check-in, optionally enriched by the oracle's
// evaluation of the user's free-text input.
type Entry struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"index;not null" json:"user_id"`
	Date       time.Time      `json:"date"`
	Mood       int            `json:"mood"`       // 1-5
	Energy     int            `json:"energy"`     // 1-5
	Motivation int            `json:"motivation"` // 1-5
	Notes      string         `json:"notes"`
	AIRating   *int           `json:"aiRating"`
	AIQuote    string         `json:"aiQuote"`
	AIAdvice   string         `json:"aiAdvice"`
	CreatedAt  time.Time      `json:"createdAt"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Entry) TableName() string { return "mood_entries" }
