package user

import (
	"time"
)

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;size:128;not null" json:"email"`
	Name           string    `gorm:"size:64" json:"name"`
	PasswordHash   string    `gorm:"size:128;not null" json:"-"`
	XP             int       `gorm:"not null;default:0" json:"xp"`
	Level          int       `gorm:"not null;default:1" json:"level"`
	Streak         int       `gorm:"not null;default:0" json:"streak"`
	CompletedTasks int       `gorm:"not null;default:0" json:"completedTasks"`
	TotalTasks     int       `gorm:"not null;default:0" json:"totalTasks"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// LevelForXP derives the level from a total XP amount.
func LevelForXP(xp int) int {
	return xp/100 + 1
}
