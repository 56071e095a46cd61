package user

import (
	"log"

	"gorm.io/gorm"
)

// Reward is the delta emitted by the goal engine on a passing completion.
type Reward struct {
	XP             int
	Streak         int
	CompletedTasks int
}

// ApplyReward credits a reward to the user's profile. Level is recomputed
// from the resulting XP total.
func ApplyReward(db *gorm.DB, userID uint, r Reward) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var u User
		if err := tx.First(&u, userID).Error; err != nil {
			return err
		}
		u.XP += r.XP
		u.Level = LevelForXP(u.XP)
		u.Streak += r.Streak
		u.CompletedTasks += r.CompletedTasks
		if err := tx.Save(&u).Error; err != nil {
			return err
		}
		log.Printf("[Reward] user %d: +%d xp (level %d, streak %d)", userID, r.XP, u.Level, u.Streak)
		return nil
	})
}
