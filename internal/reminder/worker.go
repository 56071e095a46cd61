package reminder

import (
	"fmt"
	"log"
	"strings"
	"time"

	"aim-achiever/internal/goal"
	"aim-achiever/internal/mail"
	"aim-achiever/internal/user"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Worker mails each user a daily summary of active goals whose deadline
// falls within the next 24 hours.
type Worker struct {
	db     *gorm.DB
	mailer *mail.Mailer
	cron   *cron.Cron
}

func NewWorker(db *gorm.DB, mailer *mail.Mailer) *Worker {
	return &Worker{
		db:     db,
		mailer: mailer,
		cron:   cron.New(),
	}
}

// Start registers the summary job with the given cron spec and starts the
// scheduler.
func (w *Worker) Start(schedule string) error {
	if _, err := w.cron.AddFunc(schedule, w.RunOnce); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	w.cron.Start()
	log.Printf("[Reminder] scheduled deadline reminders (%s)", schedule)
	return nil
}

func (w *Worker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

// RunOnce executes a single reminder pass.
func (w *Worker) RunOnce() {
	now := time.Now()
	cutoff := now.Add(24 * time.Hour)

	var goals []goal.Goal
	err := w.db.
		Preload("Microtasks", func(db *gorm.DB) *gorm.DB { return db.Order("day asc") }).
		Where("status = ? AND deadline IS NOT NULL AND deadline <= ? AND deadline >= ?",
			goal.StatusActive, cutoff, now).
		Find(&goals).Error
	if err != nil {
		log.Printf("[Reminder] failed to query goals: %v", err)
		return
	}
	if len(goals) == 0 {
		return
	}

	byUser := make(map[uint][]goal.Goal)
	for _, g := range goals {
		byUser[g.UserID] = append(byUser[g.UserID], g)
	}

	for userID, userGoals := range byUser {
		var u user.User
		if err := w.db.First(&u, userID).Error; err != nil {
			log.Printf("[Reminder] user %d not found: %v", userID, err)
			continue
		}
		if err := w.mailer.SendDeadlineReminder(u.Email, BuildSummary(userGoals)); err != nil {
			log.Printf("[Reminder] failed to mail user %d: %v", userID, err)
		}
	}
}

// BuildSummary renders the reminder body for one user's due goals.
func BuildSummary(goals []goal.Goal) string {
	var b strings.Builder
	b.WriteString("<h3>Goals due within 24 hours</h3>\n<ul>\n")
	for _, g := range goals {
		done := 0
		for _, mt := range g.Microtasks {
			if mt.Completed {
				done++
			}
		}
		b.WriteString(fmt.Sprintf("<li><b>%s</b> — %d/%d microtasks completed", g.Title, done, len(g.Microtasks)))
		if g.Deadline != nil {
			b.WriteString(fmt.Sprintf(", due %s", g.Deadline.Format("Jan 2 15:04")))
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n")
	return b.String()
}
