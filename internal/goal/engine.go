package goal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"aim-achiever/internal/gemini"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RewardSink receives the gamification delta emitted on a passing completion.
// The engine never reads profile state back; the sink is the system of record.
type RewardSink interface {
	Award(userID uint, xpDelta, streakDelta, completedDelta int) error
}

// Engine owns all goal state mutation: creation (decomposition + quiz
// backfill), pause/resume, quiz submission and the completion rollup.
type Engine struct {
	DB      *gorm.DB
	Oracle  gemini.Generator
	Rewards RewardSink
}

func NewEngine(db *gorm.DB, oracle gemini.Generator, rewards RewardSink) *Engine {
	return &Engine{DB: db, Oracle: oracle, Rewards: rewards}
}

// beforeCompletionWrite is a test hook invoked between the eligibility read
// and the conditional goal write in Complete.
var beforeCompletionWrite func(g *Goal)

// CreateInput is the caller's goal submission.
type CreateInput struct {
	Title       string
	Description string
	Deadline    *time.Time
	Priority    Priority
	Category    string
	Days        int
}

// Create decomposes the goal into daily microtasks, synchronously back-fills
// a quiz for each, and persists the aggregate. Nothing is persisted if
// decomposition fails; a quiz generation failure leaves that microtask's quiz
// empty (it can be generated lazily at first verification).
func (e *Engine) Create(ctx context.Context, userID uint, in CreateInput) (*Goal, error) {
	days := in.Days
	if days == 0 {
		days = 7
	}
	tasks, err := Decompose(ctx, e.Oracle, in.Title, days, in.Description)
	if err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	g := Goal{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Deadline:    in.Deadline,
		Priority:    priority,
		Category:    in.Category,
		Status:      StatusActive,
	}
	for _, t := range tasks {
		mt := Microtask{Title: t.Title, Day: t.Day}
		quiz, err := GenerateQuiz(ctx, e.Oracle, t.Title)
		if err != nil {
			log.Printf("[Goals] quiz backfill failed for day %d (%q): %v", t.Day, t.Title, err)
		} else {
			mt.Quiz = datatypes.NewJSONSlice(quiz)
		}
		g.Microtasks = append(g.Microtasks, mt)
	}

	if err := e.DB.WithContext(ctx).Create(&g).Error; err != nil {
		return nil, fmt.Errorf("failed to persist goal: %w", err)
	}
	return &g, nil
}

// Get loads a goal with its microtasks in day order, scoped to the owner.
func (e *Engine) Get(ctx context.Context, userID, goalID uint) (*Goal, error) {
	var g Goal
	err := e.DB.WithContext(ctx).
		Preload("Microtasks", func(db *gorm.DB) *gorm.DB { return db.Order("day asc") }).
		Where("id = ? AND user_id = ?", goalID, userID).
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns all goals of a user, newest first, microtasks in day order.
func (e *Engine) List(ctx context.Context, userID uint) ([]Goal, error) {
	var goals []Goal
	err := e.DB.WithContext(ctx).
		Preload("Microtasks", func(db *gorm.DB) *gorm.DB { return db.Order("day asc") }).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&goals).Error
	return goals, err
}

// SetStatus toggles a goal between active and paused. Completed is terminal:
// it is only entered by the rollup in Complete and never left.
func (e *Engine) SetStatus(ctx context.Context, userID, goalID uint, status Status) (*Goal, error) {
	if status != StatusActive && status != StatusPaused {
		return nil, fmt.Errorf("%w: status must be active or paused", ErrValidation)
	}
	g, err := e.Get(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if g.Status == StatusCompleted {
		return nil, fmt.Errorf("%w: goal already completed", ErrLocked)
	}
	if g.Status == status {
		return g, nil
	}
	if err := e.DB.WithContext(ctx).Model(g).Update("status", status).Error; err != nil {
		return nil, err
	}
	g.Status = status
	return g, nil
}

// Delete removes a goal and its microtasks as a unit, from any state.
func (e *Engine) Delete(ctx context.Context, userID, goalID uint) error {
	g, err := e.Get(ctx, userID, goalID)
	if err != nil {
		return err
	}
	return e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", g.ID).Delete(&Microtask{}).Error; err != nil {
			return err
		}
		return tx.Delete(g).Error
	})
}

// EnsureQuiz returns the microtask's quiz, generating and persisting it if
// the embedded quiz is still absent.
func (e *Engine) EnsureQuiz(ctx context.Context, userID, goalID uint, microtaskID string) (*Microtask, error) {
	g, err := e.Get(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	mt := findMicrotask(g, microtaskID)
	if mt == nil {
		return nil, ErrNotFound
	}
	if len(mt.Quiz) > 0 {
		return mt, nil
	}
	quiz, err := GenerateQuiz(ctx, e.Oracle, mt.Title)
	if err != nil {
		return nil, err
	}
	stored := datatypes.NewJSONSlice(quiz)
	if err := e.DB.WithContext(ctx).Model(mt).Update("quiz", stored).Error; err != nil {
		return nil, err
	}
	mt.Quiz = stored
	return mt, nil
}

// Result reports the outcome of a quiz submission.
type Result struct {
	Score         int        `json:"score"`
	Passed        bool       `json:"passed"`
	Microtask     Microtask  `json:"microtask"`
	GoalStatus    Status     `json:"goalStatus"`
	GoalCompleted bool       `json:"goalCompleted"`
	CompletedAt   *time.Time `json:"goalCompletedAt,omitempty"`
}

// Complete scores a quiz submission against the identified microtask and
// applies the completion state machine:
//
//   - the microtask must be the one NextUnlocked selects (ErrLocked otherwise,
//     which also covers paused and completed goals),
//   - quizTaken and quizScore are always recorded; completed is set iff the
//     score reaches PassThreshold, with completedAt stamped once,
//   - when the last microtask completes, the goal rolls up to completed and
//     its completedAt is set,
//   - a passing completion emits the fixed reward delta to the sink.
//
// The goal row is written with a conditional update on its version column, so
// two racing submissions cannot both apply: the loser gets ErrConflict.
func (e *Engine) Complete(ctx context.Context, userID, goalID uint, microtaskID string, answers []*int) (*Result, error) {
	g, err := e.Get(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	mt := findMicrotask(g, microtaskID)
	if mt == nil {
		return nil, ErrNotFound
	}

	next := NextUnlocked(g)
	if next == nil || next.PublicID != mt.PublicID {
		return nil, ErrLocked
	}
	if len(mt.Quiz) == 0 {
		return nil, ErrNoQuiz
	}

	score, err := Score(mt.Quiz, answers)
	if err != nil {
		return nil, err
	}
	passed := score >= PassThreshold
	now := time.Now()

	mt.QuizTaken = true
	mt.QuizScore = &score
	if passed {
		mt.Completed = true
		mt.CompletedAt = &now
	}

	if beforeCompletionWrite != nil {
		beforeCompletionWrite(g)
	}

	goalCompleted := passed && g.AllCompleted()
	newStatus := g.Status
	var goalCompletedAt *time.Time
	if goalCompleted {
		newStatus = StatusCompleted
		goalCompletedAt = &now
	}

	err = e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Goal{}).
			Where("id = ? AND version = ?", g.ID, g.Version).
			Updates(map[string]interface{}{
				"version":      g.Version + 1,
				"status":       newStatus,
				"completed_at": goalCompletedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return tx.Model(&Microtask{}).
			Where("id = ?", mt.ID).
			Updates(map[string]interface{}{
				"quiz_taken":   true,
				"quiz_score":   score,
				"completed":    mt.Completed,
				"completed_at": mt.CompletedAt,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	if passed && e.Rewards != nil {
		// Best effort: the profile collaborator is external and must not
		// roll back an already-committed completion.
		if err := e.Rewards.Award(userID, XPPerCompletion, 1, 1); err != nil {
			log.Printf("[Goals] reward emission failed for user %d: %v", userID, err)
		}
	}

	return &Result{
		Score:         score,
		Passed:        passed,
		Microtask:     *mt,
		GoalStatus:    newStatus,
		GoalCompleted: goalCompleted,
		CompletedAt:   goalCompletedAt,
	}, nil
}

func findMicrotask(g *Goal, publicID string) *Microtask {
	for i := range g.Microtasks {
		if g.Microtasks[i].PublicID == publicID {
			return &g.Microtasks[i]
		}
	}
	return nil
}
