package goal

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	// PassThreshold is the minimum quiz score for a microtask to count as completed.
	PassThreshold = 80
	// QuizLength is the number of questions requested per verification quiz.
	QuizLength = 10
	// XPPerCompletion is the experience reward for each passing completion.
	XPPerCompletion = 10
)

type Goal struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	Title       string         `gorm:"size:256;not null" json:"title"`
	Description string         `json:"description"`
	Deadline    *time.Time     `json:"deadline"`
	Priority    Priority       `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Category    string         `gorm:"size:64" json:"category"`
	Status      Status         `gorm:"type:varchar(10);not null;default:'active'" json:"status"`
	// Version guards completion writes: at most one in-flight completion
	// mutation per goal (conditional update, see Engine.Complete).
	Version     uint           `gorm:"not null;default:0" json:"-"`
	CompletedAt *time.Time     `json:"completedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Microtasks  []Microtask    `json:"microtasks" gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE"`
}

type Microtask struct {
	ID          uint                           `gorm:"primaryKey" json:"-"`
	GoalID      uint                           `gorm:"index;not null" json:"goal_id"`
	PublicID    string                         `gorm:"uniqueIndex;size:36;not null" json:"id"`
	Title       string                         `gorm:"size:256;not null" json:"title"`
	Day         int                            `gorm:"not null" json:"day"` // 1-based, unique within a goal
	Completed   bool                           `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time                     `json:"completedAt"`
	QuizTaken   bool                           `gorm:"not null;default:false" json:"quizTaken"`
	QuizScore   *int                           `json:"quizScore"`
	Quiz        datatypes.JSONSlice[Question]  `json:"-"`
	CreatedAt   time.Time                      `json:"createdAt"`
	UpdatedAt   time.Time                      `json:"updatedAt"`
}

// Question compares the user's selected option text against Answer.
// Answer is the correct option's exact text, not an index.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// QuestionView is the client-facing shape of a quiz question. Scoring is
// server-side, so the answer never leaves the backend.
type QuestionView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// ViewQuiz strips the answers from a stored quiz.
func ViewQuiz(quiz []Question) []QuestionView {
	views := make([]QuestionView, len(quiz))
	for i, q := range quiz {
		views[i] = QuestionView{Question: q.Question, Options: q.Options}
	}
	return views
}

func (m *Microtask) BeforeCreate(tx *gorm.DB) error {
	if m.PublicID == "" {
		m.PublicID = uuid.NewString()
	}
	return nil
}

// AllCompleted reports whether every microtask in the sequence is completed.
func (g *Goal) AllCompleted() bool {
	if len(g.Microtasks) == 0 {
		return false
	}
	for i := range g.Microtasks {
		if !g.Microtasks[i].Completed {
			return false
		}
	}
	return true
}
