package peer

import (
	"time"

	"gorm.io/gorm"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
)

// Request is one directed edge of the accountability network. It is created
// as pending when the invitation email goes out and flips to accepted exactly
// once, when the recipient follows the tokenized link.
type Request struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RequesterID uint           `gorm:"index;not null" json:"requester_id"`
	RecipientID uint           `gorm:"index;not null" json:"recipient_id"`
	Token       string         `gorm:"size:512;not null" json:"-"`
	Status      RequestStatus  `gorm:"type:varchar(10);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Request) TableName() string { return "peer_requests" }

// Comment is a note a peer leaves on a user they are connected with.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	AuthorID  uint           `gorm:"index;not null" json:"author_id"`
	TargetID  uint           `gorm:"index;not null" json:"target_id"`
	Content   string         `gorm:"not null" json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Comment) TableName() string { return "peer_comments" }
