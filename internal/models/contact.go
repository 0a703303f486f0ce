package models

import "time"

// Contact message statuses.
const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusResolved = "resolved"
)

// ValidContactStatus reports whether s is a known contact message status.
func ValidContactStatus(s string) bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusResolved:
		return true
	}
	return false
}

// ContactMessage is a submission from the public contact form.
type ContactMessage struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Name        string     `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email       string     `json:"email" bson:"email" validate:"required,email,max=320"`
	Message     string     `json:"message" bson:"message" validate:"required,min=5,max=5000"`
	Status      string     `json:"status" bson:"status"`
	IP          string     `json:"-" bson:"ip,omitempty"`
	UserAgent   string     `json:"-" bson:"user_agent,omitempty"`
	ReadAt      *time.Time `json:"readAt,omitempty" bson:"read_at,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty" bson:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updated_at"`
}
