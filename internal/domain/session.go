package domain

import "time"

type SessionState string

const (
	SessionStateActive  SessionState = "ACTIVE"
	SessionStateExpired SessionState = "EXPIRED"
)

// Session tracks one issued token server-side so that a token with a
// still-valid signature can be rejected once its session is gone or
// expired. The only state transition is ACTIVE -> EXPIRED.
type Session struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"index;not null" json:"user_id"`
	Token     string       `gorm:"size:1024;uniqueIndex;not null" json:"-"`
	State     SessionState `gorm:"size:16;index;not null" json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
