package domain

import "time"

// User is an identity record. Email is stored lowercase and compared
// case-insensitively; the unique index on it is the authoritative
// sign-up race guard. PasswordHash is a bcrypt hash, never plaintext.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:320;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
