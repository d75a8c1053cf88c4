package models

import "time"

// UserDB represents a user record in the database
type UserDB struct {
	ID           int64     `json:"id" db:"id"`                 // Primary key
	Username     string    `json:"username" db:"username"`     // Unique username
	Email        string    `json:"email" db:"email"`           // Unique email
	PasswordHash string    `json:"-" db:"password_hash"`       // bcrypt hash, never the raw password
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // Creation timestamp
}

// Session is the authenticated visitor attached to a request by the session gate.
type Session struct {
	UserID int64
	Token  string
}
