package domain

import "time"

// Session is the single stored refresh token of a user. A new login replaces
// the row rather than updating it, so ID changes with every login.
type Session struct {
	ID           string // ULID
	UserID       string
	RefreshToken string
	CreatedAt    time.Time
}
