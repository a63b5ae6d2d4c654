package domain

import "time"

// DefaultLevel is the level a freshly registered user starts at.
const DefaultLevel = 1

type User struct {
	ID           string // chosen by the user at sign up
	Name         string
	Email        string
	NickName     string
	PasswordHash string // argon2 encoded
	ProfileImage string
	Level        int
	Exp          int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
