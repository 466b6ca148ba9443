package auth

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	IsAdmin      bool
	Active       bool
	RegisteredAt time.Time
	LastLoginAt  *time.Time
}
