package models

import "time"

// User is a registered account. Users are never updated or deleted.
type User struct {
	ID           int64
	UserName     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
