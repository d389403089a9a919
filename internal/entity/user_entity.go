package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Salt         string
	IsActive     bool
	Profile      map[string]interface{}
	CreatedAt    time.Time
	LastLogin    *time.Time
}
