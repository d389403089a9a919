package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Salt         string    `gorm:"type:varchar(64);not null"`
	IsActive     bool      `gorm:"default:true"`
	Profile      datatypes.JSON
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	LastLogin    *time.Time
}

func (User) TableName() string {
	return "users"
}
