package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/addrsync/backend/internal/domain/identity"
)

// UserModel is the gorm model for the users table
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Login     string    `gorm:"size:255;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		ID:    m.ID,
		Email: m.Email,
		Login: m.Login,
	}
}
