package models

import (
	"time"

	"github.com/google/uuid"
)

// UserMetaModel is the gorm model for the user_meta key-value table. Each
// (user, key) pair holds one value; the address collection is stored as one
// JSON document per user.
type UserMetaModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_meta_user_key;not null"`
	MetaKey   string    `gorm:"size:255;uniqueIndex:idx_user_meta_user_key;not null"`
	MetaValue string    `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name
func (UserMetaModel) TableName() string {
	return "user_meta"
}
