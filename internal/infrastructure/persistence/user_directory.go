package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/addrsync/backend/internal/domain/identity"
	"github.com/addrsync/backend/internal/infrastructure/persistence/models"
)

// GormUserDirectory resolves users from the users table.
type GormUserDirectory struct {
	db *gorm.DB
}

// NewGormUserDirectory creates a new user directory
func NewGormUserDirectory(db *gorm.DB) *GormUserDirectory {
	return &GormUserDirectory{db: db}
}

// FindUser looks a user up by the highest-priority identifier present in the
// criteria: ID, then email, then login. Lower-priority identifiers are not
// tried when the chosen one misses.
func (d *GormUserDirectory) FindUser(ctx context.Context, c identity.LookupCriteria) (*identity.User, error) {
	var model models.UserModel

	query := d.db.WithContext(ctx)
	switch {
	case c.ID != "":
		id, err := uuid.Parse(c.ID)
		if err != nil {
			return nil, identity.ErrUserNotFound
		}
		query = query.Where("id = ?", id)
	case c.Email != "":
		query = query.Where("email = ?", strings.ToLower(c.Email))
	case c.Login != "":
		query = query.Where("login = ?", c.Login)
	default:
		return nil, identity.ErrUserNotFound
	}

	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return model.ToDomain(), nil
}
