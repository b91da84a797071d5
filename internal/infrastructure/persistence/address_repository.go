package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/addrsync/backend/internal/domain/address"
	"github.com/addrsync/backend/internal/infrastructure/persistence/models"
)

// addressesMetaKey is the user_meta key holding a user's address collection.
const addressesMetaKey = "_additional_addresses"

// UserMetaAddressRepository stores each user's address collection as a single
// JSON document in the user_meta table.
type UserMetaAddressRepository struct {
	db *gorm.DB
}

// NewUserMetaAddressRepository creates a new address repository
func NewUserMetaAddressRepository(db *gorm.DB) *UserMetaAddressRepository {
	return &UserMetaAddressRepository{db: db}
}

// ReadAddresses returns the user's full address collection. A user without
// the meta row has an empty collection.
func (r *UserMetaAddressRepository) ReadAddresses(ctx context.Context, userID string) ([]address.Entry, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	var meta models.UserMetaModel
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND meta_key = ?", uid, addressesMetaKey).
		First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read addresses: %w", err)
	}

	if meta.MetaValue == "" {
		return nil, nil
	}

	var entries []address.Entry
	if err := json.Unmarshal([]byte(meta.MetaValue), &entries); err != nil {
		return nil, fmt.Errorf("corrupt address collection for user %s: %w", userID, err)
	}
	return entries, nil
}

// WriteAddresses replaces the user's address collection.
func (r *UserMetaAddressRepository) WriteAddresses(ctx context.Context, userID string, entries []address.Entry) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	if entries == nil {
		entries = []address.Entry{}
	}
	value, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode addresses: %w", err)
	}

	meta := models.UserMetaModel{
		UserID:    uid,
		MetaKey:   addressesMetaKey,
		MetaValue: string(value),
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "meta_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
		}).
		Create(&meta).Error
	if err != nil {
		return fmt.Errorf("failed to write addresses: %w", err)
	}
	return nil
}
