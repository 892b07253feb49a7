// internal/infrastructure/storage/durable.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one durable key/value row
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Owner     string    `gorm:"size:64;not null;uniqueIndex:idx_storage_owner_key" json:"owner"`
	Key       string    `gorm:"size:128;not null;uniqueIndex:idx_storage_owner_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Entry) TableName() string {
	return "storage_entries"
}

// DurableStore keeps device-scoped values in the database
type DurableStore struct {
	db *gorm.DB
}

// NewDurableStore creates a gorm-backed durable scope
func NewDurableStore(db *gorm.DB) *DurableStore {
	return &DurableStore{db: db}
}

// Get returns the value stored for owner/key
func (s *DurableStore) Get(ctx context.Context, owner, key string) (string, error) {
	var entry Entry
	err := s.db.WithContext(ctx).
		Where("owner = ? AND key = ?", owner, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read durable key %s: %w", key, err)
	}
	return entry.Value, nil
}

// Set inserts or replaces the value for owner/key
func (s *DurableStore) Set(ctx context.Context, owner, key, value string) error {
	entry := Entry{Owner: owner, Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write durable key %s: %w", key, err)
	}
	return nil
}

// Delete removes owner/key
func (s *DurableStore) Delete(ctx context.Context, owner, key string) error {
	err := s.db.WithContext(ctx).
		Where("owner = ? AND key = ?", owner, key).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete durable key %s: %w", key, err)
	}
	return nil
}
