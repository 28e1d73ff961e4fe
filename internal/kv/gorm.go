package kv

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/foodhub/internal/models"
)

// GormStore keeps snapshots in the kv_entries table.
type GormStore struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db, Now: time.Now}
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var e models.KVEntry
	if err := s.DB.WithContext(ctx).Where("kv_key = ?", key).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if e.ExpiresAt != nil && !s.Now().Before(*e.ExpiresAt) {
		return nil, ErrNotFound
	}
	return e.Value, nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := models.KVEntry{Key: key, Value: value, UpdatedAt: s.Now()}
	if ttl > 0 {
		exp := s.Now().Add(ttl)
		e.ExpiresAt = &exp
	}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&e).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Where("kv_key = ?", key).Delete(&models.KVEntry{}).Error
}

// Sweep removes expired rows; the worker calls it periodically.
func (s *GormStore) Sweep(ctx context.Context) (int64, error) {
	res := s.DB.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", s.Now()).Delete(&models.KVEntry{})
	return res.RowsAffected, res.Error
}

var _ Store = (*GormStore)(nil)
