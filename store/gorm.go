package store

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dailyyoga/cachekit/db"
	"github.com/dailyyoga/cachekit/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cacheRecord is the row shape for a database-backed store
type cacheRecord struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     []byte
	UpdatedAt time.Time
}

// GormStore keeps entries in a database table, one row per key, with
// values JSON encoded. Read errors degrade to a miss and write errors are
// logged and swallowed, so a flaky database behaves like an empty cache
// rather than poisoning callers.
type GormStore[V any] struct {
	db     *gorm.DB
	table  string
	logger logger.Logger
}

// NewGorm creates a store over the given table, migrating it if needed.
// An empty table name defaults to "cache_entries".
func NewGorm[V any](database db.Database, table string, log logger.Logger) (*GormStore[V], error) {
	gdb, err := database.DB()
	if err != nil {
		return nil, err
	}
	if table == "" {
		table = "cache_entries"
	}
	if err := gdb.Table(table).AutoMigrate(&cacheRecord{}); err != nil {
		return nil, ErrMigration(err)
	}
	return &GormStore[V]{
		db:     gdb,
		table:  table,
		logger: log,
	}, nil
}

// Get returns the value for key and whether it was present
func (s *GormStore[V]) Get(key string) (V, bool) {
	var zero V
	var rec cacheRecord
	err := s.db.Table(s.table).Where("`key` = ?", key).Take(&rec).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return zero, false
	}

	var value V
	if err := json.Unmarshal(rec.Value, &value); err != nil {
		s.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return value, true
}

// Set writes the value for key, inserting or updating the row
func (s *GormStore[V]) Set(key string, value V) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	rec := cacheRecord{Key: key, Value: raw, UpdatedAt: time.Now()}
	err = s.db.Table(s.table).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes the row for key and reports whether one existed
func (s *GormStore[V]) Delete(key string) bool {
	res := s.db.Table(s.table).Where("`key` = ?", key).Delete(&cacheRecord{})
	if res.Error != nil {
		s.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(res.Error))
		return false
	}
	return res.RowsAffected > 0
}

// Flush removes all rows
func (s *GormStore[V]) Flush() {
	if err := s.db.Table(s.table).Where("1 = 1").Delete(&cacheRecord{}).Error; err != nil {
		s.logger.Warn("cache flush failed", zap.Error(err))
	}
}
