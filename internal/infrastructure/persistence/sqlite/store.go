// Package sqlite keeps the persisted portal session in a local SQLite file
// through gorm. It is the default durable backend for single-host installs.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/persistence/session"
)

// SessionRecord is one persisted key.
type SessionRecord struct {
	Key       string `gorm:"column:key;primaryKey;size:128"`
	Value     string `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time
}

// Store implements session.Storage on a SQLite file.
type Store struct {
	db *gorm.DB
}

var _ session.Storage = (*Store)(nil)

// Open opens (creating if needed) the database at path and migrates the
// session table. ":memory:" yields a throwaway database.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   "portal_",
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite: pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&SessionRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Get implements session.Storage.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, session.ErrKeyEmpty
	}

	var rec SessionRecord
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite: get %s: %w", key, err)
	}
	return rec.Value, true, nil
}

// Set implements session.Storage.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return session.ErrKeyEmpty
	}

	rec := SessionRecord{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("sqlite: set %s: %w", key, err)
	}
	return nil
}

// Remove implements session.Storage.
func (s *Store) Remove(ctx context.Context, key string) error {
	if key == "" {
		return session.ErrKeyEmpty
	}
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&SessionRecord{}).Error; err != nil {
		return fmt.Errorf("sqlite: remove %s: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
