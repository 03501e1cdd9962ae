package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SQLiteStore persists values in a single sqlite table.
type SQLiteStore struct {
	db          *gorm.DB
	versionPath string
}

type KVEntry struct {
	Key       string `gorm:"column:entry_key;primarykey"`
	Value     string
	UpdatedAt time.Time `gorm:"index"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

const (
	kvSchemaVersion = 1
)

func NewSQLiteStore(dbFilePath string) (*SQLiteStore, error) {
	if dbFilePath == "" {
		return nil, errors.New("sqlite store requires a database path")
	}

	dbFileExists := true
	if _, err := os.Stat(dbFilePath); errors.Is(err, os.ErrNotExist) {
		dbFileExists = false
	} else if err != nil {
		return nil, fmt.Errorf("error checking store db: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	s := &SQLiteStore{
		db:          db,
		versionPath: dbFilePath + ".version",
	}

	if s.needsMigration(dbFileExists) {
		if err := db.AutoMigrate(&KVEntry{}); err != nil {
			return nil, fmt.Errorf("error auto-migrating database schema: %w", err)
		}
		if err := s.writeSchemaVersion(kvSchemaVersion); err != nil {
			return nil, fmt.Errorf("error writing store schema version: %w", err)
		}
	}

	return s, nil
}

func (s *SQLiteStore) needsMigration(dbFileExists bool) bool {
	if !dbFileExists {
		return true
	}

	versionMatches, err := s.schemaVersionMatches()
	if err != nil || !versionMatches {
		return true
	}

	// The marker can outlive the table if the database was edited by hand.
	return !s.db.Migrator().HasTable(&KVEntry{})
}

func (s *SQLiteStore) writeSchemaVersion(version int) error {
	return os.WriteFile(s.versionPath, []byte(strconv.Itoa(version)), 0644)
}

func (s *SQLiteStore) schemaVersionMatches() (bool, error) {
	data, err := os.ReadFile(s.versionPath)
	if err != nil {
		return false, err
	}
	version, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return false, err
	}
	if version != kvSchemaVersion {
		return false, fmt.Errorf("store schema version mismatch: got %d, want %d", version, kvSchemaVersion)
	}
	return true, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry KVEntry
	result := s.db.WithContext(ctx).Where("entry_key = ?", key).Limit(1).Find(&entry)
	if result.Error != nil {
		return "", false, result.Error
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}
	return entry.Value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	entry := KVEntry{Key: key, Value: value}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entry)
	return result.Error
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&KVEntry{}, "entry_key = ?", key).Error
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
