package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// preference is one persisted flag
type preference struct {
	Name      string `gorm:"primaryKey"`
	Value     bool
	UpdatedAt time.Time
}

func (preference) TableName() string { return "preferences" }

// gormLogger routes GORM output through charmbracelet/log
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		log.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		log.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		log.Error(fmt.Sprintf(msg, data...))
	}
}

// Trace logs failed queries only; preference traffic is tiny
func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Error || err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}
	sql, rows := fc()
	log.Error("settings query failed", "err", err, "duration", time.Since(begin), "sql", sql, "rows", rows)
}

// SQLiteStore keeps preferences in a single-table SQLite database
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens or creates the database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  (&gormLogger{}).LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}

	for _, pragma := range []string{"PRAGMA busy_timeout=5000", "PRAGMA synchronous=FULL"} {
		if err := db.Exec(pragma).Error; err != nil {
			closeDB(db)
			return nil, fmt.Errorf("configure settings db: %w", err)
		}
	}

	if err := db.AutoMigrate(&preference{}); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migrate settings db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// closeDB releases the pool behind a half-opened database
func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// Bool implements Store
func (s *SQLiteStore) Bool(key string, def bool) bool {
	if s.db == nil {
		return def
	}
	var p preference
	if err := s.db.Where("name = ?", key).Take(&p).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("settings read failed", "key", key, "err", err)
		}
		return def
	}
	return p.Value
}

// SetBool implements Store
func (s *SQLiteStore) SetBool(key string, value bool) error {
	if s.db == nil {
		return ErrClosed
	}
	if err := s.db.Save(&preference{Name: key, Value: value}).Error; err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
