package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one persisted slot.
type Record struct {
	Key   string `gorm:"primaryKey"      json:"key"`
	Value string `gorm:"not null"        json:"value"`
}

func (Record) TableName() string { return "kv_records" }

// GormStore keeps every slot in a single table. The default backend is a
// per-profile SQLite file; a Postgres DSN switches the dialector without
// changing the contract.
type GormStore struct {
	DB *gorm.DB
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// Open connects the store. A non-empty dsn selects Postgres, otherwise path
// names the local SQLite file.
func Open(ctx context.Context, dsn, path string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch {
	case dsn != "":
		dialector = postgres.Open(dsn)
	case path != "":
		dialector = sqlite.Open(path)
	default:
		return nil, fmt.Errorf("storage: neither DATABASE_URL nor STORE_PATH is set")
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("storage: sql.DB: %w", err)
	}
	if dsn != "" {
		configurePool(sqlDB)

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			return nil, fmt.Errorf("storage: ping: %w", err)
		}
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}

	return &GormStore{DB: db}, nil
}

func (s *GormStore) Get(ctx context.Context, key string, dest any) bool {
	var rec Record
	if err := s.DB.WithContext(ctx).Where("key = ?", key).First(&rec).Error; err != nil {
		return false
	}
	// A value that no longer parses is indistinguishable from an absent key.
	if err := json.Unmarshal([]byte(rec.Value), dest); err != nil {
		return false
	}
	return true
}

func (s *GormStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: marshal %q: %w", key, err)
	}

	rec := Record{Key: key, Value: string(data)}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&rec).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Where("key = ?", key).Delete(&Record{}).Error
}

// Close releases the underlying connection.
func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
