package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func configurePool(sqlDB *sql.DB, maxOpen int) {
	const (
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(min(maxIdleConns, maxOpen))
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	}
}

// Open connects to postgres when dsn is set and falls back to a sqlite file otherwise.
func Open(ctx context.Context, dsn, sqlitePath string) (*gorm.DB, error) {
	if dsn != "" {
		return open(ctx, postgres.Open(dsn), 20)
	}
	if sqlitePath == "" {
		return nil, fmt.Errorf("neither DATABASE_URL nor SQLITE_PATH is set")
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY under load.
	return open(ctx, sqlite.Open(sqlitePath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), 1)
}

// OpenMemory returns an isolated in-memory sqlite database.
func OpenMemory(ctx context.Context) (*gorm.DB, error) {
	return open(ctx, sqlite.Open("file::memory:"), 1)
}

func open(ctx context.Context, dialector gorm.Dialector, maxOpen int) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB, maxOpen)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return db, nil
}
