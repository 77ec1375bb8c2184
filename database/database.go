package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"correspondance-app/internal/domain/catalog"
	"correspondance-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to the configured backend. SQLite is the default and takes a
// file path (or ":memory:"); postgres takes a DSN.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             300 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	if err != nil {
		return nil, err
	}

	if driver != "postgres" {
		// a single writer avoids "database is locked" on sqlite and keeps
		// ":memory:" databases on one connection
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates every table of the catalog.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&catalog.Publication{},
		&catalog.Letter{},
		&catalog.Transcription{},
		&catalog.Contribution{},
	)
}

// InitDB opens and migrates the database and stores it in DB.
func InitDB(driver, dsn string) error {
	db, err := Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	DB = db
	return nil
}
