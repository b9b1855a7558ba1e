package models

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	gorm_zerolog "github.com/wei840222/gorm-zerolog"
	"gorm.io/gorm"
)

// DB is the database used by the backend.
var DB *gorm.DB

// Connect opens the sqlite database with the DSN that is passed
// and migrates the schema.
func Connect(dsn string) error {
	config := &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: gorm_zerolog.New(),
	}

	// Create the directory the database file lives in
	if dir := filepath.Dir(dsn); dir != "." {
		err := os.MkdirAll(dir, os.ModePerm)
		if err != nil {
			return fmt.Errorf("creating database directory failed: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return fmt.Errorf("database connection failed with: %w", err)
	}

	// Get new connections after one hour
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("getting database connection failed: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db

	return migrate()
}

// migrate migrates all models so that the schema is correct.
func migrate() error {
	err := DB.AutoMigrate(User{}, Category{}, Transaction{}, PasswordResetToken{})
	if err != nil {
		return fmt.Errorf("database migration failed with: %w", err)
	}

	return nil
}
