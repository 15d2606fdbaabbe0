package services_test

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adib422/FarMacy/internal/models"
)

// setupTestDB opens a per-test in-memory SQLite database and migrates all
// models. The pool is capped at one connection so concurrent transactions
// serialize at the pool instead of failing on SQLite table locks.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Medicine{},
		&models.Order{},
		&models.OrderItem{},
		&models.Prescription{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// createTestUser inserts a user and returns its id.
func createTestUser(t *testing.T, db *gorm.DB, email string) uint {
	t.Helper()

	user := models.User{
		Name:     "Test User",
		Email:    email,
		Password: "not-a-real-hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user.ID
}
