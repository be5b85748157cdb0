package database

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tavolo-pos/tavolo-api/internal/config"
	"github.com/tavolo-pos/tavolo-api/internal/domain/entity"
)

func NewPostgresConnection(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.DiningTable{},
		&entity.MenuCategory{},
		&entity.MenuItem{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Transaction{},
		&entity.TransactionItem{},
		&entity.DailyClosureState{},
		&entity.DailyClosure{},
		&entity.ClosurePaymentLine{},
		&entity.ClosureItemLine{},
		&entity.ClosureAdjustment{},
		&entity.IdempotencyKey{},
	)
}

// Seed creates the initial admin account and the closure cursor row.
// Both are idempotent so the call is safe on every boot.
func Seed(db *gorm.DB) error {
	if err := seedAdminUser(db); err != nil {
		return err
	}
	return seedClosureState(db)
}

func seedAdminUser(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &entity.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: "Admin",
		LastName:  "User",
		Role:      entity.RoleAdmin,
		Active:    true,
	}
	return db.Create(admin).Error
}

func seedClosureState(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.DailyClosureState{}).
		Where("id = ?", entity.DailyClosureStateID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	state := &entity.DailyClosureState{
		ID:                   entity.DailyClosureStateID,
		CurrentPeriodStartAt: time.Now(),
		NextSequenceNo:       1,
	}
	return db.Create(state).Error
}
