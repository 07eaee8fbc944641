package postgres

import (
	"github.com/mduret/dvdtheque-api/internal/domain"
	"github.com/mduret/dvdtheque-api/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Surfaces unique-constraint violations as gorm.ErrDuplicatedKey, so
		// a concurrent duplicate registration fails cleanly instead of
		// bubbling up a driver error.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.User{},
		&domain.PasswordReset{},
		&domain.DVD{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:          NewUserRepository(db),
		PasswordReset: NewPasswordResetRepository(db),
		DVD:           NewDVDRepository(db),
	}
}
