package database

import (
	"gorm.io/gorm"

	"github.com/qq3pta/coffee-shop-api/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
	)
}

// SeedAdmin promotes the bootstrap admin account, if configured and already
// registered. Safe to run on every start.
func SeedAdmin(db *gorm.DB, email string) error {
	if email == "" {
		return nil
	}
	return db.Model(&domain.User{}).
		Where("email = ? AND role <> ?", email, domain.RoleAdmin).
		Update("role", domain.RoleAdmin).Error
}
