package database

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qq3pta/coffee-shop-api/internal/domain"
)

func newMigratedDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestMigrateCreatesUserTable(t *testing.T) {
	db := newMigratedDBForTest(t)
	if !db.Migrator().HasTable(&domain.User{}) {
		t.Fatal("expected users table after migration")
	}
}

func TestSeedAdminPromotesExistingUser(t *testing.T) {
	db := newMigratedDBForTest(t)

	u := &domain.User{Email: "boss@x.com", PasswordHash: "hash", Role: domain.RoleUser}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := SeedAdmin(db, "boss@x.com"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	var reloaded domain.User
	if err := db.First(&reloaded, u.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Role != domain.RoleAdmin {
		t.Fatalf("expected role admin, got %q", reloaded.Role)
	}

	// Empty email and unknown email are both no-ops.
	if err := SeedAdmin(db, ""); err != nil {
		t.Fatalf("seed with empty email: %v", err)
	}
	if err := SeedAdmin(db, "nobody@x.com"); err != nil {
		t.Fatalf("seed with unknown email: %v", err)
	}
}
