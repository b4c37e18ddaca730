package database

import (
	"fmt"
	"log"

	"hustlehack-backend/config"
	"hustlehack-backend/internal/domain/billing"
	"hustlehack-backend/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the Supabase Postgres database and migrates the schema.
// The handle is returned rather than stored in a package global so handlers
// receive their DB explicitly.
func InitDB() *gorm.DB {
	dsn := config.DB_URL
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
	return db
}

// Migrate creates/updates the tables. The unique indexes on users.email and
// payments.payment_intent_id are the storage-level backstop for the races
// the application-level guard and resolver do not close.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&billing.Payment{},
	)
}
