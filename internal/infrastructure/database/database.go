package database

import (
	"realty-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Open opens a GORM DB from DSN (Postgres or a pooler URL).
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") behind PgBouncer-style poolers.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// Models lists every table the service owns, parents first.
func Models() []interface{} {
	models := []interface{}{
		&domain.AdminUser{},
		&domain.Region{},
		&domain.District{},
		&domain.City{},
		&domain.Status{},
		&domain.Feature{},
		&domain.Listing{},
		&domain.ListingFeature{},
		&domain.Media{},
		&domain.Translation{},
		&domain.ListingView{},
		&domain.Favorite{},
	}
	return append(models, domain.AttributeModels()...)
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Seed guarantees the default "available" status exists with id 1.
func Seed(db *gorm.DB) error {
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&domain.Status{
		ID:          domain.DefaultStatusID,
		Name:        domain.DefaultStatusName,
		DisplayName: "Available",
		Color:       "green",
		IsActive:    true,
	}).Error
	if err != nil {
		return err
	}
	// An explicit id does not advance the serial sequence on Postgres.
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`SELECT setval(pg_get_serial_sequence('property_statuses', 'id'), GREATEST((SELECT MAX(id) FROM property_statuses), 1))`).Error
	}
	return nil
}
