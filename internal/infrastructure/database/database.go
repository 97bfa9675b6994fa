package database

import (
	"strings"

	"finance-manager/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Open opens a GORM DB from DSN. postgres:// and postgresql:// URLs use the
// Postgres driver; anything else is treated as a SQLite file or URI.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") behind connection poolers.
func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if isPostgres(dsn) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), cfg)
	}
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	if strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func isPostgres(dsn string) bool {
	d := strings.ToLower(dsn)
	return strings.HasPrefix(d, "postgres://") || strings.HasPrefix(d, "postgresql://")
}

// AutoMigrate creates or updates the asset and price history tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Asset{}, &domain.PriceHistory{})
}

// RecordPrice stores the asset's current price for the day of row.Date,
// replacing any row already recorded for that day.
func RecordPrice(tx *gorm.DB, row domain.PriceHistory) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "quantity"}),
	}).Create(&row).Error
}
