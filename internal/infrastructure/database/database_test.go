package database

import (
	"testing"
	"time"

	"finance-manager/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPostgres(t *testing.T) {
	assert.True(t, isPostgres("postgres://user:pw@localhost:5432/db"))
	assert.True(t, isPostgres("PostgreSQL://localhost/db"))
	assert.False(t, isPostgres("file:finance.db"))
	assert.False(t, isPostgres(":memory:"))
}

func TestRecordPrice_OneRowPerDay(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	asset := domain.Asset{Name: "Toyota", Ticker: "7203", Type: domain.AssetTypeEquity, Quantity: 10, CurrentPrice: 2500}
	require.NoError(t, db.Create(&asset).Error)

	morning := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, RecordPrice(db, domain.NewPriceHistory(asset, morning)))

	asset.CurrentPrice = 2600
	require.NoError(t, RecordPrice(db, domain.NewPriceHistory(asset, morning.Add(6*time.Hour))))

	var rows []domain.PriceHistory
	require.NoError(t, db.Where("asset_id = ?", asset.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 2600.0, rows[0].Price)

	require.NoError(t, RecordPrice(db, domain.NewPriceHistory(asset, morning.AddDate(0, 0, 1))))
	var count int64
	require.NoError(t, db.Model(&domain.PriceHistory{}).Where("asset_id = ?", asset.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
