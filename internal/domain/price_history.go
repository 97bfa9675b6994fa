package domain

import (
	"time"

	"finance-manager/internal/portfolio"

	"gorm.io/datatypes"
)

// PriceHistory is one recorded price of an asset. There is at most one row
// per asset and calendar day.
type PriceHistory struct {
	ID       uint           `gorm:"column:id;primaryKey" json:"id"`
	AssetID  uint           `gorm:"column:asset_id;not null;uniqueIndex:idx_price_history_asset_date" json:"asset_id"`
	Date     datatypes.Date `gorm:"column:date;not null;uniqueIndex:idx_price_history_asset_date;index" json:"date"`
	Price    float64        `gorm:"column:price;not null" json:"price"`
	Quantity float64        `gorm:"column:quantity;not null" json:"quantity"`
}

func (PriceHistory) TableName() string {
	return "price_history"
}

// NewPriceHistory records the asset's current price and quantity on the day of at.
func NewPriceHistory(a Asset, at time.Time) PriceHistory {
	return PriceHistory{
		AssetID:  a.ID,
		Date:     datatypes.Date(portfolio.Day(at)),
		Price:    a.CurrentPrice,
		Quantity: a.Quantity,
	}
}

// PricePoint converts the row into the aggregator's input.
func (p PriceHistory) PricePoint() portfolio.PricePoint {
	return portfolio.PricePoint{
		Date:     time.Time(p.Date),
		Price:    p.Price,
		Quantity: p.Quantity,
	}
}
