package domain

import (
	"time"

	"finance-manager/internal/portfolio"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssetType is the category of a holding.
type AssetType string

const (
	AssetTypeEquity     AssetType = "equity"
	AssetTypeMutualFund AssetType = "mutual-fund"
	AssetTypeETF        AssetType = "ETF"
	AssetTypeBond       AssetType = "bond"
	AssetTypeOther      AssetType = "other"
)

// AssetTypes lists every accepted category.
var AssetTypes = []AssetType{AssetTypeEquity, AssetTypeMutualFund, AssetTypeETF, AssetTypeBond, AssetTypeOther}

func (t AssetType) Valid() bool {
	for _, v := range AssetTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Asset is a holding owned by the user. Value, cost and performance are
// derived from it on demand and never stored.
type Asset struct {
	ID            uint           `gorm:"column:id;primaryKey" json:"id"`
	Name          string         `gorm:"column:name;not null;index" json:"name"`
	Ticker        string         `gorm:"column:ticker;not null;index" json:"ticker"`
	Type          AssetType      `gorm:"column:type;type:varchar(20);not null;index" json:"type"`
	Quantity      float64        `gorm:"column:quantity;not null;default:0" json:"quantity"`
	PurchasePrice float64        `gorm:"column:purchase_price;not null;default:0" json:"purchase_price"`
	PurchaseDate  datatypes.Date `gorm:"column:purchase_date" json:"purchase_date"`
	CurrentPrice  float64        `gorm:"column:current_price;not null;default:0" json:"current_price"`
	LastUpdated   time.Time      `gorm:"column:last_updated" json:"last_updated"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	PriceHistory []PriceHistory `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Asset) TableName() string {
	return "assets"
}

// BeforeSave keeps the purchase date on a calendar day.
func (a *Asset) BeforeSave(tx *gorm.DB) error {
	a.PurchaseDate = datatypes.Date(portfolio.Day(time.Time(a.PurchaseDate)))
	return nil
}

// Holding converts the asset into the aggregator's input.
func (a Asset) Holding() portfolio.Holding {
	return portfolio.Holding{
		ID:            a.ID,
		Name:          a.Name,
		Ticker:        a.Ticker,
		Type:          string(a.Type),
		Quantity:      a.Quantity,
		CurrentPrice:  a.CurrentPrice,
		PurchasePrice: a.PurchasePrice,
		PurchaseDate:  time.Time(a.PurchaseDate),
	}
}

// Holdings converts a slice of assets.
func Holdings(assets []Asset) []portfolio.Holding {
	out := make([]portfolio.Holding, len(assets))
	for i, a := range assets {
		out[i] = a.Holding()
	}
	return out
}
