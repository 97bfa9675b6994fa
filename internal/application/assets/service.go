package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-manager/internal/domain"
	"finance-manager/internal/infrastructure/database"
	"finance-manager/internal/pkg/validation"
	"finance-manager/internal/portfolio"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no asset has the requested id.
var ErrNotFound = errors.New("asset not found")

// Invalidator drops cached results derived from asset data.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service encapsulates asset operations.
type Service struct {
	DB    *gorm.DB
	Cache Invalidator
	Now   func() time.Time
}

// View is the API representation of an asset with its derived values.
type View struct {
	domain.Asset
	PurchaseDate string  `json:"purchase_date"`
	CurrentValue float64 `json:"current_value"`
	CostBasis    float64 `json:"cost_basis"`
	GainLoss     float64 `json:"gain_loss"`
	Performance  float64 `json:"performance"`
}

func NewView(a domain.Asset) View {
	h := a.Holding()
	return View{
		Asset:        a,
		PurchaseDate: time.Time(a.PurchaseDate).UTC().Format(validation.DateLayout),
		CurrentValue: h.CurrentValue(),
		CostBasis:    h.CostBasis(),
		GainLoss:     h.GainLoss(),
		Performance:  h.PerformancePercent(),
	}
}

func NewViews(assets []domain.Asset) []View {
	out := make([]View, len(assets))
	for i, a := range assets {
		out[i] = NewView(a)
	}
	return out
}

// Portfolio is every asset together with the aggregate summary.
type Portfolio struct {
	Assets  []View            `json:"assets"`
	Summary portfolio.Summary `json:"summary"`
}

// CreateInput is the body of a create request.
type CreateInput struct {
	Name          string           `json:"name"`
	Ticker        string           `json:"ticker"`
	Type          domain.AssetType `json:"type"`
	Quantity      float64          `json:"quantity"`
	PurchasePrice float64          `json:"purchase_price"`
	PurchaseDate  string           `json:"purchase_date"`
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name          *string           `json:"name"`
	Ticker        *string           `json:"ticker"`
	Type          *domain.AssetType `json:"type"`
	Quantity      *float64          `json:"quantity"`
	PurchasePrice *float64          `json:"purchase_price"`
	PurchaseDate  *string           `json:"purchase_date"`
	CurrentPrice  *float64          `json:"current_price"`
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("performance cache invalidation failed")
	}
}

// List returns every asset ordered by id, with the portfolio summary.
func (s *Service) List(ctx context.Context) (*Portfolio, error) {
	var rows []domain.Asset
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return &Portfolio{
		Assets:  NewViews(rows),
		Summary: portfolio.Summarize(domain.Holdings(rows)),
	}, nil
}

// Get returns one asset.
func (s *Service) Get(ctx context.Context, id uint) (*domain.Asset, error) {
	return s.find(s.DB.WithContext(ctx), id)
}

func (s *Service) find(db *gorm.DB, id uint) (*domain.Asset, error) {
	var a domain.Asset
	if err := db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load asset %d: %w", id, err)
	}
	return &a, nil
}

func validateType(t domain.AssetType) error {
	if !t.Valid() {
		return &validation.Error{Field: "type", Message: "must be one of equity, mutual-fund, ETF, bond, other"}
	}
	return nil
}

func (in CreateInput) asset() (*domain.Asset, error) {
	if err := validation.Required("name", in.Name); err != nil {
		return nil, err
	}
	if err := validation.Required("ticker", in.Ticker); err != nil {
		return nil, err
	}
	if err := validateType(in.Type); err != nil {
		return nil, err
	}
	if err := validation.NonNegative("quantity", in.Quantity); err != nil {
		return nil, err
	}
	if err := validation.NonNegative("purchase_price", in.PurchasePrice); err != nil {
		return nil, err
	}
	date, err := validation.ParseDate("purchase_date", in.PurchaseDate)
	if err != nil {
		return nil, err
	}
	return &domain.Asset{
		Name:          in.Name,
		Ticker:        in.Ticker,
		Type:          in.Type,
		Quantity:      in.Quantity,
		PurchasePrice: in.PurchasePrice,
		PurchaseDate:  datatypes.Date(date),
		CurrentPrice:  in.PurchasePrice,
	}, nil
}

// Create stores a new asset priced at its purchase price and records that
// price as today's history sample.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Asset, error) {
	a, err := in.asset()
	if err != nil {
		return nil, err
	}
	now := s.now()
	a.LastUpdated = now

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return fmt.Errorf("create asset: %w", err)
		}
		if err := database.RecordPrice(tx, domain.NewPriceHistory(*a, now)); err != nil {
			return fmt.Errorf("seed price history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	log.Info().Uint("asset_id", a.ID).Str("ticker", a.Ticker).Msg("asset created")
	return a, nil
}

// apply validates in and copies the set fields onto a. It reports whether a
// field feeding the price history changed.
func (in UpdateInput) apply(a *domain.Asset) (bool, error) {
	priced := false
	if in.Name != nil {
		if err := validation.Required("name", *in.Name); err != nil {
			return false, err
		}
		a.Name = *in.Name
	}
	if in.Ticker != nil {
		if err := validation.Required("ticker", *in.Ticker); err != nil {
			return false, err
		}
		a.Ticker = *in.Ticker
	}
	if in.Type != nil {
		if err := validateType(*in.Type); err != nil {
			return false, err
		}
		a.Type = *in.Type
	}
	if in.Quantity != nil {
		if err := validation.NonNegative("quantity", *in.Quantity); err != nil {
			return false, err
		}
		a.Quantity = *in.Quantity
		priced = true
	}
	if in.PurchasePrice != nil {
		if err := validation.NonNegative("purchase_price", *in.PurchasePrice); err != nil {
			return false, err
		}
		a.PurchasePrice = *in.PurchasePrice
	}
	if in.PurchaseDate != nil {
		d, err := validation.ParseDate("purchase_date", *in.PurchaseDate)
		if err != nil {
			return false, err
		}
		a.PurchaseDate = datatypes.Date(d)
	}
	if in.CurrentPrice != nil {
		if err := validation.NonNegative("current_price", *in.CurrentPrice); err != nil {
			return false, err
		}
		a.CurrentPrice = *in.CurrentPrice
		priced = true
	}
	return priced, nil
}

// Update applies a partial update. A changed quantity or current price is
// also recorded as today's history sample.
func (s *Service) Update(ctx context.Context, id uint, in UpdateInput) (*domain.Asset, error) {
	var out *domain.Asset
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := s.find(tx, id)
		if err != nil {
			return err
		}
		priced, err := in.apply(a)
		if err != nil {
			return err
		}
		now := s.now()
		a.LastUpdated = now
		if err := tx.Save(a).Error; err != nil {
			return fmt.Errorf("update asset %d: %w", id, err)
		}
		if priced {
			if err := database.RecordPrice(tx, domain.NewPriceHistory(*a, now)); err != nil {
				return fmt.Errorf("record price history: %w", err)
			}
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return out, nil
}

// Delete removes an asset and its history, returning the removed asset.
func (s *Service) Delete(ctx context.Context, id uint) (*domain.Asset, error) {
	var out *domain.Asset
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := s.find(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", id).Delete(&domain.PriceHistory{}).Error; err != nil {
			return fmt.Errorf("delete price history: %w", err)
		}
		if err := tx.Delete(&domain.Asset{}, id).Error; err != nil {
			return fmt.Errorf("delete asset %d: %w", id, err)
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	log.Info().Uint("asset_id", id).Msg("asset deleted")
	return out, nil
}
