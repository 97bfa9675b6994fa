package prices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-manager/internal/domain"
	"finance-manager/internal/infrastructure/database"
	"finance-manager/internal/infrastructure/quotes"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrNoAssetIDs is returned when an update names no assets.
var ErrNoAssetIDs = errors.New("asset_ids must contain at least one id")

// Invalidator drops cached results derived from prices.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service refreshes current prices from a quote provider.
type Service struct {
	DB           *gorm.DB
	Provider     quotes.Provider
	Cache        Invalidator
	SymbolSuffix string
	Now          func() time.Time
}

// Failure describes an asset that could not be refreshed.
type Failure struct {
	AssetID uint   `json:"asset_id"`
	Ticker  string `json:"ticker,omitempty"`
	Error   string `json:"error"`
}

// Result is the outcome of a refresh batch.
type Result struct {
	UpdatedAssets []domain.Asset `json:"updated_assets"`
	Failed        []Failure      `json:"failed"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Update refreshes the given assets in request order, once per id. A failing
// asset is reported in Result.Failed and does not stop the batch.
func (s *Service) Update(ctx context.Context, ids []uint) (*Result, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, ErrNoAssetIDs
	}

	now := s.now()
	res := &Result{
		UpdatedAssets: []domain.Asset{},
		Failed:        []Failure{},
		UpdatedAt:     now,
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, err := s.refresh(ctx, id, now)
		if err != nil {
			f := Failure{AssetID: id, Error: err.Error()}
			if a != nil {
				f.Ticker = a.Ticker
			}
			log.Warn().Err(err).Uint("asset_id", id).Str("ticker", f.Ticker).Msg("price refresh failed")
			res.Failed = append(res.Failed, f)
			continue
		}
		res.UpdatedAssets = append(res.UpdatedAssets, *a)
	}

	if len(res.UpdatedAssets) > 0 && s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("performance cache invalidation failed")
		}
	}
	log.Info().Int("updated", len(res.UpdatedAssets)).Int("failed", len(res.Failed)).Msg("price refresh finished")
	return res, nil
}

// UpdateAll refreshes every stored asset. With no assets it does nothing.
func (s *Service) UpdateAll(ctx context.Context) (*Result, error) {
	var ids []uint
	if err := s.DB.WithContext(ctx).Model(&domain.Asset{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list asset ids: %w", err)
	}
	if len(ids) == 0 {
		return &Result{UpdatedAssets: []domain.Asset{}, Failed: []Failure{}, UpdatedAt: s.now()}, nil
	}
	return s.Update(ctx, ids)
}

// refresh quotes one asset and stores the price with today's history row.
// The asset is returned alongside an error when it was found.
func (s *Service) refresh(ctx context.Context, id uint, now time.Time) (*domain.Asset, error) {
	var a domain.Asset
	if err := s.DB.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("asset not found")
		}
		return nil, fmt.Errorf("load asset: %w", err)
	}

	price, err := s.Provider.Quote(ctx, quotes.Symbol(a.Ticker, s.SymbolSuffix))
	if err != nil {
		return &a, err
	}

	a.CurrentPrice = price
	a.LastUpdated = now
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&a).Error; err != nil {
			return fmt.Errorf("save asset: %w", err)
		}
		return database.RecordPrice(tx, domain.NewPriceHistory(a, now))
	})
	if err != nil {
		return &a, err
	}
	return &a, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
