package performance

import (
	"context"
	"fmt"
	"time"

	"finance-manager/internal/domain"
	"finance-manager/internal/infrastructure/cache"
	"finance-manager/internal/portfolio"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service builds performance series from the stored price history.
type Service struct {
	DB    *gorm.DB
	Cache *cache.Performance
}

// Query selects an inclusive date range and, optionally, the assets whose
// series are returned. The portfolio total always covers every asset.
type Query struct {
	Start    time.Time
	End      time.Time
	AssetIDs []uint
}

// AssetStats is the summary of one asset series.
type AssetStats struct {
	AssetID uint `json:"asset_id"`
	portfolio.SeriesStats
}

// Stats summarises the returned series.
type Stats struct {
	Total  portfolio.SeriesStats `json:"total"`
	Assets []AssetStats          `json:"assets"`
}

// Result is the answer to a performance query.
type Result struct {
	TotalPerformance  portfolio.Series        `json:"total_performance"`
	AssetsPerformance []portfolio.AssetSeries `json:"assets_performance"`
	Stats             Stats                   `json:"stats"`
}

// computed is the cached, unfiltered outcome of ComputeSeries.
type computed struct {
	Total  portfolio.Series
	Assets []portfolio.AssetSeries
}

// Get computes the performance series for q.
func (s *Service) Get(ctx context.Context, q Query) (*Result, error) {
	if err := portfolio.CheckRange(q.Start, q.End); err != nil {
		return nil, err
	}
	start, end := portfolio.Day(q.Start), portfolio.Day(q.End)

	c, err := s.series(ctx, start, end)
	if err != nil {
		return nil, err
	}

	assets := c.Assets
	if len(q.AssetIDs) > 0 {
		assets = portfolio.FilterSeries(assets, q.AssetIDs)
	}
	res := &Result{
		TotalPerformance:  c.Total,
		AssetsPerformance: assets,
		Stats: Stats{
			Total:  portfolio.Stats(c.Total),
			Assets: make([]AssetStats, 0, len(assets)),
		},
	}
	for _, a := range assets {
		res.Stats.Assets = append(res.Stats.Assets, AssetStats{AssetID: a.ID, SeriesStats: portfolio.Stats(a.Performance)})
	}
	return res, nil
}

// series returns the unfiltered series for the range, from cache when present.
func (s *Service) series(ctx context.Context, start, end time.Time) (*computed, error) {
	key, err := s.Cache.Key(ctx, start.Format(portfolio.DateLayout), end.Format(portfolio.DateLayout))
	if err != nil {
		log.Warn().Err(err).Msg("performance cache unavailable")
		key = ""
	}

	var c computed
	if ok, err := s.Cache.Get(ctx, key, &c); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("performance cache read failed")
	} else if ok {
		c.normalize()
		return &c, nil
	}

	history, err := s.load(ctx, start, end)
	if err != nil {
		return nil, err
	}
	total, assets, err := portfolio.ComputeSeries(history, start, end)
	if err != nil {
		return nil, err
	}
	c = computed{Total: total, Assets: assets}

	if err := s.Cache.Set(ctx, key, c); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("performance cache write failed")
	}
	return &c, nil
}

// load reads every asset with its history rows inside [start, end].
func (s *Service) load(ctx context.Context, start, end time.Time) ([]portfolio.AssetHistory, error) {
	var assets []domain.Asset
	err := s.DB.WithContext(ctx).
		Preload("PriceHistory", func(db *gorm.DB) *gorm.DB {
			return db.Where("date >= ? AND date <= ?", datatypes.Date(start), datatypes.Date(end)).Order("date ASC")
		}).
		Order("id ASC").
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("load price history: %w", err)
	}

	out := make([]portfolio.AssetHistory, len(assets))
	for i, a := range assets {
		h := portfolio.AssetHistory{
			ID:     a.ID,
			Name:   a.Name,
			Ticker: a.Ticker,
			Type:   string(a.Type),
			Points: make([]portfolio.PricePoint, len(a.PriceHistory)),
		}
		for j, row := range a.PriceHistory {
			h.Points[j] = row.PricePoint()
		}
		out[i] = h
	}
	return out, nil
}

// normalize restores invariants lost in the cache round trip: dates in UTC
// and non-nil slices.
func (c *computed) normalize() {
	if c.Total == nil {
		c.Total = portfolio.Series{}
	}
	for i := range c.Total {
		c.Total[i].Date = c.Total[i].Date.UTC()
	}
	if c.Assets == nil {
		c.Assets = []portfolio.AssetSeries{}
	}
	for i := range c.Assets {
		if c.Assets[i].Performance == nil {
			c.Assets[i].Performance = portfolio.Series{}
		}
		for j := range c.Assets[i].Performance {
			p := &c.Assets[i].Performance[j]
			p.Date = p.Date.UTC()
		}
	}
}
