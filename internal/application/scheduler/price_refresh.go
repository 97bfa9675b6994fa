package scheduler

import (
	"context"
	"sync"
	"time"

	"finance-manager/internal/application/prices"

	"github.com/rs/zerolog"
)

// Refresher refreshes the price of every asset.
type Refresher interface {
	UpdateAll(ctx context.Context) (*prices.Result, error)
}

// PriceRefreshJob refreshes all asset prices. A run that starts while the
// previous one is still going is skipped.
type PriceRefreshJob struct {
	log       zerolog.Logger
	refresher Refresher
	timeout   time.Duration
	mu        sync.Mutex
}

// DefaultRefreshTimeout bounds a single refresh run.
const DefaultRefreshTimeout = 5 * time.Minute

func NewPriceRefreshJob(log zerolog.Logger, refresher Refresher, timeout time.Duration) *PriceRefreshJob {
	if timeout <= 0 {
		timeout = DefaultRefreshTimeout
	}
	return &PriceRefreshJob{
		log:       log.With().Str("job", "price_refresh").Logger(),
		refresher: refresher,
		timeout:   timeout,
	}
}

// Name returns the job name
func (j *PriceRefreshJob) Name() string {
	return "price_refresh"
}

// Run executes the refresh
func (j *PriceRefreshJob) Run() error {
	if !j.mu.TryLock() {
		j.log.Warn().Msg("Price refresh already running")
		return nil
	}
	defer j.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	res, err := j.refresher.UpdateAll(ctx)
	if err != nil {
		return err
	}
	j.log.Info().
		Int("updated", len(res.UpdatedAssets)).
		Int("failed", len(res.Failed)).
		Dur("duration", time.Since(start)).
		Msg("Price refresh completed")
	return nil
}
