package quotes

import (
	"context"
	"fmt"

	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// Yahoo reads quotes from Yahoo Finance.
type Yahoo struct{}

func NewYahoo() *Yahoo {
	return &Yahoo{}
}

// Quote returns the regular market price, falling back to the pre- and
// post-market price when the market is closed.
func (y *Yahoo) Quote(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	t, err := ticker.New(symbol)
	if err != nil {
		return 0, fmt.Errorf("create ticker %s: %w", symbol, err)
	}
	defer t.Close()

	q, err := t.Quote()
	if err != nil {
		return 0, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if q == nil {
		return 0, fmt.Errorf("quote %s: %w", symbol, ErrNoPrice)
	}
	for _, p := range []float64{q.RegularMarketPrice, q.PreMarketPrice, q.PostMarketPrice} {
		if p > 0 {
			return p, nil
		}
	}
	return 0, fmt.Errorf("quote %s: %w", symbol, ErrNoPrice)
}
