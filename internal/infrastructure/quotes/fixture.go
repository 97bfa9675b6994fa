package quotes

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Fixture serves prices from an in-memory table. It is meant for demos and
// tests and must be selected explicitly.
type Fixture struct {
	mu     sync.RWMutex
	prices map[string]float64
}

func NewFixture(prices map[string]float64) *Fixture {
	f := &Fixture{prices: make(map[string]float64, len(prices))}
	for sym, p := range prices {
		f.prices[strings.ToUpper(sym)] = p
	}
	return f
}

// Set replaces the price of symbol.
func (f *Fixture) Set(symbol string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[strings.ToUpper(symbol)] = price
}

func (f *Fixture) Quote(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.prices[strings.ToUpper(symbol)]
	if !ok || p <= 0 {
		return 0, fmt.Errorf("quote %s: %w", symbol, ErrNoPrice)
	}
	return p, nil
}
