package quotes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoPrice is returned when a provider has no usable price for a symbol.
var ErrNoPrice = errors.New("no price available")

// Provider returns the latest unit price for a market symbol.
type Provider interface {
	Quote(ctx context.Context, symbol string) (float64, error)
}

// Symbol maps a stored ticker to the provider symbol. Tickers that already
// carry an exchange suffix are used as they are.
func Symbol(ticker, suffix string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if suffix == "" || strings.Contains(t, ".") {
		return t
	}
	return t + suffix
}

// New builds the provider named by kind ("yahoo" or "fixture").
func New(kind string, fixture map[string]float64) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "yahoo":
		return NewYahoo(), nil
	case "fixture":
		return NewFixture(fixture), nil
	default:
		return nil, fmt.Errorf("unknown quote provider %q", kind)
	}
}

// ParseFixture parses "SYM=price,SYM2=price" into a price table.
func ParseFixture(s string) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sym, price, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("fixture entry %q: expected SYMBOL=PRICE", part)
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
		if err != nil || p < 0 {
			return nil, fmt.Errorf("fixture entry %q: invalid price", part)
		}
		out[strings.ToUpper(strings.TrimSpace(sym))] = p
	}
	return out, nil
}
