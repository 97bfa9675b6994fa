package portfolio

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a single owned position as seen by the aggregator.
type Holding struct {
	ID            uint
	Name          string
	Ticker        string
	Type          string
	Quantity      float64
	CurrentPrice  float64
	PurchasePrice float64
	PurchaseDate  time.Time
}

// Summary is the aggregate over a set of holdings at a point in time.
type Summary struct {
	TotalValue       float64            `json:"total_value"`
	TotalCost        float64            `json:"total_cost"`
	TotalGainLoss    float64            `json:"total_gain_loss"`
	TotalPerformance float64            `json:"total_performance"`
	AssetAllocation  map[string]float64 `json:"asset_allocation"`
}

var hundred = decimal.NewFromInt(100)

func (h Holding) value() decimal.Decimal {
	return decimal.NewFromFloat(h.Quantity).Mul(decimal.NewFromFloat(h.CurrentPrice))
}

func (h Holding) cost() decimal.Decimal {
	return decimal.NewFromFloat(h.Quantity).Mul(decimal.NewFromFloat(h.PurchasePrice))
}

// CurrentValue is quantity × current price.
func (h Holding) CurrentValue() float64 { return h.value().InexactFloat64() }

// CostBasis is quantity × purchase price.
func (h Holding) CostBasis() float64 { return h.cost().InexactFloat64() }

// GainLoss is current value minus cost basis.
func (h Holding) GainLoss() float64 { return h.value().Sub(h.cost()).InexactFloat64() }

// PerformancePercent is the return against cost basis, 0 when the basis is 0.
func (h Holding) PerformancePercent() float64 {
	return percentChange(h.value(), h.cost()).InexactFloat64()
}

// Summarize computes totals and the per-type allocation. It never fails:
// an empty input or a zero total cost yields a zero performance.
func Summarize(holdings []Holding) Summary {
	var totalValue, totalCost decimal.Decimal
	allocation := make(map[string]decimal.Decimal)
	for _, h := range holdings {
		v := h.value()
		totalValue = totalValue.Add(v)
		totalCost = totalCost.Add(h.cost())
		allocation[h.Type] = allocation[h.Type].Add(v)
	}

	out := Summary{
		TotalValue:       totalValue.InexactFloat64(),
		TotalCost:        totalCost.InexactFloat64(),
		TotalGainLoss:    totalValue.Sub(totalCost).InexactFloat64(),
		TotalPerformance: percentChange(totalValue, totalCost).InexactFloat64(),
		AssetAllocation:  make(map[string]float64, len(allocation)),
	}
	for t, v := range allocation {
		out.AssetAllocation[t] = v.InexactFloat64()
	}
	return out
}

// percentChange returns (value/base - 1) * 100, or 0 for a non-positive base.
func percentChange(value, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return value.Div(base).Sub(decimal.NewFromInt(1)).Mul(hundred)
}
