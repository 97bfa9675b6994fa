package portfolio

import (
	"gonum.org/v1/gonum/stat"
)

// SeriesStats summarises a performance series over its whole range.
type SeriesStats struct {
	StartValue    float64 `json:"start_value"`
	EndValue      float64 `json:"end_value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	// Volatility is the sample standard deviation of point-to-point returns, in percent.
	Volatility  float64 `json:"volatility"`
	MaxDrawdown float64 `json:"max_drawdown"`
}

// Stats computes SeriesStats. An empty series yields the zero value.
func Stats(s Series) SeriesStats {
	if len(s) == 0 {
		return SeriesStats{}
	}
	first, last := s[0], s[len(s)-1]
	out := SeriesStats{
		StartValue:    first.Value,
		EndValue:      last.Value,
		Change:        last.Value - first.Value,
		ChangePercent: last.ChangePercent,
	}

	returns := make([]float64, 0, len(s))
	peak := first.Value
	for i := 1; i < len(s); i++ {
		prev, cur := s[i-1].Value, s[i].Value
		if prev > 0 {
			returns = append(returns, (cur-prev)/prev*100)
		}
		if cur > peak {
			peak = cur
		}
		if peak > 0 {
			if dd := (peak - cur) / peak * 100; dd > out.MaxDrawdown {
				out.MaxDrawdown = dd
			}
		}
	}
	if len(returns) > 1 {
		out.Volatility = stat.StdDev(returns, nil)
	}
	return out
}
