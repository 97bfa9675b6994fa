package portfolio

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ErrInvalidRange is returned when a range starts after it ends.
var ErrInvalidRange = errors.New("start date must not be after end date")

// PricePoint is one historical sample for an asset: the unit price on a date
// and the quantity held on that date.
type PricePoint struct {
	Date     time.Time
	Price    float64
	Quantity float64
}

// AssetHistory is the input history of one holding.
type AssetHistory struct {
	ID     uint
	Name   string
	Ticker string
	Type   string
	Points []PricePoint
}

// Point is one sample of a performance series. ChangePercent is relative to
// the first point of the series it belongs to.
type Point struct {
	Date          time.Time `json:"date"`
	Value         float64   `json:"value"`
	ChangePercent float64   `json:"change_percent"`
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date          string  `json:"date"`
		Value         float64 `json:"value"`
		ChangePercent float64 `json:"change_percent"`
	}{p.Date.UTC().Format(DateLayout), p.Value, p.ChangePercent})
}

// Series is a date-ordered sequence of points.
type Series []Point

// AssetSeries is the performance series of one holding.
type AssetSeries struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Ticker      string `json:"ticker"`
	Type        string `json:"type"`
	Performance Series `json:"performance"`
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CheckRange reports ErrInvalidRange when start falls after end.
func CheckRange(start, end time.Time) error {
	if Day(start).After(Day(end)) {
		return ErrInvalidRange
	}
	return nil
}

// ComputeSeries derives per-asset and portfolio performance over the
// inclusive range [start, end]. Every asset's dates are expected to share one
// calendar axis; dates present for only some assets are summed as given.
// An asset without samples in range yields an empty series.
func ComputeSeries(history []AssetHistory, start, end time.Time) (Series, []AssetSeries, error) {
	if err := CheckRange(start, end); err != nil {
		return nil, nil, err
	}
	from, to := Day(start), Day(end)

	totals := make(map[time.Time]decimal.Decimal)
	assets := make([]AssetSeries, 0, len(history))
	for _, h := range history {
		points := inRange(h.Points, from, to)
		s := AssetSeries{
			ID:          h.ID,
			Name:        h.Name,
			Ticker:      h.Ticker,
			Type:        h.Type,
			Performance: make(Series, 0, len(points)),
		}
		var base decimal.Decimal
		for i, p := range points {
			v := decimal.NewFromFloat(p.Quantity).Mul(decimal.NewFromFloat(p.Price))
			if i == 0 {
				base = v
			}
			day := Day(p.Date)
			s.Performance = append(s.Performance, newPoint(day, v, base))
			totals[day] = totals[day].Add(v)
		}
		assets = append(assets, s)
	}

	days := make([]time.Time, 0, len(totals))
	for d := range totals {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	total := make(Series, 0, len(days))
	for _, d := range days {
		total = append(total, newPoint(d, totals[d], totals[days[0]]))
	}
	return total, assets, nil
}

// FilterSeries keeps the series whose id is in ids, in their input order.
func FilterSeries(series []AssetSeries, ids []uint) []AssetSeries {
	keep := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	out := make([]AssetSeries, 0, len(series))
	for _, s := range series {
		if _, ok := keep[s.ID]; ok {
			out = append(out, s)
		}
	}
	return out
}

func newPoint(day time.Time, v, base decimal.Decimal) Point {
	return Point{
		Date:          day,
		Value:         v.InexactFloat64(),
		ChangePercent: percentChange(v, base).InexactFloat64(),
	}
}

func inRange(points []PricePoint, from, to time.Time) []PricePoint {
	out := make([]PricePoint, 0, len(points))
	for _, p := range points {
		d := Day(p.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
