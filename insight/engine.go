// Package insight filters a price table to one calendar year and computes
// the derived views a dashboard renders for it.
package insight

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/rustyeddy/stockinsight/market"
)

// DefaultTopN is used by Compute when n <= 0.
const DefaultTopN = 5

// Column labels of the correlation matrix, in row order.
const (
	ColHigh   = "high"
	ColLow    = "low"
	ColVolume = "volume"
)

// FilterByYear returns the records of t whose derived year equals year,
// in their original order. No match yields an empty table, not an error.
func FilterByYear(t *market.PriceTable, year int) *market.PriceTable {
	if t == nil {
		return market.NewPriceTable("", "", nil)
	}
	return t.Where(func(r market.PriceRecord) bool { return r.Year == year })
}

// Years returns the distinct years present in t, ascending.
func Years(t *market.PriceTable) []int {
	seen := make(map[int]bool)
	var out []int
	for i := 0; i < t.Len(); i++ {
		y := t.At(i).Year
		if !seen[y] {
			seen[y] = true
			out = append(out, y)
		}
	}
	sort.Ints(out)
	return out
}

// Compute derives the kind view from an already filtered table. n only
// applies to TopN. An empty table is a valid input for every kind except
// Correlation, which needs at least two records.
func Compute(t *market.PriceTable, kind Kind, n int) (Result, error) {
	recs := t.Records()

	switch kind {
	case DailyRange:
		return dailyRange(recs), nil
	case ClosingTrend:
		return closingTrend(recs), nil
	case Volume:
		return volume(recs), nil
	case TopN:
		return topN(recs, n), nil
	case Correlation:
		return correlation(recs)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

func dailyRange(recs []market.PriceRecord) DailyRangeSeries {
	out := DailyRangeSeries{Points: make([]RangePoint, 0, len(recs))}
	for _, r := range recs {
		out.Points = append(out.Points, RangePoint{Date: r.Date, Range: r.Range()})
	}
	return out
}

func closingTrend(recs []market.PriceRecord) ClosingTrendSeries {
	out := ClosingTrendSeries{Points: make([]ClosePoint, 0, len(recs))}
	for _, r := range recs {
		out.Points = append(out.Points, ClosePoint{Date: r.Date, Close: r.Close})
	}
	return out
}

func volume(recs []market.PriceRecord) VolumeSeries {
	out := VolumeSeries{Points: make([]VolumePoint, 0, len(recs))}
	for _, r := range recs {
		out.Points = append(out.Points, VolumePoint{Date: r.Date, Volume: r.Volume})
	}
	return out
}

// topN sorts a copy of recs by close, highest first. Equal closes keep
// their input order.
func topN(recs []market.PriceRecord, n int) TopNTable {
	if n <= 0 {
		n = DefaultTopN
	}

	sorted := make([]market.PriceRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Close.GreaterThan(sorted[j].Close)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	out := TopNTable{N: n, Rows: make([]ClosePoint, 0, len(sorted))}
	for _, r := range sorted {
		out.Rows = append(out.Rows, ClosePoint{Date: r.Date, Close: r.Close})
	}
	return out
}

func correlation(recs []market.PriceRecord) (CorrelationMatrix, error) {
	if len(recs) < 2 {
		return CorrelationMatrix{}, &InsufficientDataError{Kind: Correlation, Have: len(recs), Need: 2}
	}

	cols := [3][]float64{
		make([]float64, len(recs)),
		make([]float64, len(recs)),
		make([]float64, len(recs)),
	}
	for i, r := range recs {
		cols[0][i] = r.High.InexactFloat64()
		cols[1][i] = r.Low.InexactFloat64()
		cols[2][i] = float64(r.Volume)
	}

	m := CorrelationMatrix{
		Labels:  [3]string{ColHigh, ColLow, ColVolume},
		Samples: len(recs),
	}
	for i := 0; i < 3; i++ {
		m.Values[i][i] = 1
		for j := i + 1; j < 3; j++ {
			c := pearson(cols[i], cols[j])
			m.Values[i][j] = c
			m.Values[j][i] = c
		}
	}
	return m, nil
}

// pearson returns NaN when either series is constant.
func pearson(x, y []float64) float64 {
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	c := stat.Correlation(x, y, nil)
	// Rounding can push a perfect correlation a hair past ±1.
	return math.Max(-1, math.Min(1, c))
}
