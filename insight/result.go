package insight

import (
	"time"

	"github.com/shopspring/decimal"
)

// Result is one computed insight. The concrete types are
// DailyRangeSeries, ClosingTrendSeries, VolumeSeries, TopNTable and
// CorrelationMatrix.
type Result interface {
	Kind() Kind
	// Len is the number of data points (rows for TopN, 3 for a matrix).
	Len() int

	sealed()
}

type RangePoint struct {
	Date  time.Time       `json:"date" msgpack:"date"`
	Range decimal.Decimal `json:"range" msgpack:"range"`
}

type ClosePoint struct {
	Date  time.Time       `json:"date" msgpack:"date"`
	Close decimal.Decimal `json:"close" msgpack:"close"`
}

type VolumePoint struct {
	Date   time.Time `json:"date" msgpack:"date"`
	Volume int64     `json:"volume" msgpack:"volume"`
}

// DailyRangeSeries holds High - Low per day, in input order.
type DailyRangeSeries struct {
	Points []RangePoint `msgpack:"points"`
}

// ClosingTrendSeries holds the close per day, in input order.
type ClosingTrendSeries struct {
	Points []ClosePoint `msgpack:"points"`
}

// VolumeSeries holds the traded volume per day, in input order.
type VolumeSeries struct {
	Points []VolumePoint `msgpack:"points"`
}

// TopNTable holds at most N rows sorted by close, highest first.
type TopNTable struct {
	N    int          `msgpack:"n"`
	Rows []ClosePoint `msgpack:"rows"`
}

// CorrelationMatrix is the Pearson correlation between the Labels columns.
// Values[i][j] == Values[j][i] and the diagonal is 1. An off-diagonal
// coefficient is NaN when either column has zero variance.
type CorrelationMatrix struct {
	Labels [3]string     `msgpack:"labels"`
	Values [3][3]float64 `msgpack:"values"`
	// Samples is the number of records the coefficients were computed from.
	Samples int `msgpack:"samples"`
}

func (DailyRangeSeries) Kind() Kind   { return DailyRange }
func (ClosingTrendSeries) Kind() Kind { return ClosingTrend }
func (VolumeSeries) Kind() Kind       { return Volume }
func (TopNTable) Kind() Kind          { return TopN }
func (CorrelationMatrix) Kind() Kind  { return Correlation }

func (r DailyRangeSeries) Len() int   { return len(r.Points) }
func (r ClosingTrendSeries) Len() int { return len(r.Points) }
func (r VolumeSeries) Len() int       { return len(r.Points) }
func (r TopNTable) Len() int          { return len(r.Rows) }
func (r CorrelationMatrix) Len() int  { return len(r.Labels) }

func (DailyRangeSeries) sealed()   {}
func (ClosingTrendSeries) sealed() {}
func (VolumeSeries) sealed()       {}
func (TopNTable) sealed()          {}
func (CorrelationMatrix) sealed()  {}

// At returns the coefficient between the named columns.
func (m CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, l := range m.Labels {
		if l == a {
			i = k
		}
		if l == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}
