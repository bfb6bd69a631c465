package render

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/stockinsight/insight"
)

func day(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

func TestDescribeEveryKind(t *testing.T) {
	charts := map[insight.Kind]Chart{
		insight.DailyRange:   ChartLine,
		insight.ClosingTrend: ChartLine,
		insight.Volume:       ChartBar,
		insight.TopN:         ChartTable,
		insight.Correlation:  ChartHeatmap,
	}
	for _, k := range insight.Kinds {
		d := Describe(k)
		assert.Equal(t, k, d.Kind)
		assert.Equal(t, k.Label(), d.Label)
		assert.NotEmpty(t, d.Heading, k.String())
		assert.NotEmpty(t, d.Conclusion, k.String())
		assert.Equal(t, charts[k], d.Chart, k.String())
	}

	assert.Equal(t, "Price Range", Describe(insight.DailyRange).YLabel)
	assert.Equal(t, "Closing Price", Describe(insight.ClosingTrend).YLabel)
}

func TestDescribeUnknownKind(t *testing.T) {
	d := Describe(insight.Kind(42))
	assert.Equal(t, insight.Kind(42), d.Kind)
	assert.Empty(t, d.Heading)
}

func TestForTopN(t *testing.T) {
	d := For(insight.Selection{Year: 2024, Kind: insight.TopN})
	assert.Equal(t, "Top 5 Days by Closing Price in 2024", d.Heading)
	assert.Equal(t, "Top 5 Closing Prices", d.Title)

	d = For(insight.Selection{Year: 2019, Kind: insight.TopN, N: 3})
	assert.Equal(t, "Top 3 Days by Closing Price in 2019", d.Heading)

	d = For(insight.Selection{Year: 2019, Kind: insight.Volume})
	assert.Equal(t, "Trading Volume Over Time", d.Heading)
}

func TestMarkdownTopN(t *testing.T) {
	o := insight.Outcome{
		Selection: insight.Selection{Year: 2023, Kind: insight.TopN, N: 2},
		Records:   6,
		Result: insight.TopNTable{N: 2, Rows: []insight.ClosePoint{
			{Date: day("2023-01-07"), Close: decimal.NewFromInt(200)},
			{Date: day("2023-01-05"), Close: decimal.NewFromInt(180)},
		}},
	}

	md, err := Markdown(o)
	require.NoError(t, err)
	assert.Contains(t, md, "# Top 2 Days by Closing Price in 2023")
	assert.Contains(t, md, "Year **2023**, 6 trading days.")
	assert.Contains(t, md, "| # | Date | Close |")
	assert.Contains(t, md, "| 1 | 2023-01-07 | 200 |")
	assert.Contains(t, md, "| 2 | 2023-01-05 | 180 |")
	assert.Contains(t, md, "### Conclusion")
}

func TestMarkdownEmpty(t *testing.T) {
	o := insight.Outcome{
		Selection: insight.Selection{Year: 2001, Kind: insight.Volume},
		Empty:     true,
		Message:   insight.MsgNoData,
	}

	md, err := Markdown(o)
	require.NoError(t, err)
	assert.Contains(t, md, "> "+insight.MsgNoData)
	assert.Contains(t, md, "0 trading days")
	assert.NotContains(t, md, "Conclusion")
}

func TestMarkdownCachedSingleDay(t *testing.T) {
	o := insight.Outcome{
		Selection: insight.Selection{Year: 2022, Kind: insight.DailyRange},
		Records:   1,
		Cached:    true,
		Result: insight.DailyRangeSeries{Points: []insight.RangePoint{
			{Date: day("2022-03-04"), Range: decimal.RequireFromString("4.5")},
		}},
	}

	md, err := Markdown(o)
	require.NoError(t, err)
	assert.Contains(t, md, "1 trading day (cached).")
	assert.Contains(t, md, "| 2022-03-04 | 4.5 |")
}

func TestTableOfCorrelation(t *testing.T) {
	m := insight.CorrelationMatrix{
		Labels: [3]string{"high", "low", "volume"},
		Values: [3][3]float64{
			{1, 0.987, math.NaN()},
			{0.987, 1, -0.25},
			{math.NaN(), -0.25, 1},
		},
	}

	tbl, err := TableOf(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "high", "low", "volume"}, tbl.Header)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, []string{"high", "1.00", "0.99", "n/a"}, tbl.Rows[0])
	assert.Equal(t, []string{"volume", "n/a", "-0.25", "1.00"}, tbl.Rows[2])
}

func TestTableOfSeries(t *testing.T) {
	tbl, err := TableOf(insight.VolumeSeries{Points: []insight.VolumePoint{{Date: day("2020-01-02"), Volume: 1200}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Volume"}, tbl.Header)
	assert.Equal(t, [][]string{{"2020-01-02", "1200"}}, tbl.Rows)

	tbl, err = TableOf(insight.ClosingTrendSeries{})
	require.NoError(t, err)
	assert.Empty(t, tbl.Rows)
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("# Hello\n\nworld\n", "notty", 40)
	require.NoError(t, err)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "world")
}
