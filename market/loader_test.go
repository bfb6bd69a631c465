package market

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Date,Open,High,Low,Close,Adj Close,Volume
2023-01-02,550.00,556.40,548.10,553.25,540.10,12003400
2023-01-03,553.00,560.00,551.50,558.90,545.62,9876500

2024-01-01,640.10,645.00,636.00,642.35,642.35,15000000
`

func TestLoad(t *testing.T) {
	t.Parallel()

	tbl, err := Load(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)

	assert.Equal(t, "sample.csv", tbl.Source)
	assert.Len(t, tbl.Fingerprint, 64)
	require.Equal(t, 3, tbl.Len())

	first := tbl.At(0)
	assert.True(t, first.Date.Equal(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2023, first.Year)
	assert.True(t, first.Open.Equal(decimal.RequireFromString("550")))
	assert.True(t, first.High.Equal(decimal.RequireFromString("556.40")))
	assert.True(t, first.Low.Equal(decimal.RequireFromString("548.10")))
	assert.True(t, first.Close.Equal(decimal.RequireFromString("553.25")))
	assert.Equal(t, int64(12003400), first.Volume)

	assert.Equal(t, 2024, tbl.At(2).Year)
}

func TestLoadFingerprintStable(t *testing.T) {
	t.Parallel()

	a, err := Load(strings.NewReader(sampleCSV), "a")
	require.NoError(t, err)
	b, err := Load(strings.NewReader(sampleCSV), "b")
	require.NoError(t, err)
	c, err := Load(strings.NewReader(sampleCSV+"2024-01-02,1,2,1,1,1,5\n"), "c")
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.NotEqual(t, a.Fingerprint, c.Fingerprint)
}

func TestLoadColumnOrderAndCase(t *testing.T) {
	t.Parallel()

	in := "volume, close ,LOW,high,open,date\n100,10.5,9,11,10,2022-06-30\n"
	tbl, err := Load(strings.NewReader(in), "shuffled")
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())

	r := tbl.At(0)
	assert.Equal(t, int64(100), r.Volume)
	assert.True(t, r.Close.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, 2022, r.Year)
}

func TestLoadMissingColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		column string
	}{
		{"no volume", "Date,Open,High,Low,Close\n2023-01-01,1,1,1,1\n", ColVolume},
		{"no date", "Open,High,Low,Close,Volume\n1,1,1,1,1\n", ColDate},
		{"empty input", "", ColDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.in), "x")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingColumn)

			var mce *MissingColumnError
			require.True(t, errors.As(err, &mce))
			assert.Equal(t, tt.column, mce.Column)
		})
	}
}

func TestLoadParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		row    string
		column string
		line   int
	}{
		{"bad date", "not-a-date,1,2,1,1,10", ColDate, 3},
		{"empty date", ",1,2,1,1,10", ColDate, 3},
		{"bad high", "2023-01-04,1,abc,1,1,10", ColHigh, 3},
		{"fractional volume", "2023-01-04,1,2,1,1,10.5", ColVolume, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := "Date,Open,High,Low,Close,Volume\n2023-01-03,1,2,1,1,10\n" + tt.row + "\n"
			_, err := Load(strings.NewReader(in), "x")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.column, pe.Column)
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestLoadIntegralVolume(t *testing.T) {
	t.Parallel()

	in := "Date,Open,High,Low,Close,Volume\n2023-01-03,1,2,1,1,1200.0\n"
	tbl, err := Load(strings.NewReader(in), "x")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), tbl.At(0).Volume)
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{
		"2021-03-14",
		"2021/03/14",
		"14-03-2021",
		"03/14/2021",
		"2021-03-14 09:15:00",
		"2021-03-14T09:15:00+05:30",
	} {
		t.Run(s, func(t *testing.T) {
			got, err := ParseDate(s)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %v", got)
		})
	}

	_, err := ParseDate("14.03.2021")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	tbl, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, tbl.Source)
	assert.Equal(t, 3, tbl.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
