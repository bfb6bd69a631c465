package market

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func rec(day string, high, low string) PriceRecord {
	d, _ := time.Parse("2006-01-02", day)
	return PriceRecord{
		Date: d,
		High: decimal.RequireFromString(high),
		Low:  decimal.RequireFromString(low),
	}
}

func TestNewPriceTableDerivesYear(t *testing.T) {
	t.Parallel()

	tbl := NewPriceTable("mem", "", []PriceRecord{rec("2019-12-31", "2", "1"), rec("2020-01-01", "2", "1")})
	assert.Equal(t, 2019, tbl.At(0).Year)
	assert.Equal(t, 2020, tbl.At(1).Year)
}

func TestPriceTableIsolation(t *testing.T) {
	t.Parallel()

	src := []PriceRecord{rec("2020-01-01", "2", "1")}
	tbl := NewPriceTable("mem", "", src)

	src[0].Volume = 99
	assert.Equal(t, int64(0), tbl.At(0).Volume)

	out := tbl.Records()
	out[0].Volume = 42
	assert.Equal(t, int64(0), tbl.At(0).Volume)
}

func TestPriceTableWhere(t *testing.T) {
	t.Parallel()

	tbl := NewPriceTable("mem", "fp", []PriceRecord{
		rec("2020-01-01", "2", "1"),
		rec("2021-01-01", "2", "1"),
		rec("2020-06-01", "2", "1"),
	})

	got := tbl.Where(func(r PriceRecord) bool { return r.Year == 2020 })
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, "fp", got.Fingerprint)
	assert.True(t, got.At(0).Date.Before(got.At(1).Date))
	assert.Equal(t, 3, tbl.Len())
}

func TestRange(t *testing.T) {
	t.Parallel()

	r := rec("2020-01-01", "10.3", "10.1")
	assert.Equal(t, "0.2", r.Range().String())
}

func TestNilTable(t *testing.T) {
	t.Parallel()

	var tbl *PriceTable
	assert.Equal(t, 0, tbl.Len())
	assert.True(t, tbl.Empty())
	assert.Nil(t, tbl.Records())
}
