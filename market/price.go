package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRecord is a single daily OHLCV row of the source table.
type PriceRecord struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64

	// Year is derived from Date once, at load time.
	Year int
}

// Range returns High - Low.
func (r PriceRecord) Range() decimal.Decimal {
	return r.High.Sub(r.Low)
}

// PriceTable is the ordered, read-only set of records loaded from a source.
// Nothing mutates a table after it is built; filters produce new tables.
type PriceTable struct {
	Source      string
	Fingerprint string

	records []PriceRecord
}

// NewPriceTable builds a table over a private copy of recs. Year is derived
// for every record so callers constructing tables by hand get the same
// shape Load produces.
func NewPriceTable(source, fingerprint string, recs []PriceRecord) *PriceTable {
	cp := make([]PriceRecord, len(recs))
	copy(cp, recs)
	for i := range cp {
		cp[i].Year = cp[i].Date.Year()
	}
	return &PriceTable{Source: source, Fingerprint: fingerprint, records: cp}
}

// Len returns the number of records.
func (t *PriceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Empty reports whether the table has no records.
func (t *PriceTable) Empty() bool {
	return t.Len() == 0
}

// At returns the i'th record.
func (t *PriceTable) At(i int) PriceRecord {
	return t.records[i]
}

// Records returns a copy of the records in source order.
func (t *PriceTable) Records() []PriceRecord {
	if t == nil {
		return nil
	}
	out := make([]PriceRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Where returns a new table holding the records for which keep returns
// true, in their original order.
func (t *PriceTable) Where(keep func(PriceRecord) bool) *PriceTable {
	out := &PriceTable{Source: t.Source, Fingerprint: t.Fingerprint}
	for _, r := range t.records {
		if keep(r) {
			out.records = append(out.records, r)
		}
	}
	return out
}
