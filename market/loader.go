package market

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Column names every source must carry. Matching is case-insensitive.
const (
	ColDate   = "Date"
	ColOpen   = "Open"
	ColHigh   = "High"
	ColLow    = "Low"
	ColClose  = "Close"
	ColVolume = "Volume"
)

var requiredColumns = []string{ColDate, ColOpen, ColHigh, ColLow, ColClose, ColVolume}

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string) (*PriceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f, path)
}

// Load reads a CSV price table from r. The first row must be a header
// naming at least Date, Open, High, Low, Close and Volume, in any order.
// Extra columns are ignored and blank lines are skipped.
//
// The returned table's Fingerprint is the SHA-256 of the bytes read.
func Load(r io.Reader, name string) (*PriceTable, error) {
	h := sha256.New()
	cr := csv.NewReader(io.TeeReader(r, h))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &MissingColumnError{Column: ColDate}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var recs []PriceRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if blank(row) {
			continue
		}

		line, _ := cr.FieldPos(0)
		rec, err := parseRow(row, idx, line)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	t := &PriceTable{
		Source:      name,
		Fingerprint: hex.EncodeToString(h.Sum(nil)),
		records:     recs,
	}
	log.Debug().Str("source", name).Int("records", len(recs)).Msg("parsed price table")
	return t, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}

	out := make(map[string]int, len(requiredColumns))
	for _, col := range requiredColumns {
		i, ok := idx[strings.ToLower(col)]
		if !ok {
			return nil, &MissingColumnError{Column: col}
		}
		out[col] = i
	}
	return out, nil
}

func parseRow(row []string, idx map[string]int, line int) (PriceRecord, error) {
	field := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec PriceRecord

	d, err := ParseDate(field(ColDate))
	if err != nil {
		return rec, &ParseError{Line: line, Column: ColDate, Value: field(ColDate), Err: err}
	}
	rec.Date = d
	rec.Year = d.Year()

	prices := []struct {
		col string
		dst *decimal.Decimal
	}{
		{ColOpen, &rec.Open},
		{ColHigh, &rec.High},
		{ColLow, &rec.Low},
		{ColClose, &rec.Close},
	}
	for _, p := range prices {
		v, err := decimal.NewFromString(field(p.col))
		if err != nil {
			return rec, &ParseError{Line: line, Column: p.col, Value: field(p.col), Err: err}
		}
		*p.dst = v
	}

	vol, err := parseVolume(field(ColVolume))
	if err != nil {
		return rec, &ParseError{Line: line, Column: ColVolume, Value: field(ColVolume), Err: err}
	}
	rec.Volume = vol

	return rec, nil
}

// ParseDate parses s with the first matching layout and returns the
// calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format")
}

// parseVolume accepts plain integers and integral decimals such as "1200.0",
// which spreadsheet exports tend to produce.
func parseVolume(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("volume is not a whole number")
	}
	return d.IntPart(), nil
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
