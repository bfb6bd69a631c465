package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/rustyeddy/stockinsight/insight"
)

const dateLayout = "2006-01-02"

// WriteCSV writes r as a CSV table with a header row.
func WriteCSV(w io.Writer, r insight.Result) error {
	cw := csv.NewWriter(w)

	switch v := r.(type) {
	case insight.DailyRangeSeries:
		cw.Write([]string{"date", "range"})
		for _, p := range v.Points {
			cw.Write([]string{p.Date.Format(dateLayout), p.Range.String()})
		}
	case insight.ClosingTrendSeries:
		cw.Write([]string{"date", "close"})
		for _, p := range v.Points {
			cw.Write([]string{p.Date.Format(dateLayout), p.Close.String()})
		}
	case insight.VolumeSeries:
		cw.Write([]string{"date", "volume"})
		for _, p := range v.Points {
			cw.Write([]string{p.Date.Format(dateLayout), strconv.FormatInt(p.Volume, 10)})
		}
	case insight.TopNTable:
		cw.Write([]string{"rank", "date", "close"})
		for i, p := range v.Rows {
			cw.Write([]string{strconv.Itoa(i + 1), p.Date.Format(dateLayout), p.Close.String()})
		}
	case insight.CorrelationMatrix:
		cw.Write(append([]string{""}, v.Labels[:]...))
		for i, l := range v.Labels {
			row := []string{l}
			for j := range v.Labels {
				row = append(row, f(v.Values[i][j]))
			}
			cw.Write(row)
		}
	default:
		return fmt.Errorf("%w: %T", insight.ErrUnknownKind, r)
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes r to path, truncating any existing file.
func ExportCSV(path string, r insight.Result) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(fh, r); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// f formats a coefficient; NaN is written as an empty cell.
func f(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}
