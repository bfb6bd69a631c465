package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"

	"github.com/rustyeddy/stockinsight/insight"
)

const dateLayout = "2006-01-02"

// Table is a result flattened to strings, ready for a markdown table.
type Table struct {
	Header []string
	Align  []string
	Rows   [][]string
}

// outcomeMarkdownTemplate is the template for rendering an insight report.
const outcomeMarkdownTemplate = `# {{ .Desc.Heading }}

Year **{{ .Year }}**, {{ .Records }} trading day{{ if ne .Records 1 }}s{{ end }}{{ if .Cached }} (cached){{ end }}.
{{- if .Message }}

> {{ .Message }}
{{- end }}
{{- if .Table }}

## {{ .Desc.Title }}

| {{ join .Table.Header " | " }} |
|{{ range .Table.Align }}{{ . }}|{{ end }}
{{- range .Table.Rows }}
| {{ join . " | " }} |
{{- end }}

### Conclusion

{{ .Desc.Conclusion }}
{{- end }}
`

var outcomeTmpl = template.Must(template.New("outcome").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(outcomeMarkdownTemplate))

type outcomeView struct {
	Desc    Description
	Year    int
	Records int
	Cached  bool
	Message string
	Table   *Table
}

// Markdown renders o as a markdown report. Empty outcomes render the
// heading and the message only.
func Markdown(o insight.Outcome) (string, error) {
	v := outcomeView{
		Desc:    For(o.Selection),
		Year:    o.Selection.Year,
		Records: o.Records,
		Cached:  o.Cached,
		Message: o.Message,
	}
	if !o.Empty && o.Result != nil {
		t, err := TableOf(o.Result)
		if err != nil {
			return "", err
		}
		v.Table = &t
	}

	var b strings.Builder
	if err := outcomeTmpl.Execute(&b, v); err != nil {
		return "", fmt.Errorf("render %s: %w", o.Selection.Kind, err)
	}
	return b.String(), nil
}

// TableOf flattens r. Correlation coefficients are shown with two
// decimals and undefined ones as "n/a".
func TableOf(r insight.Result) (Table, error) {
	switch v := r.(type) {
	case insight.DailyRangeSeries:
		t := Table{Header: []string{"Date", "Price Range"}, Align: []string{":---", "---:"}}
		for _, p := range v.Points {
			t.Rows = append(t.Rows, []string{p.Date.Format(dateLayout), p.Range.String()})
		}
		return t, nil
	case insight.ClosingTrendSeries:
		t := Table{Header: []string{"Date", "Closing Price"}, Align: []string{":---", "---:"}}
		for _, p := range v.Points {
			t.Rows = append(t.Rows, []string{p.Date.Format(dateLayout), p.Close.String()})
		}
		return t, nil
	case insight.VolumeSeries:
		t := Table{Header: []string{"Date", "Volume"}, Align: []string{":---", "---:"}}
		for _, p := range v.Points {
			t.Rows = append(t.Rows, []string{p.Date.Format(dateLayout), strconv.FormatInt(p.Volume, 10)})
		}
		return t, nil
	case insight.TopNTable:
		t := Table{Header: []string{"#", "Date", "Close"}, Align: []string{"---:", ":---", "---:"}}
		for i, p := range v.Rows {
			t.Rows = append(t.Rows, []string{strconv.Itoa(i + 1), p.Date.Format(dateLayout), p.Close.String()})
		}
		return t, nil
	case insight.CorrelationMatrix:
		t := Table{
			Header: append([]string{""}, v.Labels[:]...),
			Align:  []string{":---", "---:", "---:", "---:"},
		}
		for i, l := range v.Labels {
			row := []string{l}
			for j := range v.Labels {
				row = append(row, coef(v.Values[i][j]))
			}
			t.Rows = append(t.Rows, row)
		}
		return t, nil
	}
	return Table{}, fmt.Errorf("%w: %T", insight.ErrUnknownKind, r)
}

func coef(x float64) string {
	if math.IsNaN(x) {
		return "n/a"
	}
	return strconv.FormatFloat(x, 'f', 2, 64)
}
