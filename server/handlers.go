package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stockinsight/insight"
	"github.com/rustyeddy/stockinsight/render"
)

const dateLayout = "2006-01-02"

type datasetResponse struct {
	Source      string `json:"source"`
	Fingerprint string `json:"fingerprint"`
	Records     int    `json:"records"`
	Years       []int  `json:"years"`
	MinYear     int    `json:"min_year"`
	MaxYear     int    `json:"max_year"`
	DefaultYear int    `json:"default_year"`
}

type insightResponse struct {
	Kind       insight.Kind `json:"kind"`
	Year       int          `json:"year"`
	N          int          `json:"n,omitempty"`
	Chart      render.Chart `json:"chart"`
	Heading    string       `json:"heading"`
	Title      string       `json:"title"`
	XLabel     string       `json:"x_label,omitempty"`
	YLabel     string       `json:"y_label,omitempty"`
	Conclusion string       `json:"conclusion"`
	Records    int          `json:"records"`
	Cached     bool         `json:"cached"`
	Empty      bool         `json:"empty"`
	Message    string       `json:"message,omitempty"`
	Data       any          `json:"data"`
}

type seriesPoint struct {
	Date  string      `json:"date"`
	Value json.Number `json:"value"`
}

type rankRow struct {
	Rank  int         `json:"rank"`
	Date  string      `json:"date"`
	Close json.Number `json:"close"`
}

// matrixData carries NaN coefficients as null.
type matrixData struct {
	Labels  [3]string    `json:"labels"`
	Values  [][]*float64 `json:"values"`
	Samples int          `json:"samples"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	t := s.svc.Table()
	lo, hi := s.svc.YearBounds()

	years := insight.Years(t)
	if years == nil {
		years = []int{}
	}

	resp := datasetResponse{
		Records:     t.Len(),
		Years:       years,
		MinYear:     lo,
		MaxYear:     hi,
		DefaultYear: s.defaultYear,
	}
	if t != nil {
		resp.Source = t.Source
		resp.Fingerprint = t.Fingerprint
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleKinds(w http.ResponseWriter, r *http.Request) {
	out := make([]render.Description, 0, len(insight.Kinds))
	for _, k := range insight.Kinds {
		out = append(out, render.Describe(k))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	kind, err := insight.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sel := insight.Selection{Kind: kind, Year: s.defaultYear}
	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		if sel.Year, err = strconv.Atoi(v); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid year %q", v))
			return
		}
	}
	if v := q.Get("n"); v != "" {
		if sel.N, err = strconv.Atoi(v); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid n %q", v))
			return
		}
	}

	out, err := s.svc.Run(r.Context(), sel)
	switch {
	case errors.Is(err, insight.ErrYearOutOfRange), errors.Is(err, insight.ErrUnknownKind):
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.log.Error().Err(err).Str("kind", kind.String()).Int("year", sel.Year).Msg("insight failed")
		s.writeError(w, http.StatusInternalServerError, "failed to compute insight")
		return
	}

	d := render.For(out.Selection)
	resp := insightResponse{
		Kind:       kind,
		Year:       out.Selection.Year,
		N:          out.Selection.N,
		Chart:      d.Chart,
		Heading:    d.Heading,
		Title:      d.Title,
		XLabel:     d.XLabel,
		YLabel:     d.YLabel,
		Conclusion: d.Conclusion,
		Records:    out.Records,
		Cached:     out.Cached,
		Empty:      out.Empty,
		Message:    out.Message,
	}
	if !out.Empty {
		resp.Data = payload(out.Result)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// payload converts a result into its JSON shape. Decimal values are
// written as JSON numbers without passing through float64.
func payload(r insight.Result) any {
	switch v := r.(type) {
	case insight.DailyRangeSeries:
		pts := make([]seriesPoint, len(v.Points))
		for i, p := range v.Points {
			pts[i] = seriesPoint{Date: p.Date.Format(dateLayout), Value: number(p.Range)}
		}
		return pts
	case insight.ClosingTrendSeries:
		pts := make([]seriesPoint, len(v.Points))
		for i, p := range v.Points {
			pts[i] = seriesPoint{Date: p.Date.Format(dateLayout), Value: number(p.Close)}
		}
		return pts
	case insight.VolumeSeries:
		pts := make([]seriesPoint, len(v.Points))
		for i, p := range v.Points {
			pts[i] = seriesPoint{Date: p.Date.Format(dateLayout), Value: json.Number(strconv.FormatInt(p.Volume, 10))}
		}
		return pts
	case insight.TopNTable:
		rows := make([]rankRow, len(v.Rows))
		for i, p := range v.Rows {
			rows[i] = rankRow{Rank: i + 1, Date: p.Date.Format(dateLayout), Close: number(p.Close)}
		}
		return rows
	case insight.CorrelationMatrix:
		m := matrixData{Labels: v.Labels, Samples: v.Samples, Values: make([][]*float64, len(v.Values))}
		for i := range v.Values {
			m.Values[i] = make([]*float64, len(v.Values[i]))
			for j, x := range v.Values[i] {
				if !math.IsNaN(x) {
					x := x
					m.Values[i][j] = &x
				}
			}
		}
		return m
	}
	return nil
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
