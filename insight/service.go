package insight

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/stockinsight/market"
)

// Year bounds offered by the dashboard selector.
const (
	MinYear     = 2000
	MaxYear     = 2024
	DefaultYear = MaxYear
)

// User facing messages for results that have nothing to draw.
const (
	MsgNoData           = "No data available for the selected year."
	MsgInsufficientData = "Not enough data to compute a correlation for the selected year (at least 2 trading days are needed)."
)

// Selection is one user request: which year and which view.
type Selection struct {
	Year int
	Kind Kind
	N    int
}

// Key identifies a computed result for caching.
type Key struct {
	Fingerprint string
	Year        int
	Kind        Kind
	N           int
}

// Cache memoises computed results. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, k Key) (Result, bool, error)
	Put(ctx context.Context, k Key, r Result) error
}

// Outcome is what a renderer receives. When Empty is true Result may be
// nil and Message says why.
type Outcome struct {
	Selection Selection
	Result    Result
	Records   int
	Empty     bool
	Message   string
	Cached    bool
}

// Service runs selections against a loaded table. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	table   *market.PriceTable
	cache   Cache
	log     zerolog.Logger
	minYear int
	maxYear int
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables result memoisation.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l.With().Str("component", "insight").Logger() }
}

// WithYearBounds overrides the accepted year range.
func WithYearBounds(min, max int) Option {
	return func(s *Service) {
		s.minYear = min
		s.maxYear = max
	}
}

// NewService returns a Service over t.
func NewService(t *market.PriceTable, opts ...Option) *Service {
	s := &Service{
		table:   t,
		log:     zerolog.Nop(),
		minYear: MinYear,
		maxYear: MaxYear,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Table returns the full loaded table.
func (s *Service) Table() *market.PriceTable { return s.table }

// YearBounds returns the accepted year range.
func (s *Service) YearBounds() (int, int) { return s.minYear, s.maxYear }

// Run filters the table to sel.Year and computes sel.Kind. Empty years and
// insufficient data are reported through Outcome, not as errors. Errors
// are returned for invalid selections only; cache failures are logged and
// the result is computed anyway.
func (s *Service) Run(ctx context.Context, sel Selection) (Outcome, error) {
	if !sel.Kind.Valid() {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownKind, sel.Kind)
	}
	if sel.Year < s.minYear || sel.Year > s.maxYear {
		return Outcome{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrYearOutOfRange, sel.Year, s.minYear, s.maxYear)
	}
	if sel.Kind == TopN && sel.N <= 0 {
		sel.N = DefaultTopN
	}
	if sel.Kind != TopN {
		sel.N = 0
	}

	out := Outcome{Selection: sel}

	filtered := FilterByYear(s.table, sel.Year)
	out.Records = filtered.Len()
	if filtered.Empty() {
		out.Empty = true
		out.Message = MsgNoData
		return out, nil
	}

	key := Key{Fingerprint: s.table.Fingerprint, Year: sel.Year, Kind: sel.Kind, N: sel.N}
	if s.cache != nil {
		r, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("kind", sel.Kind.String()).Int("year", sel.Year).Msg("cache get failed")
		} else if ok {
			out.Result = r
			out.Cached = true
			return out, nil
		}
	}

	r, err := Compute(filtered, sel.Kind, sel.N)
	if errors.Is(err, ErrInsufficientData) {
		out.Empty = true
		out.Message = MsgInsufficientData
		return out, nil
	}
	if err != nil {
		return Outcome{}, err
	}
	out.Result = r

	s.log.Debug().
		Str("kind", sel.Kind.String()).
		Int("year", sel.Year).
		Int("records", out.Records).
		Msg("computed insight")

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, r); err != nil {
			s.log.Warn().Err(err).Str("kind", sel.Kind.String()).Int("year", sel.Year).Msg("cache put failed")
		}
	}
	return out, nil
}
