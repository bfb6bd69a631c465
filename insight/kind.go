package insight

import (
	"fmt"
	"strings"
)

// Kind selects one of the fixed insight computations.
type Kind int

const (
	DailyRange Kind = iota + 1
	ClosingTrend
	Volume
	TopN
	Correlation
)

// Kinds lists every insight in display order.
var Kinds = []Kind{DailyRange, ClosingTrend, Volume, TopN, Correlation}

var kindSlugs = map[Kind]string{
	DailyRange:   "daily-range",
	ClosingTrend: "closing-trend",
	Volume:       "volume",
	TopN:         "top-n",
	Correlation:  "correlation",
}

// Labels shown by the dashboard year/insight selector. ParseKind accepts
// them so saved selections keep working.
var kindLabels = map[Kind]string{
	DailyRange:   "Daily Price Range",
	ClosingTrend: "Stock Performance Trend",
	Volume:       "Volume Over Time",
	TopN:         "Top N Days by Closing Price",
	Correlation:  "Correlation Between High, Low, and Volume",
}

// String returns the slug, e.g. "top-n".
func (k Kind) String() string {
	if s, ok := kindSlugs[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Label returns the human readable selector label.
func (k Kind) Label() string {
	return kindLabels[k]
}

// Valid reports whether k is one of Kinds.
func (k Kind) Valid() bool {
	_, ok := kindSlugs[k]
	return ok
}

// ParseKind accepts a slug or a selector label, case-insensitively.
// Underscores and spaces are treated like dashes for slugs.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if norm == strings.ToLower(kindLabels[k]) {
			return k, nil
		}
	}

	slug := strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	for _, k := range Kinds {
		if slug == kindSlugs[k] {
			return k, nil
		}
	}

	switch slug {
	case "range", "dailyrange":
		return DailyRange, nil
	case "trend", "close", "closing":
		return ClosingTrend, nil
	case "top", "topn":
		return TopN, nil
	case "corr":
		return Correlation, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
