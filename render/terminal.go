package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the word wrap width used when none is given.
const DefaultWidth = 100

// Terminal styles markdown for an ANSI terminal. Style is a glamour
// standard style name ("dark", "light", "notty", ...); empty picks one
// from the terminal background.
func Terminal(md, style string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
