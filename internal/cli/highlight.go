package cli

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Color modes accepted by NewHighlighter.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Highlighter colors connectives and parentheses of rendered expressions.
// It implements render.Styler.
type Highlighter struct {
	profile termenv.Profile
}

// NewHighlighter picks a color profile for w. In auto mode colors are used
// only when w is a terminal and NO_COLOR is unset.
func NewHighlighter(w io.Writer, mode string) *Highlighter {
	switch mode {
	case ColorNever:
		return &Highlighter{profile: termenv.Ascii}
	case ColorAlways:
		return &Highlighter{profile: termenv.ANSI256}
	}
	if os.Getenv("NO_COLOR") != "" {
		return &Highlighter{profile: termenv.Ascii}
	}
	return &Highlighter{profile: termenv.NewOutput(w).EnvColorProfile()}
}

func (h *Highlighter) Connective(s string) string {
	return h.profile.String(s).Foreground(h.profile.Color("#c084fc")).Bold().String()
}

func (h *Highlighter) Paren(s string) string {
	return h.profile.String(s).Foreground(h.profile.Color("#818cf8")).String()
}

func (h *Highlighter) Phrase(s string) string {
	return s
}
