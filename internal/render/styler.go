package render

// Styler decorates the tokens of the serialized expression, e.g. with
// terminal colors. Implementations must not change the visible text.
type Styler interface {
	Connective(s string) string
	Paren(s string) string
	Phrase(s string) string
}

// PlainStyler leaves every token unchanged.
type PlainStyler struct{}

func (PlainStyler) Connective(s string) string { return s }
func (PlainStyler) Paren(s string) string      { return s }
func (PlainStyler) Phrase(s string) string     { return s }
