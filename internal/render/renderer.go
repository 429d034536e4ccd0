package render

import "github.com/TimurManjosov/tpformat/internal/trigger"

// Renderer renders trigger points with a fixed mode policy and styler.
// It holds no mutable state and is safe for concurrent use.
type Renderer struct {
	policy trigger.ModePolicy
	styler Styler
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPolicy sets the mode-selection policy.
func WithPolicy(p trigger.ModePolicy) Option {
	return func(r *Renderer) { r.policy = p }
}

// WithStyler sets the styler applied during serialization.
func WithStyler(st Styler) Option {
	return func(r *Renderer) { r.styler = st }
}

// New returns a Renderer using trigger.PresencePolicy and plain styling
// unless overridden.
func New(opts ...Option) *Renderer {
	r := &Renderer{policy: trigger.PresencePolicy{}, styler: PlainStyler{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns the textual expression for tp. With the default policy it
// never fails.
func (r *Renderer) Render(tp *trigger.TriggerPoint) (string, error) {
	expr, err := r.Build(tp)
	if err != nil {
		return "", err
	}
	return expr.Text(r.styler), nil
}

// Build returns the expression tree for tp.
func (r *Renderer) Build(tp *trigger.TriggerPoint) (*Expression, error) {
	return Build(tp, r.policy)
}
