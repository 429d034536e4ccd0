// Package formatter is the single request/response operation exposed to hosts:
// raw trigger-point text in, rendered boolean expression or error out.
package formatter

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/TimurManjosov/tpformat/internal/render"
	"github.com/TimurManjosov/tpformat/internal/telemetry"
	"github.com/TimurManjosov/tpformat/internal/trigger"
)

// ErrParse is the only parse failure reported to callers. The decoder detail
// goes to the debug log.
var ErrParse = errors.New("failed to parse")

// Formatter converts documents with a fixed mode policy. It is stateless
// and safe for concurrent use.
type Formatter struct {
	policy   trigger.ModePolicy
	logger   zerolog.Logger
	renderer *render.Renderer
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithPolicy sets the mode-selection policy (default trigger.PresencePolicy).
func WithPolicy(p trigger.ModePolicy) Option {
	return func(f *Formatter) { f.policy = p }
}

// WithLogger sets the logger (default: disabled).
func WithLogger(l zerolog.Logger) Option {
	return func(f *Formatter) { f.logger = l }
}

func New(opts ...Option) *Formatter {
	f := &Formatter{policy: trigger.PresencePolicy{}, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(f)
	}
	f.renderer = render.New(render.WithPolicy(f.policy))
	return f
}

// Policy returns the mode policy in use.
func (f *Formatter) Policy() trigger.ModePolicy {
	return f.policy
}

// Format parses content and renders it with plain layout.
func (f *Formatter) Format(content string) (string, error) {
	expr, err := f.Inspect(content)
	if err != nil {
		return "", err
	}
	return expr.String(), nil
}

// Inspect parses content and returns the expression tree instead of text.
func (f *Formatter) Inspect(content string) (*render.Expression, error) {
	tp, err := f.Parse(content)
	if err != nil {
		return nil, err
	}

	expr, err := f.renderer.Build(tp)
	if err != nil {
		telemetry.Conversions.WithLabelValues(telemetry.ResultRenderError).Inc()
		f.logger.Debug().Err(err).Msg("render failed")
		return nil, err
	}

	telemetry.Conversions.WithLabelValues(telemetry.ResultOK).Inc()
	telemetry.DocumentConditions.Observe(float64(len(tp.Conditions)))
	telemetry.DocumentGroups.Observe(float64(len(expr.Groups)))
	return expr, nil
}

// Parse decodes content, collapsing every decoding failure into ErrParse.
func (f *Formatter) Parse(content string) (*trigger.TriggerPoint, error) {
	tp, err := trigger.Parse(content)
	if err != nil {
		telemetry.Conversions.WithLabelValues(telemetry.ResultMalformed).Inc()
		f.logger.Debug().Err(err).Int("bytes", len(content)).Msg("document rejected")
		return nil, ErrParse
	}
	return tp, nil
}
