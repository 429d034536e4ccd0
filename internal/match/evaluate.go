package match

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/diegoholiveira/jsonlogic/v3"

	"github.com/TimurManjosov/tpformat/internal/trigger"
)

// Request describes the SIP request a trigger point is evaluated against.
type Request struct {
	Method      string            `json:"method" yaml:"method"`
	SessionCase *uint8            `json:"sessionCase,omitempty" yaml:"sessionCase,omitempty"`
	Extension   string            `json:"extension,omitempty" yaml:"extension,omitempty"`
	RequestURI  string            `json:"requestURI" yaml:"requestURI"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// ErrInvalidRule is returned when the JSON Logic engine rejects a compiled rule.
var ErrInvalidRule = errors.New("invalid rule: not valid JSON Logic")

// data flattens r into the document the compiled rules address.
func (r Request) data() map[string]any {
	headers := make(map[string]any, len(r.Headers))
	for name, value := range r.Headers {
		headers[headerField(name)] = value
	}
	d := map[string]any{
		keyMethod:     r.Method,
		keyExtension:  r.Extension,
		keyRequestURI: r.RequestURI,
		keyHeaders:    headers,
	}
	if r.SessionCase != nil {
		d[keySessionCase] = int(*r.SessionCase)
	}
	return d
}

// Evaluate reports whether req satisfies the trigger point.
func Evaluate(tp *trigger.TriggerPoint, policy trigger.ModePolicy, req Request) (bool, error) {
	rule, err := Compile(tp, policy)
	if err != nil {
		return false, err
	}
	return Apply(rule, req)
}

// Apply evaluates a compiled rule against req.
func Apply(rule Rule, req Request) (bool, error) {
	if b, ok := rule.(bool); ok {
		return b, nil
	}

	ruleBytes, err := json.Marshal(rule)
	if err != nil {
		return false, err
	}
	dataBytes, err := json.Marshal(req.data())
	if err != nil {
		return false, err
	}

	var resultBuf bytes.Buffer
	if err := jsonlogic.Apply(bytes.NewReader(ruleBytes), bytes.NewReader(dataBytes), &resultBuf); err != nil {
		return false, ErrInvalidRule
	}

	var result any
	if err := json.Unmarshal(resultBuf.Bytes(), &result); err != nil {
		return false, err
	}
	return isTruthy(result), nil
}

// isTruthy follows JavaScript-like truthiness rules.
func isTruthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
