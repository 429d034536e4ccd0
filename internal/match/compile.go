// Package match compiles trigger points into JSON Logic (jsonlogic.com) rules
// or CEL expressions and evaluates them against a description of a SIP request.
package match

import (
	"strings"

	"github.com/TimurManjosov/tpformat/internal/render"
	"github.com/TimurManjosov/tpformat/internal/trigger"
)

// Rule is a JSON Logic rule: either a bool literal or an operator object.
type Rule = any

// Data keys the compiled rules read from.
const (
	keyMethod      = "method"
	keySessionCase = "sessionCase"
	keyExtension   = "extension"
	keyRequestURI  = "requestURI"
	keyHeaders     = "headers"
)

// noSessionCase never matches a real session case.
const noSessionCase = -1

// Compile translates tp into a JSON Logic rule that mirrors the rendered
// expression: each SPT is the conjunction of its attribute checks, groups are
// joined by the intra-group connective and the result by the inter-group one.
//
// Method, session case and extension compare for equality. Request URI and
// header content are substring checks; header names are matched
// case-insensitively, with '.' and '%' in names percent-escaped in the
// headers path. A document with no conditions compiles to true in CNF
// and false in DNF.
func Compile(tp *trigger.TriggerPoint, policy trigger.ModePolicy) (Rule, error) {
	expr, err := render.Build(tp, policy)
	if err != nil {
		return nil, err
	}

	groups := make([]Rule, 0, len(expr.Groups))
	for _, g := range expr.Groups {
		conds := make([]Rule, 0, len(g.Conditions))
		for _, c := range g.Conditions {
			conds = append(conds, compileSPT(c.Source))
		}
		groups = append(groups, join(string(g.Connective), conds))
	}
	if len(groups) == 0 {
		return expr.Mode == trigger.CNF, nil
	}
	return join(string(expr.Connective), groups), nil
}

func compileSPT(spt trigger.SPT) Rule {
	var checks []Rule
	if spt.Method != nil {
		checks = append(checks, eq(keyMethod, *spt.Method, ""))
	}
	if spt.SessionCase != nil {
		checks = append(checks, eq(keySessionCase, int(*spt.SessionCase), noSessionCase))
	}
	if spt.Extension != nil && *spt.Extension != "" {
		checks = append(checks, eq(keyExtension, *spt.Extension, ""))
	}
	if spt.RequestURI != nil {
		checks = append(checks, contains(keyRequestURI, *spt.RequestURI))
	}
	if spt.SIPHeader != nil {
		checks = append(checks, contains(headerKey(spt.SIPHeader.Header), spt.SIPHeader.Content))
	}

	var rule Rule = true
	switch len(checks) {
	case 0:
	case 1:
		rule = checks[0]
	default:
		rule = map[string]any{"and": checks}
	}

	if spt.IsNegated() {
		if b, ok := rule.(bool); ok {
			return !b
		}
		return map[string]any{"!": []Rule{rule}}
	}
	return rule
}

func join(op string, operands []Rule) Rule {
	if len(operands) == 1 {
		return operands[0]
	}
	return map[string]any{op: operands}
}

func variable(key string, def any) map[string]any {
	return map[string]any{"var": []any{key, def}}
}

func eq(key string, want, def any) map[string]any {
	return map[string]any{"==": []any{variable(key, def), want}}
}

func contains(key, needle string) map[string]any {
	return map[string]any{"in": []any{needle, variable(key, "")}}
}

// headerPathEscaper keeps header names free of the '.' that JSON Logic splits
// var paths on. '%' is escaped too so distinct names never share a key.
var headerPathEscaper = strings.NewReplacer("%", "%25", ".", "%2e")

// headerField is the key a header is stored under in the evaluation data.
func headerField(name string) string {
	return headerPathEscaper.Replace(strings.ToLower(name))
}

func headerKey(name string) string {
	return keyHeaders + "." + headerField(name)
}
