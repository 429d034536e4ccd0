// Package render turns a parsed trigger point into a nested English boolean
// expression laid out one operand per line.
package render

import (
	"strings"

	"github.com/TimurManjosov/tpformat/internal/trigger"
)

// Connective joins operands of a group or of the whole expression.
type Connective string

const (
	And Connective = "and"
	Or  Connective = "or"
)

// Connectives returns the intra-group and inter-group connectives for a mode.
// CNF joins conditions with "or" and groups with "and"; DNF is the dual.
func Connectives(mode trigger.Mode) (intra, inter Connective) {
	if mode == trigger.CNF {
		return Or, And
	}
	return And, Or
}

// Condition is one rendered SPT.
type Condition struct {
	Phrase  string      `json:"phrase" yaml:"phrase"`
	Negated bool        `json:"negated" yaml:"negated"`
	Source  trigger.SPT `json:"source" yaml:"source"`
}

// Group is a cluster of conditions sharing a group number.
type Group struct {
	Key        uint8       `json:"group" yaml:"group"`
	Connective Connective  `json:"connective" yaml:"connective"`
	Conditions []Condition `json:"conditions" yaml:"conditions"`
}

// Expression is the rendered tree. Groups are ordered by ascending key.
type Expression struct {
	Mode       trigger.Mode `json:"mode" yaml:"mode"`
	Connective Connective   `json:"connective" yaml:"connective"`
	Groups     []Group      `json:"groups" yaml:"groups"`
}

// Build groups the conditions of tp and phrases each of them. The mode is
// chosen by policy; a nil policy means trigger.PresencePolicy.
func Build(tp *trigger.TriggerPoint, policy trigger.ModePolicy) (*Expression, error) {
	if policy == nil {
		policy = trigger.PresencePolicy{}
	}
	mode, err := policy.Mode(tp)
	if err != nil {
		return nil, err
	}

	intra, inter := Connectives(mode)
	expr := &Expression{Mode: mode, Connective: inter}

	keys, byKey := tp.Groups()
	for _, key := range keys {
		g := Group{Key: key, Connective: intra}
		for _, spt := range byKey[key] {
			g.Conditions = append(g.Conditions, Condition{
				Phrase:  Phrase(spt),
				Negated: spt.IsNegated(),
				Source:  spt,
			})
		}
		expr.Groups = append(expr.Groups, g)
	}
	return expr, nil
}

// Lines lays the expression out as line fragments:
//
//	(
//	  (phrase)
//	  or
//	  (phrase)
//	)
//	and
//	(
//	  ...
//	)
func (e *Expression) Lines(st Styler) []string {
	if st == nil {
		st = PlainStyler{}
	}

	var lines []string
	for i, g := range e.Groups {
		if i > 0 {
			lines = append(lines, st.Connective(string(e.Connective)))
		}
		lines = append(lines, st.Paren("("))
		for j, c := range g.Conditions {
			if j > 0 {
				lines = append(lines, indent+st.Connective(string(g.Connective)))
			}
			lines = append(lines, indent+st.Paren("(")+st.Phrase(c.Phrase)+st.Paren(")"))
		}
		lines = append(lines, st.Paren(")"))
	}
	return lines
}

// String serializes the expression with plain styling. An expression without
// groups is the empty string.
func (e *Expression) String() string {
	return strings.Join(e.Lines(PlainStyler{}), "\n")
}

// Text serializes the expression with the given styler.
func (e *Expression) Text(st Styler) string {
	return strings.Join(e.Lines(st), "\n")
}

const indent = "  "
