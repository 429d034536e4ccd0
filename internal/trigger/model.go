// Package trigger decodes IFC trigger-point documents into typed conditions.
package trigger

import "slices"

// SessionCase identifies the call leg an SPT applies to.
type SessionCase uint8

// Session cases defined by the trigger-point schema. Other values are kept
// as-is and rendered with a numeric fallback.
const (
	SessionOriginated             SessionCase = 0
	SessionTerminated             SessionCase = 1
	SessionOriginatedUnregistered SessionCase = 2
	SessionTerminatedUnregistered SessionCase = 3
)

// SIPHeader matches a SIP header by name and content.
type SIPHeader struct {
	Header  string `json:"header" yaml:"header"`
	Content string `json:"content" yaml:"content"`
}

// SPT is a single service point trigger: one leaf condition of a trigger point.
// Every descriptive attribute is optional and several may be set at once;
// the condition then holds when all of them hold.
type SPT struct {
	Group       uint8        `json:"group" yaml:"group"`
	Negated     *uint8       `json:"negated,omitempty" yaml:"negated,omitempty"`
	Method      *string      `json:"method,omitempty" yaml:"method,omitempty"`
	Extension   *string      `json:"extension,omitempty" yaml:"extension,omitempty"`
	SessionCase *SessionCase `json:"sessionCase,omitempty" yaml:"sessionCase,omitempty"`
	RequestURI  *string      `json:"requestURI,omitempty" yaml:"requestURI,omitempty"`
	SIPHeader   *SIPHeader   `json:"sipHeader,omitempty" yaml:"sipHeader,omitempty"`
}

// IsNegated reports whether the condition carries a negation marker equal to 1.
func (s SPT) IsNegated() bool {
	return s.Negated != nil && *s.Negated == 1
}

// TriggerPoint is the root of a trigger-point document.
type TriggerPoint struct {
	// CNF and DNF record the normal-form markers exactly as found; nil means
	// the element was absent.
	CNF        *uint8 `json:"conditionTypeCNF,omitempty" yaml:"conditionTypeCNF,omitempty"`
	DNF        *uint8 `json:"conditionTypeDNF,omitempty" yaml:"conditionTypeDNF,omitempty"`
	Conditions []SPT  `json:"conditions" yaml:"conditions"`
}

// Groups partitions the conditions by group number. Keys come back in
// ascending order and every group keeps its document order.
func (tp *TriggerPoint) Groups() ([]uint8, map[uint8][]SPT) {
	byKey := make(map[uint8][]SPT)
	var keys []uint8
	for _, c := range tp.Conditions {
		if _, seen := byKey[c.Group]; !seen {
			keys = append(keys, c.Group)
		}
		byKey[c.Group] = append(byKey[c.Group], c)
	}
	slices.Sort(keys)
	return keys, byKey
}
