package trigger

import (
	"errors"
	"fmt"
)

// Mode is the document-level normal form.
type Mode string

const (
	// CNF is an AND of OR-groups.
	CNF Mode = "cnf"
	// DNF is an OR of AND-groups.
	DNF Mode = "dnf"
)

// ErrInvalidMarker is returned by StrictPolicy when the normal-form markers
// do not unambiguously select a mode.
var ErrInvalidMarker = errors.New("invalid condition type marker")

// markerSentinel is the only marker value StrictPolicy accepts.
const markerSentinel = 1

// ModePolicy decides which normal form a document declares.
type ModePolicy interface {
	Mode(tp *TriggerPoint) (Mode, error)
}

// PresencePolicy selects CNF whenever the CNF marker is present, whatever its
// value, and DNF otherwise. The DNF marker is never consulted. It never fails.
type PresencePolicy struct{}

// Mode implements ModePolicy.
func (PresencePolicy) Mode(tp *TriggerPoint) (Mode, error) {
	if tp.CNF != nil {
		return CNF, nil
	}
	return DNF, nil
}

// StrictPolicy requires exactly one marker and requires it to equal 1.
type StrictPolicy struct{}

// Mode implements ModePolicy.
func (StrictPolicy) Mode(tp *TriggerPoint) (Mode, error) {
	switch {
	case tp.CNF != nil && tp.DNF != nil:
		return "", fmt.Errorf("%w: both ConditionTypeCNF and ConditionTypeDNF are present", ErrInvalidMarker)
	case tp.CNF != nil:
		if *tp.CNF != markerSentinel {
			return "", fmt.Errorf("%w: ConditionTypeCNF is %d, want %d", ErrInvalidMarker, *tp.CNF, markerSentinel)
		}
		return CNF, nil
	case tp.DNF != nil:
		if *tp.DNF != markerSentinel {
			return "", fmt.Errorf("%w: ConditionTypeDNF is %d, want %d", ErrInvalidMarker, *tp.DNF, markerSentinel)
		}
		return DNF, nil
	default:
		return "", fmt.Errorf("%w: neither ConditionTypeCNF nor ConditionTypeDNF is present", ErrInvalidMarker)
	}
}

// Policy names accepted by PolicyByName.
const (
	PolicyPresence = "presence"
	PolicyStrict   = "strict"
)

// PolicyByName returns the ModePolicy registered under name. An empty name
// selects the presence policy.
func PolicyByName(name string) (ModePolicy, error) {
	switch name {
	case "", PolicyPresence:
		return PresencePolicy{}, nil
	case PolicyStrict:
		return StrictPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown mode policy %q (want %q or %q)", name, PolicyPresence, PolicyStrict)
	}
}
