package match

import (
	"fmt"

	"github.com/TimurManjosov/tpformat/internal/trigger"
)

// Engine evaluates a trigger point against a request.
type Engine interface {
	Evaluate(tp *trigger.TriggerPoint, policy trigger.ModePolicy, req Request) (bool, error)
}

// Engine names accepted by EngineByName.
const (
	EngineJSONLogic = "jsonlogic"
	EngineCEL       = "cel"
)

// JSONLogicEngine evaluates the compiled JSON Logic rule.
type JSONLogicEngine struct{}

func (JSONLogicEngine) Evaluate(tp *trigger.TriggerPoint, policy trigger.ModePolicy, req Request) (bool, error) {
	return Evaluate(tp, policy, req)
}

// CELEngine evaluates the compiled CEL expression.
type CELEngine struct{}

func (CELEngine) Evaluate(tp *trigger.TriggerPoint, policy trigger.ModePolicy, req Request) (bool, error) {
	src, err := CompileCEL(tp, policy)
	if err != nil {
		return false, err
	}
	return EvaluateCEL(src, req)
}

// EngineByName returns the engine registered under name. An empty name
// selects JSON Logic.
func EngineByName(name string) (Engine, error) {
	switch name {
	case "", EngineJSONLogic:
		return JSONLogicEngine{}, nil
	case EngineCEL:
		return CELEngine{}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q (want %q or %q)", name, EngineJSONLogic, EngineCEL)
	}
}
