package match

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/TimurManjosov/tpformat/internal/render"
	"github.com/TimurManjosov/tpformat/internal/trigger"
)

// ErrInvalidExpression is returned when a CEL expression does not compile to
// a boolean program.
var ErrInvalidExpression = errors.New("invalid CEL expression")

var celEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable(keyMethod, cel.StringType),
		cel.Variable(keySessionCase, cel.IntType),
		cel.Variable(keyExtension, cel.StringType),
		cel.Variable(keyRequestURI, cel.StringType),
		cel.Variable(keyHeaders, cel.MapType(cel.StringType, cel.StringType)),
	)
})

// CompileCEL renders tp as a CEL expression over the same request fields the
// JSON Logic rule reads. Both forms agree on every request.
func CompileCEL(tp *trigger.TriggerPoint, policy trigger.ModePolicy) (string, error) {
	expr, err := render.Build(tp, policy)
	if err != nil {
		return "", err
	}
	if len(expr.Groups) == 0 {
		return strconv.FormatBool(expr.Mode == trigger.CNF), nil
	}

	groups := make([]string, 0, len(expr.Groups))
	for _, g := range expr.Groups {
		conds := make([]string, 0, len(g.Conditions))
		for _, c := range g.Conditions {
			conds = append(conds, celSPT(c.Source))
		}
		groups = append(groups, celJoin(g.Connective, conds))
	}
	return celJoin(expr.Connective, groups), nil
}

// EvaluateCEL compiles src and runs it against req.
func EvaluateCEL(src string, req Request) (bool, error) {
	env, err := celEnv()
	if err != nil {
		return false, err
	}
	ast, iss := env.Compile(src)
	if iss != nil && iss.Err() != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidExpression, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return false, fmt.Errorf("%w: result type is %v, want bool", ErrInvalidExpression, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	out, _, err := prg.Eval(req.activation())
	if err != nil {
		return false, err
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: non-boolean result %v", ErrInvalidExpression, out)
	}
	return b, nil
}

func (r Request) activation() map[string]any {
	headers := make(map[string]string, len(r.Headers))
	for name, value := range r.Headers {
		headers[strings.ToLower(name)] = value
	}
	sc := int64(noSessionCase)
	if r.SessionCase != nil {
		sc = int64(*r.SessionCase)
	}
	return map[string]any{
		keyMethod:      r.Method,
		keySessionCase: sc,
		keyExtension:   r.Extension,
		keyRequestURI:  r.RequestURI,
		keyHeaders:     headers,
	}
}

func celSPT(spt trigger.SPT) string {
	var checks []string
	if spt.Method != nil {
		checks = append(checks, keyMethod+" == "+strconv.Quote(*spt.Method))
	}
	if spt.SessionCase != nil {
		checks = append(checks, keySessionCase+" == "+strconv.Itoa(int(*spt.SessionCase)))
	}
	if spt.Extension != nil && *spt.Extension != "" {
		checks = append(checks, keyExtension+" == "+strconv.Quote(*spt.Extension))
	}
	if spt.RequestURI != nil {
		checks = append(checks, keyRequestURI+".contains("+strconv.Quote(*spt.RequestURI)+")")
	}
	if spt.SIPHeader != nil {
		name := strconv.Quote(strings.ToLower(spt.SIPHeader.Header))
		checks = append(checks, fmt.Sprintf("(%s in %s ? %s[%s] : \"\").contains(%s)",
			name, keyHeaders, keyHeaders, name, strconv.Quote(spt.SIPHeader.Content)))
	}

	src := "true"
	if len(checks) > 0 {
		src = strings.Join(checks, " && ")
	}
	if spt.IsNegated() {
		return "!(" + src + ")"
	}
	return src
}

func celJoin(c render.Connective, operands []string) string {
	if len(operands) == 1 {
		return operands[0]
	}
	op := " && "
	if c == render.Or {
		op = " || "
	}
	wrapped := make([]string, len(operands))
	for i, o := range operands {
		wrapped[i] = "(" + o + ")"
	}
	return strings.Join(wrapped, op)
}
