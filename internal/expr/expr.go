// Package expr evaluates the CONDITION and VARIABLES symbolic expressions
// that appear in a facility configuration (spec.md §9 "Expressions"),
// resolving `$var.*` references against the per-period values of time
// series and other variables. The evaluation approach mirrors the
// govaluate usage in the teacher's io.go Outputter: expressions are parsed
// once at load time and evaluated once per period against a parameter map.
package expr

import (
	"fmt"

	"github.com/Knetic/govaluate"
)

// Expression is a parsed CONDITION or VARIABLES formula.
type Expression struct {
	src  string
	eval *govaluate.EvaluableExpression
}

// functions are the expression functions available to every parsed
// expression, named the way the teacher's Outputter.outputFunctions map
// names its default functions.
var functions = map[string]govaluate.ExpressionFunction{
	"max": func(args ...interface{}) (interface{}, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("expr: max requires at least one argument")
		}
		m := args[0].(float64)
		for _, a := range args[1:] {
			if v := a.(float64); v > m {
				m = v
			}
		}
		return m, nil
	},
	"min": func(args ...interface{}) (interface{}, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("expr: min requires at least one argument")
		}
		m := args[0].(float64)
		for _, a := range args[1:] {
			if v := a.(float64); v < m {
				m = v
			}
		}
		return m, nil
	},
}

// Parse compiles a CONDITION or VARIABLES expression. The `$var.name`
// references described in spec.md §9 are rewritten to the bare parameter
// name `var_name` before parsing, since govaluate variable identifiers
// cannot contain `$` or `.`.
func Parse(src string) (*Expression, error) {
	rewritten := rewriteVarRefs(src)
	e, err := govaluate.NewEvaluableExpressionWithFunctions(rewritten, functions)
	if err != nil {
		return nil, fmt.Errorf("expr: parsing %q: %w", src, err)
	}
	return &Expression{src: src, eval: e}, nil
}

// MustParse is like Parse but panics on error; used for expressions baked
// in by the system itself rather than read from user configuration.
func MustParse(src string) *Expression {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the original, unrewritten source of the expression.
func (e *Expression) String() string { return e.src }

// EvalFloat evaluates the expression against a set of named values and
// returns a float64 result, the form used by VARIABLES.
func (e *Expression) EvalFloat(vars map[string]float64) (float64, error) {
	result, err := e.evaluate(vars)
	if err != nil {
		return 0, err
	}
	f, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("expr: %q did not evaluate to a number, got %T", e.src, result)
	}
	return f, nil
}

// EvalBool evaluates the expression against a set of named values and
// returns a bool result, the form used by CONDITION. A bare float result
// is accepted and treated as nonzero-is-true, since CONDITION expressions
// frequently compare a variable to zero without an explicit boolean
// operator (e.g. "$var.WATER_PROD>0" but also bare "$var.FLAG").
func (e *Expression) EvalBool(vars map[string]float64) (bool, error) {
	result, err := e.evaluate(vars)
	if err != nil {
		return false, err
	}
	switch v := result.(type) {
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	default:
		return false, fmt.Errorf("expr: %q did not evaluate to a boolean, got %T", e.src, result)
	}
}

func (e *Expression) evaluate(vars map[string]float64) (interface{}, error) {
	params := make(govaluate.MapParameters, len(vars))
	for k, v := range vars {
		params[sanitize(k)] = v
	}
	return e.eval.Eval(params)
}

func rewriteVarRefs(src string) string {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		if src[i] == '$' && i+4 <= len(src) && src[i+1:i+5] == "var." {
			out = append(out, "var_"...)
			i += 4
			continue
		}
		out = append(out, src[i])
	}
	return string(out)
}

// sanitize matches the rewrite rule applied by rewriteVarRefs so a caller
// populating the parameter map with a raw column name gets the same key
// the parser produced.
func sanitize(name string) string {
	return "var_" + name
}
