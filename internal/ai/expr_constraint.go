package ai

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/archon-sim/core/internal/ids"
)

// exprEnv is the variable surface a compiled expression predicate can
// reference; kept small and numeric-only since the expression language
// never touches FixedPoint64 directly (expr has no fixed-point type).
// Values crossing this boundary are rounded to float64 only for
// constraint evaluation, never for any authoritative scalar.
type exprEnv struct {
	ProvinceCount int
	AtWar         bool
	Resources     map[string]float64
}

// ExprConstraint compiles a scenario-authored boolean expression once at
// registration and evaluates it per invocation, letting scenario data
// define custom AI constraints without a Go recompile.
type ExprConstraint struct {
	name     string
	source   string
	program  *vm.Program
	resource func(country ids.CountryID, state State) map[string]float64
}

// CompileExprConstraint compiles source against exprEnv's shape. resource
// supplies whatever named resource values the expression may reference;
// a nil resource func means the expression never queries Resources.
func CompileExprConstraint(name, source string, resource func(country ids.CountryID, state State) map[string]float64) (*ExprConstraint, error) {
	program, err := expr.Compile(source, expr.Env(exprEnv{}), expr.AsBool())
	if err != nil {
		return nil, err
	}
	return &ExprConstraint{name: name, source: source, program: program, resource: resource}, nil
}

func (c *ExprConstraint) Name() string { return c.name }

func (c *ExprConstraint) Check(country ids.CountryID, state State) bool {
	env := exprEnv{
		ProvinceCount: state.ProvinceCount(country),
		AtWar:         state.IsAtWar(country),
	}
	if c.resource != nil {
		env.Resources = c.resource(country, state)
	}
	out, err := expr.Run(c.program, env)
	if err != nil {
		return false
	}
	result, ok := out.(bool)
	return ok && result
}
