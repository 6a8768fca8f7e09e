// Package ai implements the AI scheduler: a bucketed per-tick processing
// loop, a declarative-constraint goal registry, and a default
// max-by-score selector. expr-lang/expr is wired in for custom
// constraint predicates authored as data, scenario-editable expressions,
// rather than compiled Go delegates.
package ai

import (
	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/ids"
)

// State is the read-only view a goal's constraints and evaluator query
// against; the real gamestate orchestrator implements it against its
// stores. Kept minimal and interface-based so this package has no
// import-cycle back onto gamestate.
type State interface {
	ProvinceCount(country ids.CountryID) int
	IsAtWar(country ids.CountryID) bool
	ResourceAmount(country ids.CountryID, resourceType ids.ModifierTypeID) fixedpoint.FixedPoint64
}

// Constraint is a declarative predicate a goal must satisfy before it is
// scored. Failing constraints short-circuit evaluation and remain
// retrievable (via Constraint.Name) for debugging.
type Constraint interface {
	Name() string
	Check(country ids.CountryID, state State) bool
}

// MinProvinces requires a country to control at least K provinces.
type MinProvinces struct{ K int }

func (c MinProvinces) Name() string { return "MinProvinces" }
func (c MinProvinces) Check(country ids.CountryID, state State) bool {
	return state.ProvinceCount(country) >= c.K
}

// AtWar requires (or forbids) the country being currently at war.
type AtWar struct{ Want bool }

func (c AtWar) Name() string { return "AtWar" }
func (c AtWar) Check(country ids.CountryID, state State) bool {
	return state.IsAtWar(country) == c.Want
}

// MinResource requires at least Amount of a given resource type.
type MinResource struct {
	Type   ids.ModifierTypeID
	Amount fixedpoint.FixedPoint64
}

func (c MinResource) Name() string { return "MinResource" }
func (c MinResource) Check(country ids.CountryID, state State) bool {
	return state.ResourceAmount(country, c.Type) >= c.Amount
}

// Delegate wraps an arbitrary Go predicate as a Constraint, for
// custom checks that don't fit a declarative shape.
type Delegate struct {
	DelegateName string
	Fn           func(country ids.CountryID, state State) bool
}

func (c Delegate) Name() string { return c.DelegateName }
func (c Delegate) Check(country ids.CountryID, state State) bool {
	return c.Fn(country, state)
}

// Goal is one entry in the registry: a named, constrained, scored action.
type Goal struct {
	Name        string
	Constraints []Constraint
	Evaluate    func(country ids.CountryID, state State) fixedpoint.FixedPoint64
	Execute     func(country ids.CountryID, state State) []interface{} // returns issued commands
}

// passesConstraints reports whether every constraint holds, and if not,
// which one failed first (for debugging/statistics).
func (g Goal) passesConstraints(country ids.CountryID, state State) (bool, string) {
	for _, c := range g.Constraints {
		if !c.Check(country, state) {
			return false, c.Name()
		}
	}
	return true, ""
}

// Selector picks a winner among scored, constraint-passing goals.
// DefaultSelector is max-by-score with a deterministic tie-break on
// earlier registry order.
type Selector func(scored []ScoredGoal) int // returns index into scored

// ScoredGoal pairs a goal with its computed score and its original
// registry index (for tie-breaking).
type ScoredGoal struct {
	Goal          Goal
	Score         fixedpoint.FixedPoint64
	RegistryIndex int
}

// DefaultSelector picks the highest score; ties go to the lower registry
// index, the earliest-registered goal, for reproducibility.
func DefaultSelector(scored []ScoredGoal) int {
	best := 0
	for i := 1; i < len(scored); i++ {
		if scored[i].Score > scored[best].Score {
			best = i
		}
	}
	return best
}

// Registry holds goals in registration order, the order DefaultSelector
// breaks ties by.
type Registry struct {
	goals []Goal
}

// NewRegistry constructs an empty goal registry.
func NewRegistry() *Registry { return &Registry{} }

// Add registers a goal, appended at the end (lowest tie-break priority
// is the last-registered goal).
func (r *Registry) Add(g Goal) { r.goals = append(r.goals, g) }

// FailedConstraint records why a goal was excluded from scoring, kept
// for an AI debug query surface.
type FailedConstraint struct {
	Goal       string
	Constraint string
}

// RunOutcome is the result of one goal cycle for one country.
type RunOutcome struct {
	Selected          *Goal
	FailedConstraints []FailedConstraint
	Commands          []interface{}
}

// RunCycle runs one country's goal cycle: score every constraint-passing
// goal, select a winner (selector, or DefaultSelector if nil), and
// execute it.
func (r *Registry) RunCycle(country ids.CountryID, state State, selector Selector) RunOutcome {
	if selector == nil {
		selector = DefaultSelector
	}
	var scored []ScoredGoal
	var failed []FailedConstraint
	for i, g := range r.goals {
		ok, failedName := g.passesConstraints(country, state)
		if !ok {
			failed = append(failed, FailedConstraint{Goal: g.Name, Constraint: failedName})
			continue
		}
		score := g.Evaluate(country, state)
		scored = append(scored, ScoredGoal{Goal: g, Score: score, RegistryIndex: i})
	}
	if len(scored) == 0 {
		return RunOutcome{FailedConstraints: failed}
	}
	winnerIdx := selector(scored)
	winner := scored[winnerIdx].Goal
	commands := winner.Execute(country, state)
	return RunOutcome{Selected: &winner, FailedConstraints: failed, Commands: commands}
}
