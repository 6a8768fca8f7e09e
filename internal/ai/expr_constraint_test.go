package ai

import (
	"testing"

	"github.com/archon-sim/core/internal/ids"
)

func TestExprConstraintEvaluatesBooleanExpression(t *testing.T) {
	c, err := CompileExprConstraint("RichEnough", "Resources.gold >= 100", func(country ids.CountryID, state State) map[string]float64 {
		return map[string]float64{"gold": 150}
	})
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if !c.Check(1, newFakeState()) {
		t.Error("expected constraint to pass with gold=150 >= 100")
	}
}

func TestExprConstraintFailsBelowThreshold(t *testing.T) {
	c, err := CompileExprConstraint("RichEnough", "Resources.gold >= 100", func(country ids.CountryID, state State) map[string]float64 {
		return map[string]float64{"gold": 10}
	})
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if c.Check(1, newFakeState()) {
		t.Error("expected constraint to fail with gold=10 < 100")
	}
}

func TestExprConstraintReferencesBuiltinFields(t *testing.T) {
	c, err := CompileExprConstraint("NotAtWarAndExpansive", "!AtWar && ProvinceCount >= 5", nil)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	state := newFakeState()
	state.provinces[1] = 10
	state.atWar[1] = false
	if !c.Check(1, state) {
		t.Error("expected constraint to pass for a peaceful, expansive country")
	}
	state.atWar[1] = true
	if c.Check(1, state) {
		t.Error("expected constraint to fail once at war")
	}
}

func TestCompileExprConstraintRejectsInvalidSyntax(t *testing.T) {
	_, err := CompileExprConstraint("Broken", "this is not valid expr syntax (((", nil)
	if err == nil {
		t.Error("expected a compile error for invalid syntax")
	}
}
