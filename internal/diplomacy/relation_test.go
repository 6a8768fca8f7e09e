package diplomacy

import (
	"testing"

	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/ids"
)

func TestRelationUnknownPairNotFound(t *testing.T) {
	s := NewStore()
	if _, ok := s.Relation(1, 2); ok {
		t.Error("expected unknown pair to report not-found")
	}
}

func TestOpinionBaseOnly(t *testing.T) {
	s := NewStore()
	rel := s.getOrCreate(1, 2)
	rel.BaseOpinion = fixedpoint.FromInt(50)
	if got := s.Opinion(1, 2, 0); got != fixedpoint.FromInt(50) {
		t.Errorf("expected base opinion 50, got %v", got.Float64())
	}
}

func TestOpinionClampsToRange(t *testing.T) {
	s := NewStore()
	rel := s.getOrCreate(1, 2)
	rel.BaseOpinion = fixedpoint.FromInt(1000)
	if got := s.Opinion(1, 2, 0); got != fixedpoint.FromInt(MaxOpinion) {
		t.Errorf("expected clamp to %d, got %v", MaxOpinion, got.Float64())
	}
}

func TestOpinionIncludesActiveModifiers(t *testing.T) {
	s := NewStore()
	key := ids.MakeRelationKey(1, 2)
	s.AddModifier(OpinionModifier{Key: key, AppliedTick: 0, DecayTicks: 0, Magnitude: fixedpoint.FromInt(10)})
	s.RebuildIndex()
	if got := s.Opinion(1, 2, 5); got != fixedpoint.FromInt(10) {
		t.Errorf("expected modifier contribution of 10, got %v", got.Float64())
	}
}

func TestDecayMonthlyRemovesExpiredModifiers(t *testing.T) {
	s := NewStore()
	key := ids.MakeRelationKey(1, 2)
	s.AddModifier(OpinionModifier{Key: key, AppliedTick: 0, DecayTicks: 10, Magnitude: fixedpoint.FromInt(20)})
	s.AddModifier(OpinionModifier{Key: key, AppliedTick: 0, DecayTicks: 0, Magnitude: fixedpoint.FromInt(5)})
	s.DecayMonthly(100) // far past expiry of the first modifier
	if got := s.Opinion(1, 2, 100); got != fixedpoint.FromInt(5) {
		t.Errorf("expected only the permanent modifier to survive, got %v", got.Float64())
	}
}

func TestDecayMonthlyPreservesOrderAcrossKeys(t *testing.T) {
	s := NewStore()
	k1 := ids.MakeRelationKey(1, 2)
	k2 := ids.MakeRelationKey(3, 4)
	s.AddModifier(OpinionModifier{Key: k1, AppliedTick: 0, DecayTicks: 0, Magnitude: fixedpoint.FromInt(1)})
	s.AddModifier(OpinionModifier{Key: k2, AppliedTick: 0, DecayTicks: 0, Magnitude: fixedpoint.FromInt(2)})
	s.AddModifier(OpinionModifier{Key: k1, AppliedTick: 0, DecayTicks: 5, Magnitude: fixedpoint.FromInt(3)})
	s.DecayMonthly(0)
	if s.Opinion(1, 2, 0) != fixedpoint.FromInt(4) {
		t.Errorf("expected pair (1,2) opinion 4, got %v", s.Opinion(1, 2, 0).Float64())
	}
	if s.Opinion(3, 4, 0) != fixedpoint.FromInt(2) {
		t.Errorf("expected pair (3,4) opinion 2, got %v", s.Opinion(3, 4, 0).Float64())
	}
}

func TestSetTreatyToggle(t *testing.T) {
	s := NewStore()
	s.SetTreaty(1, 2, FlagAlliance, true)
	if !s.AreAllied(1, 2) {
		t.Fatal("expected alliance flag set")
	}
	s.SetTreaty(1, 2, FlagAlliance, false)
	if s.AreAllied(1, 2) {
		t.Error("expected alliance flag cleared")
	}
}
