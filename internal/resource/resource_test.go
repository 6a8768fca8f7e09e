package resource

import (
	"testing"

	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/ids"
)

func TestLedgerAddGet(t *testing.T) {
	l := NewLedger()
	l.Add(1, 10, fixedpoint.FromInt(5))
	l.Add(1, 10, fixedpoint.FromInt(3))
	if got := l.Get(1, 10); got != fixedpoint.FromInt(8) {
		t.Errorf("expected 8, got %v", got.Float64())
	}
}

func TestLedgerSeparatesEntitiesAndTypes(t *testing.T) {
	l := NewLedger()
	l.Set(1, 10, fixedpoint.FromInt(100))
	l.Set(1, 11, fixedpoint.FromInt(200))
	l.Set(2, 10, fixedpoint.FromInt(300))
	if l.Get(1, 10) != fixedpoint.FromInt(100) || l.Get(1, 11) != fixedpoint.FromInt(200) || l.Get(2, 10) != fixedpoint.FromInt(300) {
		t.Error("expected independent buckets per (entity, type)")
	}
}

func TestModifierConstantNeverDecays(t *testing.T) {
	m := Modifier{StartTick: 0, DecayTicks: 0, Magnitude: fixedpoint.FromInt(50)}
	if m.IsExpired(1_000_000) {
		t.Error("constant modifier should never expire")
	}
	if m.ValueAt(1_000_000) != fixedpoint.FromInt(50) {
		t.Error("constant modifier should always contribute full magnitude")
	}
}

func TestModifierDecaysLinearly(t *testing.T) {
	m := Modifier{StartTick: 0, DecayTicks: 100, Magnitude: fixedpoint.FromInt(100)}
	half := m.ValueAt(50)
	// At the halfway point, value should be close to 50 (within fixed-point precision).
	diff := half.Sub(fixedpoint.FromInt(50))
	if diff.Abs() > fixedpoint.FromFloat64(0.01) {
		t.Errorf("expected ~50 at halfway decay, got %v", half.Float64())
	}
}

func TestModifierExpiresAtDecayTicks(t *testing.T) {
	m := Modifier{StartTick: 10, DecayTicks: 50, Magnitude: fixedpoint.FromInt(20)}
	if !m.IsExpired(60) {
		t.Error("expected modifier to be expired exactly at start+decayTicks")
	}
	if m.ValueAt(60) != 0 {
		t.Error("expired modifier should contribute 0")
	}
}

func TestModifierSetSumAndPrune(t *testing.T) {
	ms := &ModifierSet{}
	ms.Add(Modifier{StartTick: 0, DecayTicks: 0, Magnitude: fixedpoint.FromInt(10)})
	ms.Add(Modifier{StartTick: 0, DecayTicks: 10, Magnitude: fixedpoint.FromInt(20)})
	sumBefore := ms.Sum(20) // second modifier expired by tick 20
	if sumBefore != fixedpoint.FromInt(10) {
		t.Errorf("expected only the constant modifier to contribute, got %v", sumBefore.Float64())
	}
	ms.Prune(20)
	if ms.Len() != 1 {
		t.Errorf("expected pruning to drop the expired modifier, got %d remaining", ms.Len())
	}
}

func TestModifierNeverNegativePastExpiry(t *testing.T) {
	m := Modifier{StartTick: 0, DecayTicks: 10, Magnitude: fixedpoint.FromInt(100)}
	v := m.ValueAt(1000)
	if v != 0 {
		t.Errorf("expected 0 far past expiry, got %v", v.Float64())
	}
	_ = ids.Tick(0)
}
