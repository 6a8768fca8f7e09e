package timemanager

import (
	"testing"

	"github.com/archon-sim/core/internal/fixedpoint"
)

func TestMultiplierExactFractions(t *testing.T) {
	if Multiplier(SpeedPaused) != 0 {
		t.Error("paused should be exactly 0")
	}
	if Multiplier(SpeedNormal) != fixedpoint.FromInt(1) {
		t.Error("normal should be exactly 1")
	}
	half := Multiplier(SpeedHalf)
	want, _ := fixedpoint.FromInt(1).Div(fixedpoint.FromInt(2))
	if half != want {
		t.Errorf("half speed should be exactly 1/2, got %v", half.Float64())
	}
}

func TestAdvancePausedNeverTicks(t *testing.T) {
	m := New(0, fixedpoint.FromInt(1))
	m.Pause()
	events := m.Advance(fixedpoint.FromInt(100))
	if len(events) != 0 {
		t.Errorf("expected no ticks while paused, got %d", len(events))
	}
	if m.CurrentTick() != 0 {
		t.Errorf("expected tick to remain 0, got %d", m.CurrentTick())
	}
}

func TestAdvanceNormalSpeedOneHourPerSecond(t *testing.T) {
	m := New(0, fixedpoint.FromInt(1)) // 1 hour per real second at 1x
	events := m.Advance(fixedpoint.FromInt(3))
	if len(events) != 3 {
		t.Fatalf("expected 3 hourly ticks, got %d", len(events))
	}
	if m.CurrentTick() != 3 {
		t.Errorf("expected tick 3, got %d", m.CurrentTick())
	}
}

func TestAdvanceAccumulatesFractionalHours(t *testing.T) {
	m := New(0, fixedpoint.FromInt(1))
	m.SetSpeed(SpeedHalf)
	events := m.Advance(fixedpoint.FromInt(1)) // 0.5 hours, not enough for a tick
	if len(events) != 0 {
		t.Fatalf("expected no tick yet, got %d", len(events))
	}
	events = m.Advance(fixedpoint.FromInt(1)) // another 0.5 hours -> 1.0 total
	if len(events) != 1 {
		t.Fatalf("expected exactly one tick once accumulator reaches 1, got %d", len(events))
	}
}

func TestSynchronizeToTickForwardOnly(t *testing.T) {
	m := New(10, fixedpoint.FromInt(1))
	events, err := m.SynchronizeToTick(15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("expected 5 rollover events, got %d", len(events))
	}
	if m.CurrentTick() != 15 {
		t.Errorf("expected tick 15, got %d", m.CurrentTick())
	}
}

func TestSynchronizeToTickRejectsBackward(t *testing.T) {
	m := New(100, fixedpoint.FromInt(1))
	_, err := m.SynchronizeToTick(50)
	if err != ErrBackwardSync {
		t.Errorf("expected ErrBackwardSync, got %v", err)
	}
	if m.CurrentTick() != 100 {
		t.Error("current tick must be unchanged after a rejected backward sync")
	}
}

func TestSetCurrentTickResetsAccumulator(t *testing.T) {
	m := New(0, fixedpoint.FromInt(1))
	m.Advance(fixedpoint.FromFloat64(0.5))
	m.SetCurrentTick(42)
	if m.CurrentTick() != 42 {
		t.Errorf("expected tick 42, got %d", m.CurrentTick())
	}
	events := m.Advance(fixedpoint.FromFloat64(0.5))
	if len(events) != 0 {
		t.Error("expected accumulator to have been reset by SetCurrentTick")
	}
}
