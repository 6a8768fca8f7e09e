package province

import (
	"testing"

	"github.com/archon-sim/core/internal/ids"
)

func newTestStore() *Store {
	provinceIDs := []ids.ProvinceID{1, 2, 3}
	initial := []State{
		{OwnerID: 0, ControllerID: 0, TerrainType: 1},
		{OwnerID: 10, ControllerID: 10, TerrainType: 1},
		{OwnerID: 10, ControllerID: 10, TerrainType: 2, Flags: FlagSea},
	}
	return NewStore(provinceIDs, initial)
}

func TestGetStateUnknownIDReturnsEmpty(t *testing.T) {
	s := newTestStore()
	st := s.GetState(999)
	if st != (State{}) {
		t.Errorf("expected empty state for unknown id, got %+v", st)
	}
	if s.DirtyCount() != 0 {
		t.Error("unknown id lookup must not mark anything dirty")
	}
}

func TestSetOwnerSameValueNoOp(t *testing.T) {
	s := newTestStore()
	_, evt, ok := s.SetOwner(2, 10, 5)
	if !ok {
		t.Fatal("expected ok for known id")
	}
	if evt != nil {
		t.Error("same-value SetOwner must not emit an event")
	}
	if s.DirtyCount() != 0 {
		t.Error("same-value SetOwner must not mark dirty")
	}
}

func TestSetOwnerChangeEmitsEventAndDirty(t *testing.T) {
	s := newTestStore()
	_, evt, ok := s.SetOwner(2, 20, 5)
	if !ok || evt == nil {
		t.Fatalf("expected event, got ok=%v evt=%v", ok, evt)
	}
	if evt.OldOwner != 10 || evt.NewOwner != 20 {
		t.Errorf("unexpected event contents: %+v", evt)
	}
	if s.DirtyCount() != 1 {
		t.Errorf("expected 1 dirty slot, got %d", s.DirtyCount())
	}
	// READ buffer must be unaffected until swap.
	if s.GetOwner(2) != 10 {
		t.Error("READ buffer must not reflect WRITE until SwapBuffers")
	}
}

func TestSwapBuffersIdempotent(t *testing.T) {
	s := newTestStore()
	s.SetOwner(2, 20, 5)
	s.SwapBuffers()
	if s.GetOwner(2) != 20 {
		t.Fatal("expected READ to reflect WRITE after swap")
	}
	if s.DirtyCount() != 0 {
		t.Fatal("dirty set must clear after swap")
	}
	// Second swap with no intervening writes is a no-op.
	s.SwapBuffers()
	if s.GetOwner(2) != 20 {
		t.Error("second swap must not change state")
	}
}

func TestGetProvincesOfReusesBuffer(t *testing.T) {
	s := newTestStore()
	buf := make([]ids.ProvinceID, 0, 4)
	buf = s.GetProvincesOf(10, buf)
	if len(buf) != 2 {
		t.Errorf("expected 2 provinces owned by 10, got %d", len(buf))
	}
	if cap(buf) != 4 {
		t.Errorf("expected the caller's buffer to be reused without reallocation, got cap %d", cap(buf))
	}
}

func TestCountProvincesOf(t *testing.T) {
	s := newTestStore()
	if got := s.CountProvincesOf(10); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := s.CountProvincesOf(999); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestSeaProvinceFlag(t *testing.T) {
	s := newTestStore()
	st := s.GetState(3)
	if !st.IsSea() {
		t.Error("province 3 should be flagged sea")
	}
}
