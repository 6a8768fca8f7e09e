package rng

import "testing"

func TestSameSeedTickStreamReproducible(t *testing.T) {
	a := New(42, 100, 1)
	b := New(42, 100, 1)
	for i := 0; i < 10; i++ {
		va, vb := a.Uint64(), b.Uint64()
		if va != vb {
			t.Fatalf("draw %d diverged: %d != %d", i, va, vb)
		}
	}
}

func TestDifferentStreamIDDiverges(t *testing.T) {
	a := New(42, 100, 1)
	b := New(42, 100, 2)
	if a.Uint64() == b.Uint64() {
		t.Error("different stream IDs should not collide on first draw")
	}
}

func TestIntnWithinBounds(t *testing.T) {
	s := New(1, 1, 1)
	for i := 0; i < 1000; i++ {
		v := s.Intn(7)
		if v < 0 || v >= 7 {
			t.Fatalf("Intn(7) out of bounds: %d", v)
		}
	}
}

func TestForkIndependentFromParentCounter(t *testing.T) {
	parent := New(1, 1, 1)
	child := parent.Fork(5)
	parentFirst := parent.Uint64()
	// Forking must not have consumed the parent's draw counter.
	parent2 := New(1, 1, 1)
	if parentFirst != parent2.Uint64() {
		t.Error("Fork must not advance parent's draw counter")
	}
	_ = child.Uint64()
}
