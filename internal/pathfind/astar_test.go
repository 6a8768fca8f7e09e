package pathfind

import (
	"testing"

	"github.com/archon-sim/core/internal/adjacency"
	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/ids"
)

// chain: 1-2-3-4, with 2-5 a leaf branch.
func testGraph() *adjacency.Graph {
	allIDs := []ids.ProvinceID{1, 2, 3, 4, 5}
	adj := map[ids.ProvinceID][]ids.ProvinceID{
		1: {2},
		2: {1, 3, 5},
		3: {2, 4},
		4: {3},
		5: {2},
	}
	return adjacency.Build(adj, allIDs)
}

// unitCost charges 1.0 per edge, uniformly.
type unitCost struct{}

func (unitCost) Cost(from, to ids.ProvinceID, ctx Context) (fixedpoint.FixedPoint64, error) {
	return fixedpoint.FromInt(1), nil
}
func (unitCost) Hash() uint64 { return 1 }

// blockedAt blocks one specific province.
type blockedAt struct{ province ids.ProvinceID }

func (b blockedAt) Cost(from, to ids.ProvinceID, ctx Context) (fixedpoint.FixedPoint64, error) {
	if to == b.province {
		return 0, Blocked
	}
	return fixedpoint.FromInt(1), nil
}
func (b blockedAt) Hash() uint64 { return 2 }

func TestFindPathSameStartGoal(t *testing.T) {
	g := testGraph()
	r := FindPath(g, 1, 1, unitCost{}, Context{}, ZeroHeuristic, Options{})
	if r.Kind != ResultFound || len(r.Waypoints) != 1 {
		t.Fatalf("expected trivial found path, got %+v", r)
	}
}

func TestFindPathChain(t *testing.T) {
	g := testGraph()
	r := FindPath(g, 1, 4, unitCost{}, Context{}, ZeroHeuristic, Options{})
	if r.Kind != ResultFound {
		t.Fatalf("expected path found, got %+v", r)
	}
	want := []ids.ProvinceID{1, 2, 3, 4}
	if len(r.Waypoints) != len(want) {
		t.Fatalf("expected %v, got %v", want, r.Waypoints)
	}
	for i := range want {
		if r.Waypoints[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, r.Waypoints)
		}
	}
}

func TestFindPathBlockedMidway(t *testing.T) {
	g := testGraph()
	r := FindPath(g, 1, 4, blockedAt{province: 3}, Context{}, ZeroHeuristic, Options{})
	if r.Kind != ResultNoPath {
		t.Fatalf("expected no path with 3 blocked, got %+v", r)
	}
}

func TestFindPathForbiddenEndpoint(t *testing.T) {
	g := testGraph()
	r := FindPath(g, 1, 4, unitCost{}, Context{}, ZeroHeuristic, Options{
		Forbidden: map[ids.ProvinceID]struct{}{4: {}},
	})
	if r.Kind != ResultForbidden {
		t.Fatalf("expected forbidden goal, got %+v", r)
	}
}

func TestFindPathMaxExpandBound(t *testing.T) {
	g := testGraph()
	r := FindPath(g, 1, 4, unitCost{}, Context{}, ZeroHeuristic, Options{MaxExpand: 1})
	if r.Kind != ResultNoPath {
		t.Fatalf("expected expansion bound to prevent reaching goal, got %+v", r)
	}
}

func TestFindPathDeterministicAcrossRuns(t *testing.T) {
	g := testGraph()
	r1 := FindPath(g, 1, 4, unitCost{}, Context{}, ZeroHeuristic, Options{})
	r2 := FindPath(g, 1, 4, unitCost{}, Context{}, ZeroHeuristic, Options{})
	if len(r1.Waypoints) != len(r2.Waypoints) {
		t.Fatalf("expected identical results across runs, got %v vs %v", r1.Waypoints, r2.Waypoints)
	}
	for i := range r1.Waypoints {
		if r1.Waypoints[i] != r2.Waypoints[i] {
			t.Fatalf("expected identical results across runs, got %v vs %v", r1.Waypoints, r2.Waypoints)
		}
	}
}

func TestCacheHitAvoidsRecompute(t *testing.T) {
	g := testGraph()
	cache := NewCache(8)
	calc := unitCost{}
	r1 := FindPathCached(cache, g, 1, 4, calc, Context{}, ZeroHeuristic, Options{})
	if cache.Len() != 1 {
		t.Fatalf("expected one cached entry, got %d", cache.Len())
	}
	r2 := FindPathCached(cache, g, 1, 4, calc, Context{}, ZeroHeuristic, Options{})
	if len(r1.Waypoints) != len(r2.Waypoints) {
		t.Fatalf("expected cached result to match recomputed result")
	}
}

func TestCacheEvictsLRU(t *testing.T) {
	cache := NewCache(1)
	g := testGraph()
	calc := unitCost{}
	cache.Put(1, 4, calc, Context{}, Result{Kind: ResultFound})
	cache.Put(2, 4, calc, Context{}, Result{Kind: ResultFound})
	if _, ok := cache.Get(1, 4, calc, Context{}); ok {
		t.Error("expected first entry to be evicted once capacity exceeded")
	}
	if _, ok := cache.Get(2, 4, calc, Context{}); !ok {
		t.Error("expected second entry to remain cached")
	}
	_ = g
}

func TestCacheInvalidateAll(t *testing.T) {
	cache := NewCache(8)
	calc := unitCost{}
	cache.Put(1, 4, calc, Context{}, Result{Kind: ResultFound})
	cache.InvalidateAll()
	if cache.Len() != 0 {
		t.Error("expected cache to be empty after InvalidateAll")
	}
}

func TestCacheKeyDistinguishesContext(t *testing.T) {
	cache := NewCache(8)
	calc := unitCost{}
	cache.Put(1, 4, calc, Context{QueryingCountry: 1}, Result{Kind: ResultFound})
	if _, ok := cache.Get(1, 4, calc, Context{QueryingCountry: 2}); ok {
		t.Error("expected different querying countries to miss each other's cache entries")
	}
}
