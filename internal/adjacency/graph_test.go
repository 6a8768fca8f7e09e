package adjacency

import (
	"testing"

	"github.com/archon-sim/core/internal/ids"
)

// Topology: 1-2-3-4, 2-5 (5 is a leaf off the main chain), 6 is isolated.
func testGraph() *Graph {
	allIDs := []ids.ProvinceID{1, 2, 3, 4, 5, 6}
	adj := map[ids.ProvinceID][]ids.ProvinceID{
		1: {2},
		2: {1, 3, 5},
		3: {2, 4},
		4: {3},
		5: {2},
		6: {},
	}
	return Build(adj, allIDs)
}

func alwaysTrue(ids.ProvinceID) bool { return true }

func TestNeighborsSorted(t *testing.T) {
	g := testGraph()
	n := g.Neighbors(2)
	if len(n) != 3 || n[0] != 1 || n[1] != 3 || n[2] != 5 {
		t.Errorf("expected sorted [1 3 5], got %v", n)
	}
}

func TestConnectedRegionFloodFill(t *testing.T) {
	g := testGraph()
	region := g.ConnectedRegion(1, alwaysTrue)
	if len(region) != 5 {
		t.Errorf("expected 5 provinces reachable from 1, got %d: %v", len(region), region)
	}
}

func TestConnectedRegionIsolatedNode(t *testing.T) {
	g := testGraph()
	region := g.ConnectedRegion(6, alwaysTrue)
	if len(region) != 1 {
		t.Errorf("expected isolated node 6 alone, got %v", region)
	}
}

func TestIsBridgeDetectsCutVertex(t *testing.T) {
	g := testGraph()
	// Removing 2 disconnects {1} and {5} from {3,4}.
	if !g.IsBridge(2, alwaysTrue) {
		t.Error("province 2 should be detected as a bridge")
	}
	// Removing 3 disconnects {4} from {1,2,5}.
	if !g.IsBridge(3, alwaysTrue) {
		t.Error("province 3 should be detected as a bridge")
	}
	// 1 is a leaf, removing it disconnects nothing.
	if g.IsBridge(1, alwaysTrue) {
		t.Error("leaf province 1 should not be a bridge")
	}
}

func TestSharedBorderProvinces(t *testing.T) {
	g := testGraph()
	setA := []ids.ProvinceID{1, 6}
	setB := []ids.ProvinceID{2}
	shared := g.SharedBorderProvinces(setA, setB)
	if len(shared) != 1 || shared[0] != 1 {
		t.Errorf("expected only province 1 to border set B, got %v", shared)
	}
}
