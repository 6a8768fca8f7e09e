package scenario

import (
	"testing"

	"github.com/archon-sim/core/internal/ids"
)

func testBlob() *Blob {
	return &Blob{
		Provinces: []ProvinceDef{
			{ID: 1, Terrain: 1, InitialOwner: "ARG", Neighbors: []ids.ProvinceID{2}},
			{ID: 2, Terrain: 2, InitialOwner: "", Neighbors: []ids.ProvinceID{1}},
		},
		Countries: []CountryDef{
			{Tag: "ARG", DisplayColor: 0xFF0000},
		},
		Terrains: []TerrainDef{
			{ID: 1, Name: "plains", Sea: false},
			{ID: 2, Name: "ocean", Sea: true},
		},
	}
}

func TestBuildCountryStoreAssignsStableIDs(t *testing.T) {
	b := testBlob()
	cs := b.BuildCountryStore()
	id, ok := cs.IDForTag("ARG")
	if !ok || id != 1 {
		t.Errorf("expected ARG to resolve to id 1, got %d ok=%v", id, ok)
	}
}

func TestBuildProvinceStoreResolvesOwnerAndSeaFlag(t *testing.T) {
	b := testBlob()
	cs := b.BuildCountryStore()
	ps := b.BuildProvinceStore(cs)
	argID, _ := cs.IDForTag("ARG")
	if ps.GetOwner(1) != argID {
		t.Errorf("expected province 1 owned by ARG, got owner %d", ps.GetOwner(1))
	}
	if ps.GetOwner(2) != ids.NoCountry {
		t.Errorf("expected province 2 unowned, got owner %d", ps.GetOwner(2))
	}
	if !ps.GetState(2).IsSea() {
		t.Error("expected province 2 to carry the sea flag from its ocean terrain")
	}
	if ps.GetState(1).IsSea() {
		t.Error("expected province 1 (plains) to not carry the sea flag")
	}
}

func TestBuildAdjacencyMatchesProvinceNeighbors(t *testing.T) {
	b := testBlob()
	adj, allIDs := b.BuildAdjacency()
	if len(allIDs) != 2 {
		t.Fatalf("expected 2 provinces, got %d", len(allIDs))
	}
	if len(adj[1]) != 1 || adj[1][0] != 2 {
		t.Errorf("expected province 1 to neighbor province 2, got %v", adj[1])
	}
}
