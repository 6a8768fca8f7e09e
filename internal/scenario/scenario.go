// Package scenario defines the typed parsed-scenario blob the core
// consumes at load time. The bitmap/CSV/Paradox-file parsers are out
// of scope here; this package only defines the shape the loader hands
// the core, and the core never reads a raw scenario file itself.
package scenario

import (
	"github.com/archon-sim/core/internal/country"
	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/gametime"
	"github.com/archon-sim/core/internal/ids"
	"github.com/archon-sim/core/internal/military"
	"github.com/archon-sim/core/internal/province"
)

// ProvinceDef is one parsed province record.
type ProvinceDef struct {
	ID           ids.ProvinceID
	RGB          uint32
	Terrain      ids.TerrainID
	InitialOwner string // country tag, empty for unowned
	Culture      string
	Religion     string
	Neighbors    []ids.ProvinceID
}

// CountryDef is one parsed country record.
type CountryDef struct {
	Tag               string
	DisplayColor      uint32
	StartingResources map[ids.ModifierTypeID]fixedpoint.FixedPoint64
}

// BuildingDef, UnitTypeDef, TreatyTypeDef, TerrainDef are the parsed
// registries; the core treats each as an opaque catalog entry it stores
// and looks up by ID, never interpreting the name fields itself.
type BuildingDef struct {
	ID   ids.ModifierTypeID
	Name string
}

type UnitTypeDef struct {
	ID            ids.ModifierTypeID
	Name          string
	TraversalDays uint32
}

type TreatyTypeDef struct {
	ID   ids.TreatyTypeID
	Name string
}

type TerrainDef struct {
	ID   ids.TerrainID
	Name string
	Sea  bool
}

// Blob is the complete parsed scenario, the sole input the core accepts
// to bootstrap a fresh game. Everything else is reached via commands
// issued afterward.
type Blob struct {
	Provinces    []ProvinceDef
	Countries    []CountryDef
	Buildings    []BuildingDef
	UnitTypes    []UnitTypeDef
	TreatyTypes  []TreatyTypeDef
	Terrains     []TerrainDef
	InitialDate  gametime.GameTime
	ScenarioSeed uint64
}

// BuildCountryStore constructs a country.Store from the blob's country
// definitions, in declaration order, so IDs are stable and reproducible
// from the same blob.
func (b *Blob) BuildCountryStore() *country.Store {
	tags := make([]string, len(b.Countries))
	hots := make([]country.Hot, len(b.Countries))
	for i, c := range b.Countries {
		tags[i] = c.Tag
		hots[i] = country.Hot{ColorRGB: c.DisplayColor}
	}
	return country.NewStore(tags, hots)
}

// BuildProvinceStore constructs a province.Store from the blob's
// province definitions, resolving each InitialOwner tag against the
// already-built country store.
func (b *Blob) BuildProvinceStore(countries *country.Store) *province.Store {
	provinceIDs := make([]ids.ProvinceID, len(b.Provinces))
	initial := make([]province.State, len(b.Provinces))
	for i, p := range b.Provinces {
		provinceIDs[i] = p.ID
		owner := ids.NoCountry
		if p.InitialOwner != "" {
			if id, ok := countries.IDForTag(p.InitialOwner); ok {
				owner = id
			}
		}
		var flags uint16
		for _, t := range b.Terrains {
			if t.ID == p.Terrain && t.Sea {
				flags |= province.FlagSea
			}
		}
		initial[i] = province.State{OwnerID: owner, ControllerID: owner, TerrainType: p.Terrain, Flags: flags}
	}
	return province.NewStore(provinceIDs, initial)
}

// BuildAdjacency assembles the adjacency map from each province's parsed
// neighbor list, for adjacency.Build.
func (b *Blob) BuildAdjacency() (map[ids.ProvinceID][]ids.ProvinceID, []ids.ProvinceID) {
	adj := make(map[ids.ProvinceID][]ids.ProvinceID, len(b.Provinces))
	allIDs := make([]ids.ProvinceID, len(b.Provinces))
	for i, p := range b.Provinces {
		adj[p.ID] = p.Neighbors
		allIDs[i] = p.ID
	}
	return adj, allIDs
}

// UnitTypeByID resolves a parsed unit-type definition to the
// military.UnitType the movement package consumes.
func (b *Blob) UnitTypeByID(id ids.ModifierTypeID) (military.UnitType, bool) {
	for _, u := range b.UnitTypes {
		if u.ID == id {
			return military.UnitType{ID: u.ID, TraversalDays: u.TraversalDays}, true
		}
	}
	return military.UnitType{}, false
}
