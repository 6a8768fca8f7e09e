package gamestate

import (
	"github.com/archon-sim/core/internal/diplomacy"
	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/ids"
	"github.com/archon-sim/core/internal/resource"
)

// ProvinceInfo is the read-only projection of one province's state,
// assembled from the province store plus its owner's tag.
type ProvinceInfo struct {
	ID           ids.ProvinceID
	OwnerTag     string
	ControllerID ids.CountryID
	TerrainType  ids.TerrainID
	Occupied     bool
}

// ProvinceByID returns a province's current state, or false if the ID is
// unknown. Safe to call between barriers (outside a Tick/Submit call).
func (s *State) ProvinceByID(id ids.ProvinceID) (ProvinceInfo, bool) {
	if _, ok := s.Provinces.IndexOf(id); !ok {
		return ProvinceInfo{}, false
	}
	st := s.Provinces.GetState(id)
	tag, _ := s.Countries.TagForID(st.OwnerID)
	return ProvinceInfo{
		ID:           id,
		OwnerTag:     tag,
		ControllerID: st.ControllerID,
		TerrainType:  st.TerrainType,
		Occupied:     st.IsOccupied(),
	}, true
}

// ProvincesOwnedBy lists every province a country currently owns.
func (s *State) ProvincesOwnedBy(country ids.CountryID) []ids.ProvinceID {
	return s.Provinces.GetProvincesOf(country, nil)
}

// ProvincesBorderingOwnershipChange returns every province adjacent to
// id whose owner differs from id's current owner.
func (s *State) ProvincesBorderingOwnershipChange(id ids.ProvinceID) []ids.ProvinceID {
	owner := s.Provinces.GetOwner(id)
	var out []ids.ProvinceID
	for _, n := range s.Adjacency.Neighbors(id) {
		if s.Provinces.GetOwner(n) != owner {
			out = append(out, n)
		}
	}
	return out
}

// CountryInfo is the read-only projection of a country's registry entry.
type CountryInfo struct {
	ID          ids.CountryID
	Tag         string
	DisplayName string
	ColorRGB    uint32
	ProvinceCnt int
}

// CountryByTag resolves a tag to its current registry projection.
func (s *State) CountryByTag(tag string) (CountryInfo, bool) {
	id, ok := s.Countries.IDForTag(tag)
	if !ok {
		return CountryInfo{}, false
	}
	hot := s.Countries.GetHot(id)
	cold := s.Countries.GetCold(id)
	return CountryInfo{
		ID:          id,
		Tag:         tag,
		DisplayName: cold.DisplayName,
		ColorRGB:    hot.ColorRGB,
		ProvinceCnt: s.Provinces.CountProvincesOf(id),
	}, true
}

// Allies returns every country currently allied with id, transitively
// (alliance chains).
func (s *State) Allies(id ids.CountryID) []ids.CountryID {
	return s.Diplomacy.GetAlliesRecursive(id)
}

// Relation returns the raw relation record between two countries, if any
// relation has ever been recorded for the pair.
func (s *State) Relation(a, b ids.CountryID) (diplomacy.RelationData, bool) {
	return s.Diplomacy.Relation(a, b)
}

// Opinion returns a's opinion of b at the given tick, including active
// modifier decay.
func (s *State) Opinion(a, b ids.CountryID, at ids.Tick) fixedpoint.FixedPoint64 {
	return s.Diplomacy.Opinion(a, b, at)
}

// ResourceAmountOf returns a country's current balance of one resource
// type, the country-scoped counterpart to the ai.State method of the
// same shape.
func (s *State) ResourceAmountOf(country ids.CountryID, resourceType ids.ModifierTypeID) fixedpoint.FixedPoint64 {
	return s.Resources.Get(resource.EntityID(country), resourceType)
}

// UnitInfo is the read-only projection of one unit's state.
type UnitInfo struct {
	ID         ids.UnitID
	ProvinceID ids.ProvinceID
	OwnerID    ids.CountryID
	HasOrder   bool
}

// UnitByID looks up a unit's current state.
func (s *State) UnitByID(id ids.UnitID) (UnitInfo, bool) {
	u, ok := s.Units.Get(id)
	if !ok {
		return UnitInfo{}, false
	}
	return UnitInfo{ID: id, ProvinceID: u.ProvinceID, OwnerID: u.OwnerID, HasOrder: s.Units.HasOrder(id)}, true
}

// CurrentTick returns the authoritative simulation clock.
func (s *State) CurrentTick() ids.Tick { return s.Time.CurrentTick() }

// AIDebugInfo is the AI debug projection: a country's last selected
// goal index and whether its most recent cycle timed out.
type AIDebugInfo struct {
	LastGoalIndex uint16
	TimedOut      bool
}

// AIDebug returns a country's current AI scheduler state.
func (s *State) AIDebug(country ids.CountryID) AIDebugInfo {
	st := s.AISched.StateFor(country)
	return AIDebugInfo{LastGoalIndex: st.LastGoalIndex, TimedOut: st.TimedOut != 0}
}
