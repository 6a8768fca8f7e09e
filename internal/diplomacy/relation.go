// Package diplomacy implements relations, treaties, and opinion modifiers
// between countries: a sparse flat RelationData table, a bitfield treaty
// authority, and a three-phase parallel decay pipeline for the opinion
// modifier array. The parallel Mark/Rebuild phases use a
// goroutine-per-partition fan-out joined with a WaitGroup.
package diplomacy

import (
	"sort"

	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/ids"
)

// TreatyFlags packs the 8 directional/non-directional treaty bits for a
// country pair.
type TreatyFlags uint8

const (
	FlagAlliance TreatyFlags = 1 << iota
	FlagNonAggressionPact
	FlagGuaranteeFrom1To2
	FlagGuaranteeFrom2To1
	FlagMilitaryAccessFrom1To2
	FlagMilitaryAccessFrom2To1
	// two bits reserved
)

// Has reports whether flag is set.
func (f TreatyFlags) Has(flag TreatyFlags) bool { return f&flag != 0 }

// RelationData is the 16-byte (logical) record for one unordered country
// pair, with Country1 < Country2 always.
type RelationData struct {
	Country1    ids.CountryID
	Country2    ids.CountryID
	BaseOpinion fixedpoint.FixedPoint64
	AtWar       bool
	Treaties    TreatyFlags
}

const (
	MinOpinion = -200
	MaxOpinion = 200
)

// OpinionModifier is an 18-byte (logical) timed modifier record tagged by
// the relationship it applies to.
type OpinionModifier struct {
	Key         ids.RelationKey
	ModifierID  ids.ModifierTypeID
	AppliedTick ids.Tick
	DecayTicks  uint32
	Magnitude   fixedpoint.FixedPoint64
}

func (m OpinionModifier) isExpired(t ids.Tick) bool {
	if m.DecayTicks == 0 {
		return false
	}
	return uint64(t)-uint64(m.AppliedTick) >= uint64(m.DecayTicks)
}

func (m OpinionModifier) valueAt(t ids.Tick) fixedpoint.FixedPoint64 {
	if m.DecayTicks == 0 {
		return m.Magnitude
	}
	if m.isExpired(t) {
		return 0
	}
	elapsed := fixedpoint.FromInt(int64(uint64(t) - uint64(m.AppliedTick)))
	total := fixedpoint.FromInt(int64(m.DecayTicks))
	fraction, err := elapsed.Div(total)
	if err != nil {
		return 0
	}
	remaining := fixedpoint.FromInt(1).Sub(fraction)
	result, err := m.Magnitude.Mul(remaining)
	if err != nil {
		return 0
	}
	return result
}

// indexRange is the [start, end) slice of allModifiers belonging to one
// relationship key, the value side of the relationshipKey -> range index.
type indexRange struct {
	start, end int
}

// Store is the diplomacy subsystem: sparse relations, the flat
// append-only modifier array, and its derived index.
type Store struct {
	relations    map[ids.RelationKey]*RelationData
	allModifiers []OpinionModifier
	rangeIndex   map[ids.RelationKey]indexRange
}

// NewStore constructs an empty diplomacy store.
func NewStore() *Store {
	return &Store{
		relations:  make(map[ids.RelationKey]*RelationData),
		rangeIndex: make(map[ids.RelationKey]indexRange),
	}
}

// getOrCreate returns the relation record for (a,b), creating a
// peace-state record with no treaties if one does not yet exist.
func (s *Store) getOrCreate(a, b ids.CountryID) *RelationData {
	key := ids.MakeRelationKey(a, b)
	rel, ok := s.relations[key]
	if !ok {
		lo, hi := key.Split()
		rel = &RelationData{Country1: lo, Country2: hi}
		s.relations[key] = rel
	}
	return rel
}

// Relation returns the relation record for (a,b) if the pair has ever
// interacted.
func (s *Store) Relation(a, b ids.CountryID) (RelationData, bool) {
	rel, ok := s.relations[ids.MakeRelationKey(a, b)]
	if !ok {
		return RelationData{}, false
	}
	return *rel, true
}

// Opinion returns the current effective opinion: base opinion plus the
// sum of all non-expired modifiers for the pair, clamped to
// [MinOpinion, MaxOpinion].
func (s *Store) Opinion(a, b ids.CountryID, t ids.Tick) fixedpoint.FixedPoint64 {
	base := fixedpoint.FixedPoint64(0)
	if rel, ok := s.relations[ids.MakeRelationKey(a, b)]; ok {
		base = rel.BaseOpinion
	}
	key := ids.MakeRelationKey(a, b)
	if r, ok := s.rangeIndex[key]; ok {
		for _, m := range s.allModifiers[r.start:r.end] {
			if !m.isExpired(t) {
				base = base.Add(m.valueAt(t))
			}
		}
	}
	return fixedpoint.Clamp(base, fixedpoint.FromInt(MinOpinion), fixedpoint.FromInt(MaxOpinion))
}

// AddModifier inserts a new opinion modifier, keeping allModifiers
// grouped into contiguous per-key runs so rangeIndex stays a valid
// start/end slice at all times, not just after the next decay pass.
// A brand-new key is appended at the end; an existing key's modifier is
// inserted at the end of that key's current run, shifting later entries
// right by one and adjusting every other range accordingly. This is
// O(n) per insert, but insertion is rare relative to Opinion() reads.
func (s *Store) AddModifier(m OpinionModifier) {
	r, ok := s.rangeIndex[m.Key]
	if !ok {
		start := len(s.allModifiers)
		s.allModifiers = append(s.allModifiers, m)
		s.rangeIndex[m.Key] = indexRange{start: start, end: start + 1}
		return
	}
	insertAt := r.end
	s.allModifiers = append(s.allModifiers, OpinionModifier{})
	copy(s.allModifiers[insertAt+1:], s.allModifiers[insertAt:len(s.allModifiers)-1])
	s.allModifiers[insertAt] = m
	for k, rr := range s.rangeIndex {
		if k == m.Key {
			continue
		}
		if rr.start >= insertAt {
			rr.start++
		}
		if rr.end >= insertAt {
			rr.end++
		}
		s.rangeIndex[k] = rr
	}
	s.rangeIndex[m.Key] = indexRange{start: r.start, end: r.end + 1}
}

// SetTreaty sets or clears flag on the relation between a and b.
func (s *Store) SetTreaty(a, b ids.CountryID, flag TreatyFlags, set bool) {
	rel := s.getOrCreate(a, b)
	if set {
		rel.Treaties |= flag
	} else {
		rel.Treaties &^= flag
	}
}

// AllRelations returns every recorded relation, sorted by relation key
// so save/load and other callers see a deterministic order.
func (s *Store) AllRelations() []RelationData {
	out := make([]RelationData, 0, len(s.relations))
	for _, rel := range s.relations {
		out = append(out, *rel)
	}
	sort.Slice(out, func(i, j int) bool {
		return ids.MakeRelationKey(out[i].Country1, out[i].Country2) < ids.MakeRelationKey(out[j].Country1, out[j].Country2)
	})
	return out
}

// AllModifiers returns the flat modifier array in its current layout
// (contiguous per-key runs), the exact bytes save/load persists.
func (s *Store) AllModifiers() []OpinionModifier {
	out := make([]OpinionModifier, len(s.allModifiers))
	copy(out, s.allModifiers)
	return out
}

// Restore replaces the store's relations and modifier array wholesale
// and reconstructs rangeIndex from the restored layout; used only by
// save/load, never during steady-state simulation.
func (s *Store) Restore(relations []RelationData, modifiers []OpinionModifier) {
	s.relations = make(map[ids.RelationKey]*RelationData, len(relations))
	for i := range relations {
		rel := relations[i]
		s.relations[ids.MakeRelationKey(rel.Country1, rel.Country2)] = &rel
	}
	s.allModifiers = append([]OpinionModifier(nil), modifiers...)
	s.RebuildIndex()
}

