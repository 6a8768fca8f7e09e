package diplomacy

import (
	"sort"

	"github.com/archon-sim/core/internal/ids"
)

// AreAllied reports whether a and b hold an active alliance.
func (s *Store) AreAllied(a, b ids.CountryID) bool {
	rel, ok := s.relations[ids.MakeRelationKey(a, b)]
	return ok && rel.Treaties.Has(FlagAlliance)
}

// HasNAP reports whether a and b hold a non-aggression pact.
func (s *Store) HasNAP(a, b ids.CountryID) bool {
	rel, ok := s.relations[ids.MakeRelationKey(a, b)]
	return ok && rel.Treaties.Has(FlagNonAggressionPact)
}

// IsGuaranteeing reports whether guarantor is guaranteeing guaranteed's
// independence.
func (s *Store) IsGuaranteeing(guarantor, guaranteed ids.CountryID) bool {
	rel, ok := s.relations[ids.MakeRelationKey(guarantor, guaranteed)]
	if !ok {
		return false
	}
	key := ids.MakeRelationKey(guarantor, guaranteed)
	lo, _ := key.Split()
	if lo == guarantor {
		return rel.Treaties.Has(FlagGuaranteeFrom1To2)
	}
	return rel.Treaties.Has(FlagGuaranteeFrom2To1)
}

// HasMilitaryAccess reports whether grantor has granted military access
// to recipient.
func (s *Store) HasMilitaryAccess(grantor, recipient ids.CountryID) bool {
	rel, ok := s.relations[ids.MakeRelationKey(grantor, recipient)]
	if !ok {
		return false
	}
	key := ids.MakeRelationKey(grantor, recipient)
	lo, _ := key.Split()
	if lo == grantor {
		return rel.Treaties.Has(FlagMilitaryAccessFrom1To2)
	}
	return rel.Treaties.Has(FlagMilitaryAccessFrom2To1)
}

// IsAtWar reports whether a and b are currently at war.
func (s *Store) IsAtWar(a, b ids.CountryID) bool {
	rel, ok := s.relations[ids.MakeRelationKey(a, b)]
	return ok && rel.AtWar
}

// GetAllies returns the countries directly allied with id, sorted by
// CountryID for deterministic iteration.
func (s *Store) GetAllies(id ids.CountryID) []ids.CountryID {
	var allies []ids.CountryID
	for key, rel := range s.relations {
		if !rel.Treaties.Has(FlagAlliance) {
			continue
		}
		lo, hi := key.Split()
		switch id {
		case lo:
			allies = append(allies, hi)
		case hi:
			allies = append(allies, lo)
		}
	}
	sort.Slice(allies, func(i, j int) bool { return allies[i] < allies[j] })
	return allies
}

// GetAlliesRecursive performs a BFS over the alliance graph starting from
// id, returning every country transitively allied (through a chain of
// alliances), excluding id itself. Visited-set tracking terminates on
// cycles.
func (s *Store) GetAlliesRecursive(id ids.CountryID) []ids.CountryID {
	visited := map[ids.CountryID]struct{}{id: {}}
	queue := []ids.CountryID{id}
	var result []ids.CountryID

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, ally := range s.GetAllies(cur) {
			if _, seen := visited[ally]; seen {
				continue
			}
			visited[ally] = struct{}{}
			result = append(result, ally)
			queue = append(queue, ally)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// WarDeclineReason explains why DeclareWar was rejected.
type WarDeclineReason int

const (
	WarOK WarDeclineReason = iota
	WarSameCountry
	WarAlreadyAtWar
	WarNonAggressionPact
	WarAllianceActive
)

// ValidateDeclareWar runs the four O(1) checks without mutating state,
// so DeclareWarCommand.validate can call it directly.
func (s *Store) ValidateDeclareWar(attacker, defender ids.CountryID) WarDeclineReason {
	if attacker == defender {
		return WarSameCountry
	}
	if s.IsAtWar(attacker, defender) {
		return WarAlreadyAtWar
	}
	if s.HasNAP(attacker, defender) {
		return WarNonAggressionPact
	}
	if s.AreAllied(attacker, defender) {
		return WarAllianceActive
	}
	return WarOK
}

// DeclareWar applies a validated war declaration: sets AtWar and clears
// the alliance/NAP bits (their breaking penalties are issued as separate
// commands by the handler, not applied here).
func (s *Store) DeclareWar(attacker, defender ids.CountryID) WarDeclineReason {
	if reason := s.ValidateDeclareWar(attacker, defender); reason != WarOK {
		return reason
	}
	rel := s.getOrCreate(attacker, defender)
	rel.AtWar = true
	rel.Treaties &^= FlagAlliance | FlagNonAggressionPact
	return WarOK
}

// MakePeace clears the war state between a and b. It is a no-op (but not
// an error) if the pair was already at peace.
func (s *Store) MakePeace(a, b ids.CountryID) {
	rel := s.getOrCreate(a, b)
	rel.AtWar = false
}
