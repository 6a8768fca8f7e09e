// Package country implements the country registry: a stable tag<->ID
// mapping plus hot per-country data (color, flags) kept apart from cold
// data (named-entity registries, history), separating frequently-touched
// columns from auxiliary blob fields.
package country

import "github.com/archon-sim/core/internal/ids"

// Hot is the frequently-accessed per-country record.
type Hot struct {
	ColorRGB uint32
	Flags    uint16
}

// Cold is rarely-accessed auxiliary data, kept out of the hot array so hot
// scans (AI bucketing, province ownership scans) stay cache-friendly.
type Cold struct {
	DisplayName string
	History     []string
}

// Store holds the country registry. Country IDs are dense and stable for
// the session once assigned at scenario load.
type Store struct {
	tagToID map[string]ids.CountryID
	idToTag []string // index 0 unused (NoCountry sentinel)
	hot     []Hot
	cold    []Cold
}

// NewStore preallocates a registry for the given scenario tags, in tag
// order; index 0 is reserved for ids.NoCountry and carries no entry.
func NewStore(tags []string, hots []Hot) *Store {
	n := len(tags) + 1
	s := &Store{
		tagToID: make(map[string]ids.CountryID, len(tags)),
		idToTag: make([]string, n),
		hot:     make([]Hot, n),
		cold:    make([]Cold, n),
	}
	for i, tag := range tags {
		id := ids.CountryID(i + 1)
		s.tagToID[tag] = id
		s.idToTag[id] = tag
		if i < len(hots) {
			s.hot[id] = hots[i]
		}
	}
	return s
}

// Count returns the number of registered countries (excluding the sentinel).
func (s *Store) Count() int { return len(s.idToTag) - 1 }

// IDForTag resolves a country tag to its dense ID.
func (s *Store) IDForTag(tag string) (ids.CountryID, bool) {
	id, ok := s.tagToID[tag]
	return id, ok
}

// TagForID resolves a dense ID back to its tag.
func (s *Store) TagForID(id ids.CountryID) (string, bool) {
	if int(id) <= 0 || int(id) >= len(s.idToTag) {
		return "", false
	}
	return s.idToTag[id], true
}

// Exists reports whether id names a registered country.
func (s *Store) Exists(id ids.CountryID) bool {
	return int(id) > 0 && int(id) < len(s.idToTag)
}

// GetHot returns the hot record for id.
func (s *Store) GetHot(id ids.CountryID) Hot {
	if !s.Exists(id) {
		return Hot{}
	}
	return s.hot[id]
}

// SetHot overwrites the hot record for id.
func (s *Store) SetHot(id ids.CountryID, h Hot) bool {
	if !s.Exists(id) {
		return false
	}
	s.hot[id] = h
	return true
}

// GetCold returns the cold record for id.
func (s *Store) GetCold(id ids.CountryID) Cold {
	if !s.Exists(id) {
		return Cold{}
	}
	return s.cold[id]
}

// AppendHistory appends an entry to a country's cold-data history log.
func (s *Store) AppendHistory(id ids.CountryID, entry string) bool {
	if !s.Exists(id) {
		return false
	}
	s.cold[id].History = append(s.cold[id].History, entry)
	return true
}

// RestoreHistory replaces a country's cold-data history wholesale, used
// only by save/load to reconstruct post-load state without re-deriving
// it from replayed events.
func (s *Store) RestoreHistory(id ids.CountryID, history []string) bool {
	if !s.Exists(id) {
		return false
	}
	s.cold[id].History = history
	return true
}

// AllIDs returns every registered country ID in dense order.
func (s *Store) AllIDs() []ids.CountryID {
	out := make([]ids.CountryID, 0, s.Count())
	for i := 1; i < len(s.idToTag); i++ {
		out = append(out, ids.CountryID(i))
	}
	return out
}
