// Package province implements the flat, double-buffered ProvinceState
// table: the primary unit of ownership and gameplay. Every province
// (including sea and unowned) occupies a slot in a dense array indexed by
// province_index, not by ProvinceID. IDs translate to indices once at
// scenario load and never again, so steady-state lookups are a single array
// access with no allocation.
package province

import "github.com/archon-sim/core/internal/ids"

// Flags bits packed into ProvinceState.Flags.
const (
	FlagSea uint16 = 1 << iota
	FlagOccupied
)

// State is the exact 8-byte authoritative record for one province.
type State struct {
	OwnerID      ids.CountryID
	ControllerID ids.CountryID
	TerrainType  ids.TerrainID
	Flags        uint16
}

// IsUnowned reports whether the province has no owning country.
func (s State) IsUnowned() bool { return s.OwnerID == ids.NoCountry }

// IsOccupied reports whether the controller differs from the owner.
func (s State) IsOccupied() bool {
	return !s.IsUnowned() && s.ControllerID != s.OwnerID
}

// IsSea reports whether the scenario flagged this province as sea.
func (s State) IsSea() bool { return s.Flags&FlagSea != 0 }

// OwnershipChangedEvent is emitted only when SetOwner changes the owner to a
// genuinely different value. Same-value writes are a documented no-op and
// never emit.
type OwnershipChangedEvent struct {
	Province ids.ProvinceID
	OldOwner ids.CountryID
	NewOwner ids.CountryID
	Tick     ids.Tick
}

// Store is the double-buffered province table. READ is exposed to every
// query; WRITE absorbs command mutations; SwapBuffers at the tick
// barrier copies only dirty slots from WRITE back to READ, matching the
// single-writer/many-reader shared-resource policy of the concurrency
// model.
type Store struct {
	read  []State
	write []State
	index map[ids.ProvinceID]int
	ids   []ids.ProvinceID // index -> ID, parallel to read/write

	dirty map[int]struct{}
}

// NewStore preallocates a store sized for the scenario's province list. The
// store never reallocates after this call: all growth happens here, at
// load, never in steady-state simulation.
func NewStore(provinceIDs []ids.ProvinceID, initial []State) *Store {
	n := len(provinceIDs)
	s := &Store{
		read:  make([]State, n),
		write: make([]State, n),
		index: make(map[ids.ProvinceID]int, n),
		ids:   make([]ids.ProvinceID, n),
		dirty: make(map[int]struct{}, n),
	}
	copy(s.read, initial)
	copy(s.write, initial)
	copy(s.ids, provinceIDs)
	for i, id := range provinceIDs {
		s.index[id] = i
	}
	return s
}

// Count returns the number of province slots.
func (s *Store) Count() int { return len(s.read) }

// GetState returns the READ-buffer state for id. An unknown ID returns the
// documented empty state and is never an error: failure here is not an
// exceptional condition.
func (s *Store) GetState(id ids.ProvinceID) State {
	idx, ok := s.index[id]
	if !ok {
		return State{}
	}
	return s.read[idx]
}

// GetOwner is a convenience accessor over GetState.
func (s *Store) GetOwner(id ids.ProvinceID) ids.CountryID { return s.GetState(id).OwnerID }

// GetController is a convenience accessor over GetState.
func (s *Store) GetController(id ids.ProvinceID) ids.CountryID { return s.GetState(id).ControllerID }

// GetTerrain is a convenience accessor over GetState.
func (s *Store) GetTerrain(id ids.ProvinceID) ids.TerrainID { return s.GetState(id).TerrainType }

// IndexOf exposes the id->index translation for callers (pathfinding,
// adjacency) that must build their own dense arrays.
func (s *Store) IndexOf(id ids.ProvinceID) (int, bool) {
	idx, ok := s.index[id]
	return idx, ok
}

// IDAt returns the province ID owning a given dense index.
func (s *Store) IDAt(idx int) ids.ProvinceID { return s.ids[idx] }

// SetOwner writes the new owner into the WRITE buffer, marks the slot
// dirty, and, only on an actual value change, returns an
// OwnershipChangedEvent for the caller to publish. Sea provinces never
// change ownership; callers are expected to have validated this at the
// command layer, but SetOwner itself stays a pure store mutation with no
// validation, per the command/store split in the concurrency model.
func (s *Store) SetOwner(id ids.ProvinceID, newOwner ids.CountryID, tick ids.Tick) (ids.ProvinceID, *OwnershipChangedEvent, bool) {
	idx, ok := s.index[id]
	if !ok {
		return id, nil, false
	}
	old := s.write[idx].OwnerID
	if old == newOwner {
		return id, nil, true
	}
	s.write[idx].OwnerID = newOwner
	s.dirty[idx] = struct{}{}
	return id, &OwnershipChangedEvent{Province: id, OldOwner: old, NewOwner: newOwner, Tick: tick}, true
}

// SetController writes a new controller (occupation) into the WRITE buffer.
func (s *Store) SetController(id ids.ProvinceID, newController ids.CountryID) bool {
	idx, ok := s.index[id]
	if !ok {
		return false
	}
	if s.write[idx].ControllerID == newController {
		return true
	}
	s.write[idx].ControllerID = newController
	s.dirty[idx] = struct{}{}
	return true
}

// SetTerrain writes a new terrain type into the WRITE buffer.
func (s *Store) SetTerrain(id ids.ProvinceID, newTerrain ids.TerrainID) bool {
	idx, ok := s.index[id]
	if !ok {
		return false
	}
	if s.write[idx].TerrainType == newTerrain {
		return true
	}
	s.write[idx].TerrainType = newTerrain
	s.dirty[idx] = struct{}{}
	return true
}

// GetProvincesOf scans the READ buffer for provinces owned by countryID,
// appending their IDs into the caller-supplied buffer and returning the
// extended slice. A caller that keeps its buffer across calls avoids
// allocation once the buffer has grown to its steady-state capacity.
func (s *Store) GetProvincesOf(countryID ids.CountryID, buf []ids.ProvinceID) []ids.ProvinceID {
	for i, st := range s.read {
		if st.OwnerID == countryID {
			buf = append(buf, s.ids[i])
		}
	}
	return buf
}

// CountProvincesOf is an O(N) scan returning the count only, avoiding the
// allocation GetProvincesOf's buffer append would otherwise need when the
// caller only wants a count.
func (s *Store) CountProvincesOf(countryID ids.CountryID) int {
	n := 0
	for _, st := range s.read {
		if st.OwnerID == countryID {
			n++
		}
	}
	return n
}

// SwapBuffers copies only dirty slots from WRITE to READ, then clears the
// dirty set. Two consecutive calls with no intervening writes are
// equivalent to one (the second call's dirty set is empty).
func (s *Store) SwapBuffers() {
	for idx := range s.dirty {
		s.read[idx] = s.write[idx]
	}
	for idx := range s.dirty {
		delete(s.dirty, idx)
	}
}

// DirtyCount reports the number of slots pending a swap, for diagnostics
// and tests.
func (s *Store) DirtyCount() int { return len(s.dirty) }

// Snapshot returns a copy of the READ buffer in dense-index order, the
// serialization format consumed by the save subsystem.
func (s *Store) Snapshot() []State {
	out := make([]State, len(s.read))
	copy(out, s.read)
	return out
}

// AllIDs returns the dense-index-ordered ID list, stable for the lifetime
// of the store (frozen after scenario load).
func (s *Store) AllIDs() []ids.ProvinceID {
	out := make([]ids.ProvinceID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Restore replaces both buffers wholesale (used only by load, never during
// steady-state simulation) and clears the dirty set.
func (s *Store) Restore(states []State) {
	copy(s.read, states)
	copy(s.write, states)
	for idx := range s.dirty {
		delete(s.dirty, idx)
	}
}
