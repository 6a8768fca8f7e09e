// Package military implements unit state, movement orders, and the hourly
// movement-queue tick: a dense unit table driven by pathfinding rather
// than straight-line distance/fuel-cost geometry.
package military

import (
	"github.com/archon-sim/core/internal/ids"
)

// UnitState is the dense, fixed-size per-unit record (8 bytes).
type UnitState struct {
	ProvinceID ids.ProvinceID // 2 bytes
	OwnerID    ids.CountryID  // 2 bytes
	Strength   uint16         // 2 bytes, 0-10000 representing 0-100.00%
	Morale     uint16         // 2 bytes, 0-10000
}

// UnitType describes the traversal cost of a unit kind in whole days per
// adjacency hop; real scenarios register many of these at load time.
type UnitType struct {
	ID            ids.ModifierTypeID
	TraversalDays uint32
}

const (
	fullStrength = 10000
	fullMorale   = 10000
)

// MovementOrder tracks an in-progress move: the remaining waypoints
// (current province first) and the countdown to the next waypoint.
type MovementOrder struct {
	Waypoints      []ids.ProvinceID
	WaypointIndex  int
	TicksRemaining uint32
	HoursPerLeg    uint32
}

// Done reports whether the order has been fully consumed.
func (o *MovementOrder) Done() bool {
	return o.WaypointIndex >= len(o.Waypoints)-1
}

// CurrentDestination returns the next waypoint the unit is travelling
// toward, or false if the order is already complete.
func (o *MovementOrder) CurrentDestination() (ids.ProvinceID, bool) {
	if o.Done() {
		return 0, false
	}
	return o.Waypoints[o.WaypointIndex+1], true
}

// UnitMovedEvent is emitted when a unit completes a waypoint leg.
type UnitMovedEvent struct {
	Unit     ids.UnitID
	From, To ids.ProvinceID
	Tick     ids.Tick
}

// MovementCancelledEvent is emitted when a mid-journey passability change
// forces a unit to halt.
type MovementCancelledEvent struct {
	Unit    ids.UnitID
	Stopped ids.ProvinceID
	Tick    ids.Tick
}

// Store holds the dense unit table plus the sparse movement-order map.
// Most units are not mid-move at any given tick, so movement orders live
// in a map rather than a parallel dense array.
type Store struct {
	units  []UnitState
	free   []ids.UnitID // recycled slots
	orders map[ids.UnitID]*MovementOrder
	nextID ids.UnitID
}

// NewStore constructs an empty unit store.
func NewStore() *Store {
	return &Store{
		units:  []UnitState{{}}, // index 0 reserved for ids.NoUnit
		orders: make(map[ids.UnitID]*MovementOrder),
		nextID: 1,
	}
}

// CreateUnit allocates a new unit in province at strength/morale 100%.
func (s *Store) CreateUnit(province ids.ProvinceID, owner ids.CountryID) ids.UnitID {
	state := UnitState{ProvinceID: province, OwnerID: owner, Strength: fullStrength, Morale: fullMorale}
	if len(s.free) > 0 {
		id := s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
		s.units[id] = state
		return id
	}
	id := s.nextID
	s.nextID++
	s.units = append(s.units, state)
	return id
}

// Get returns a unit's current state.
func (s *Store) Get(id ids.UnitID) (UnitState, bool) {
	if int(id) <= 0 || int(id) >= len(s.units) {
		return UnitState{}, false
	}
	return s.units[id], true
}

// Remove deletes a unit, freeing its slot for reuse, and drops any
// pending movement order.
func (s *Store) Remove(id ids.UnitID) {
	if int(id) <= 0 || int(id) >= len(s.units) {
		return
	}
	s.units[id] = UnitState{}
	delete(s.orders, id)
	s.free = append(s.free, id)
}

// OrderFor returns a unit's pending movement order, if any.
func (s *Store) OrderFor(id ids.UnitID) (MovementOrder, bool) {
	o, ok := s.orders[id]
	if !ok {
		return MovementOrder{}, false
	}
	return *o, true
}

// AllUnits returns the dense unit table as-is, index 0 (the NoUnit
// sentinel slot) included, for save/load serialization.
func (s *Store) AllUnits() []UnitState {
	out := make([]UnitState, len(s.units))
	copy(out, s.units)
	return out
}

// RestoreUnits replaces the store wholesale: the dense unit table, the
// free-slot list, the next-ID counter, and every pending movement order,
// keyed by unit ID. Used only by save/load.
func (s *Store) RestoreUnits(units []UnitState, free []ids.UnitID, nextID ids.UnitID, orders map[ids.UnitID]MovementOrder) {
	s.units = append([]UnitState(nil), units...)
	s.free = append([]ids.UnitID(nil), free...)
	s.nextID = nextID
	s.orders = make(map[ids.UnitID]*MovementOrder, len(orders))
	for id, o := range orders {
		order := o
		s.orders[id] = &order
	}
}

