package military

import (
	"github.com/archon-sim/core/internal/adjacency"
	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/ids"
	"github.com/archon-sim/core/internal/pathfind"
)

const hoursPerDay = 24

// flatTerrainCost charges one edge-hop per adjacency edge; every unit
// type multiplies this by its own TraversalDays via HoursPerLeg on the
// resulting MovementOrder rather than through the cost calculator, since
// the path itself is terrain-agnostic until a richer terrain-cost table
// is introduced.
type flatTerrainCost struct {
	passable pathfind.Predicate
}

func (c flatTerrainCost) Cost(from, to ids.ProvinceID, ctx pathfind.Context) (fixedpoint.FixedPoint64, error) {
	if c.passable != nil && !c.passable(to) {
		return 0, pathfind.Blocked
	}
	return fixedpoint.FromInt(1), nil
}

func (c flatTerrainCost) Hash() uint64 { return 1 }

// MoveUnitResult reports the outcome of issuing a move command.
type MoveUnitResult int

const (
	MoveAccepted MoveUnitResult = iota
	MoveNoPath
	MoveForbidden
	MoveUnknownUnit
)

// MoveUnit resolves a path from the unit's current province to
// destination via graph (restricted by passable, typically ownership or
// terrain checks), and on success installs a MovementOrder with
// ticksRemaining set from unitType's TraversalDays.
func (s *Store) MoveUnit(graph *adjacency.Graph, id ids.UnitID, destination ids.ProvinceID, unitType UnitType, passable pathfind.Predicate) MoveUnitResult {
	unit, ok := s.Get(id)
	if !ok {
		return MoveUnknownUnit
	}
	calc := flatTerrainCost{passable: passable}
	result := pathfind.FindPath(graph, unit.ProvinceID, destination, calc, pathfind.Context{QueryingCountry: unit.OwnerID}, pathfind.ZeroHeuristic, pathfind.Options{})
	switch result.Kind {
	case pathfind.ResultForbidden:
		return MoveForbidden
	case pathfind.ResultNoPath:
		return MoveNoPath
	}
	hoursPerLeg := unitType.TraversalDays * hoursPerDay
	if hoursPerLeg == 0 {
		hoursPerLeg = hoursPerDay
	}
	s.orders[id] = &MovementOrder{
		Waypoints:      result.Waypoints,
		WaypointIndex:  0,
		TicksRemaining: hoursPerLeg,
		HoursPerLeg:    hoursPerLeg,
	}
	return MoveAccepted
}

// AdvanceHour processes one hourly tick of the movement queue: every unit
// with a pending order has its timer decremented; on reaching zero the
// unit advances to its next waypoint. revalidate is called with the
// destination province before the unit steps onto it; if it returns
// false (passability changed mid-journey) the unit halts in place and a
// cancellation event is emitted instead of a move event.
func (s *Store) AdvanceHour(tick ids.Tick, revalidate func(ids.ProvinceID) bool) ([]UnitMovedEvent, []MovementCancelledEvent) {
	var moved []UnitMovedEvent
	var cancelled []MovementCancelledEvent

	// Iterate in unit-ID order for deterministic event ordering.
	ids_ := make([]ids.UnitID, 0, len(s.orders))
	for id := range s.orders {
		ids_ = append(ids_, id)
	}
	sortUnitIDs(ids_)

	for _, id := range ids_ {
		order := s.orders[id]
		if order.Done() {
			delete(s.orders, id)
			continue
		}
		if order.TicksRemaining > 1 {
			order.TicksRemaining--
			continue
		}
		dest, ok := order.CurrentDestination()
		if !ok {
			delete(s.orders, id)
			continue
		}
		if revalidate != nil && !revalidate(dest) {
			unit := s.units[id]
			cancelled = append(cancelled, MovementCancelledEvent{Unit: id, Stopped: unit.ProvinceID, Tick: tick})
			delete(s.orders, id)
			continue
		}
		from := s.units[id].ProvinceID
		s.units[id].ProvinceID = dest
		order.WaypointIndex++
		order.TicksRemaining = order.HoursPerLeg
		moved = append(moved, UnitMovedEvent{Unit: id, From: from, To: dest, Tick: tick})
		if order.Done() {
			delete(s.orders, id)
		}
	}
	return moved, cancelled
}

// HasOrder reports whether a unit currently has a pending movement order.
func (s *Store) HasOrder(id ids.UnitID) bool {
	_, ok := s.orders[id]
	return ok
}

func sortUnitIDs(s []ids.UnitID) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}
