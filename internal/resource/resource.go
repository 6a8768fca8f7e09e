// Package resource implements per-entity resource ledgers and timed,
// decaying modifiers. Diplomacy keeps its own opinion modifiers
// (diplomacy.OpinionModifier) and does not use this package's Modifier.
package resource

import (
	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/ids"
)

// EntityID is a generic key for whichever subsystem owns a resource
// bucket: a country, a province, or any other dense ID space the caller
// chooses. The resource ledger itself is domain-agnostic.
type EntityID uint32

// Key addresses one resource bucket.
type Key struct {
	Entity EntityID
	Type   ids.ModifierTypeID
}

// Ledger is a sparse (entity, resourceType) -> FixedPoint64 map. Most
// entities hold only a handful of resource types, so a map beats a dense
// table here, unlike ProvinceState, which is dense over every province.
type Ledger struct {
	balances map[Key]fixedpoint.FixedPoint64
}

// NewLedger constructs an empty resource ledger.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[Key]fixedpoint.FixedPoint64)}
}

// Get returns the current balance for (entity, resourceType), 0 if unset.
func (l *Ledger) Get(entity EntityID, resourceType ids.ModifierTypeID) fixedpoint.FixedPoint64 {
	return l.balances[Key{entity, resourceType}]
}

// Set overwrites a balance directly.
func (l *Ledger) Set(entity EntityID, resourceType ids.ModifierTypeID, v fixedpoint.FixedPoint64) {
	l.balances[Key{entity, resourceType}] = v
}

// Add adjusts a balance by delta, saturating per FixedPoint64 semantics.
func (l *Ledger) Add(entity EntityID, resourceType ids.ModifierTypeID, delta fixedpoint.FixedPoint64) fixedpoint.FixedPoint64 {
	k := Key{entity, resourceType}
	v := l.balances[k].Add(delta)
	l.balances[k] = v
	return v
}

// All returns a copy of every recorded balance (zero ones included), for save/load
// persistence. Iteration order is unspecified; callers needing
// determinism sort the result themselves.
func (l *Ledger) All() map[Key]fixedpoint.FixedPoint64 {
	out := make(map[Key]fixedpoint.FixedPoint64, len(l.balances))
	for k, v := range l.balances {
		out[k] = v
	}
	return out
}

// Restore replaces the ledger's balances wholesale. Used only by
// save/load, never during steady-state simulation.
func (l *Ledger) Restore(balances map[Key]fixedpoint.FixedPoint64) {
	l.balances = make(map[Key]fixedpoint.FixedPoint64, len(balances))
	for k, v := range balances {
		l.balances[k] = v
	}
}

// Modifier is a timed, linearly decaying adjustment: diplomatic opinion
// boosts, temporary economic penalties, and the like. Its current value
// at tick T is:
//
//	magnitude * (1 - (T - startTick) / decayTicks)
//
// A DecayTicks of 0 means constant (never decays) until explicitly
// removed. A modifier is expired once T - startTick >= DecayTicks (for
// DecayTicks > 0).
type Modifier struct {
	StartTick  ids.Tick
	DecayTicks uint32
	Magnitude  fixedpoint.FixedPoint64
}

// IsExpired reports whether the modifier has fully decayed by tick t.
func (m Modifier) IsExpired(t ids.Tick) bool {
	if m.DecayTicks == 0 {
		return false
	}
	return uint64(t)-uint64(m.StartTick) >= uint64(m.DecayTicks)
}

// ValueAt computes the modifier's current contribution at tick t. Expired
// modifiers contribute 0; constant modifiers (DecayTicks == 0) always
// contribute their full magnitude.
func (m Modifier) ValueAt(t ids.Tick) fixedpoint.FixedPoint64 {
	if m.DecayTicks == 0 {
		return m.Magnitude
	}
	if m.IsExpired(t) {
		return 0
	}
	elapsed := fixedpoint.FromInt(int64(uint64(t) - uint64(m.StartTick)))
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

// ModifierSet tracks a collection of modifiers against one (entity,
// resourceType) bucket; Sum computes their combined value on demand.
type ModifierSet struct {
	modifiers []Modifier
}

// Add appends a new modifier to the set.
func (ms *ModifierSet) Add(m Modifier) {
	ms.modifiers = append(ms.modifiers, m)
}

// Sum returns the total contribution of all non-expired modifiers at t.
func (ms *ModifierSet) Sum(t ids.Tick) fixedpoint.FixedPoint64 {
	var total fixedpoint.FixedPoint64
	for _, m := range ms.modifiers {
		if !m.IsExpired(t) {
			total = total.Add(m.ValueAt(t))
		}
	}
	return total
}

// Prune removes expired modifiers as of tick t, in place, preserving
// order of the survivors. Call once per tick (or less often) rather than
// on every Sum, so Sum stays a pure read.
func (ms *ModifierSet) Prune(t ids.Tick) {
	survivors := ms.modifiers[:0]
	for _, m := range ms.modifiers {
		if !m.IsExpired(t) {
			survivors = append(survivors, m)
		}
	}
	ms.modifiers = survivors
}

// Len reports the number of modifiers currently tracked, expired or not.
func (ms *ModifierSet) Len() int { return len(ms.modifiers) }
