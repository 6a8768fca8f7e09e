// Package timemanager drives the fixed-point accumulator that advances
// the in-game clock and publishes calendar rollover events.
package timemanager

import (
	"errors"

	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/gametime"
	"github.com/archon-sim/core/internal/ids"
)

// Speed is one of the fixed, exact-fraction speed multipliers. Never a
// floating-point literal: each constant is expressed as a ratio of two
// small integers via fromRatio.
type Speed int

const (
	SpeedPaused Speed = iota
	SpeedHalf
	SpeedNormal
	SpeedDouble
	SpeedFast
)

var speedNumerators = map[Speed]int64{
	SpeedPaused: 0,
	SpeedHalf:   1,
	SpeedNormal: 1,
	SpeedDouble: 2,
	SpeedFast:   5,
}

var speedDenominators = map[Speed]int64{
	SpeedPaused: 1,
	SpeedHalf:   2,
	SpeedNormal: 1,
	SpeedDouble: 1,
	SpeedFast:   1,
}

func fromRatio(num, den int64) fixedpoint.FixedPoint64 {
	if den == 0 {
		return 0
	}
	v, err := fixedpoint.FromInt(num).Div(fixedpoint.FromInt(den))
	if err != nil {
		return 0
	}
	return v
}

// Multiplier returns the exact fixed-point value of a speed setting.
func Multiplier(s Speed) fixedpoint.FixedPoint64 {
	return fromRatio(speedNumerators[s], speedDenominators[s])
}

// RolloverEvents is the set of calendar events a single Advance call may
// publish, in fixed precedence order: hour, then day, then weekly
// (every 7 days), then monthly, then yearly.
type RolloverEvents struct {
	Hour    bool
	Day     bool
	Week    bool
	Month   bool
	Year    bool
	NewTick ids.Tick
}

// ErrBackwardSync is returned by SynchronizeToTick when target precedes
// the current tick; multiplayer resync is forward-only.
var ErrBackwardSync = errors.New("timemanager: synchronize_to_tick target precedes current tick")

// Manager owns the fixed-point accumulator and the current tick. It is
// not safe for concurrent use; callers serialize ticks themselves (the
// gamestate orchestrator holds the lock).
type Manager struct {
	accumulator     fixedpoint.FixedPoint64
	currentTick     ids.Tick
	speed           Speed
	hoursPerRealSec fixedpoint.FixedPoint64
}

// New constructs a Manager starting at startTick, with the normal speed
// and hoursPerRealSecond controlling how fast real time maps to game
// hours at 1x speed.
func New(startTick ids.Tick, hoursPerRealSecond fixedpoint.FixedPoint64) *Manager {
	return &Manager{
		currentTick:     startTick,
		speed:           SpeedNormal,
		hoursPerRealSec: hoursPerRealSecond,
	}
}

// CurrentTick returns the manager's current hour counter.
func (m *Manager) CurrentTick() ids.Tick { return m.currentTick }

// SetSpeed changes the active speed multiplier; SpeedPaused halts
// accumulation entirely.
func (m *Manager) SetSpeed(s Speed) { m.speed = s }

// Pause is shorthand for SetSpeed(SpeedPaused).
func (m *Manager) Pause() { m.speed = SpeedPaused }

// Advance feeds realDelta (in FixedPoint64 real seconds) into the
// accumulator and advances the in-game clock by whole hours, publishing
// one RolloverEvents per hour that elapses (callers typically care only
// about the last one, or fold them, since multiple hours can elapse in
// one Advance at high speed/low tick rate).
func (m *Manager) Advance(realDelta fixedpoint.FixedPoint64) []RolloverEvents {
	mult := Multiplier(m.speed)
	delta, err := realDelta.Mul(mult)
	if err != nil {
		return nil
	}
	delta, err = delta.Mul(m.hoursPerRealSec)
	if err != nil {
		return nil
	}
	m.accumulator = m.accumulator.Add(delta)

	var events []RolloverEvents
	one := fixedpoint.FromInt(1)
	for m.accumulator >= one {
		m.accumulator = m.accumulator.Sub(one)
		m.currentTick++
		events = append(events, m.rolloverAt(m.currentTick))
	}
	return events
}

func (m *Manager) rolloverAt(t ids.Tick) RolloverEvents {
	return RolloverEvents{
		Hour:    true,
		Day:     gametime.IsDayRollover(t),
		Week:    gametime.IsWeekRollover(t),
		Month:   gametime.IsMonthRollover(t),
		Year:    gametime.IsYearRollover(t),
		NewTick: t,
	}
}

// SnapshotState is the persisted clock state: current tick, active
// speed, and the fractional-hour accumulator, exact enough to resume
// ticking bit-identically after a load.
type SnapshotState struct {
	CurrentTick ids.Tick
	Speed       Speed
	Accumulator fixedpoint.FixedPoint64
}

// Snapshot returns the manager's current persisted state.
func (m *Manager) Snapshot() SnapshotState {
	return SnapshotState{CurrentTick: m.currentTick, Speed: m.speed, Accumulator: m.accumulator}
}

// Restore replaces the manager's state wholesale, without publishing
// rollover events. Used only by save/load.
func (m *Manager) Restore(s SnapshotState) {
	m.currentTick = s.CurrentTick
	m.speed = s.Speed
	m.accumulator = s.Accumulator
}

// SetCurrentTick forcibly sets the clock, used only at scenario load or
// by tooling; it does not publish rollover events.
func (m *Manager) SetCurrentTick(t ids.Tick) {
	m.currentTick = t
	m.accumulator = 0
}

// SynchronizeToTick fast-forwards hour-by-hour to target, publishing a
// RolloverEvents per hour crossed, for multiplayer resync. Moving
// backward is a hard error: the core never un-advances authoritative
// state.
func (m *Manager) SynchronizeToTick(target ids.Tick) ([]RolloverEvents, error) {
	if target < m.currentTick {
		return nil, ErrBackwardSync
	}
	var events []RolloverEvents
	for m.currentTick < target {
		m.currentTick++
		events = append(events, m.rolloverAt(m.currentTick))
	}
	m.accumulator = 0
	return events, nil
}
