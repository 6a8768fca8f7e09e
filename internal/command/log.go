package command

import "github.com/archon-sim/core/internal/ids"

// LoggedCommand pairs a serialized command with the tick it was applied
// on, the unit the command log replays in order.
type LoggedCommand struct {
	Tick ids.Tick
	Wire []byte
}

// Log is a ring buffer retaining the most recent RetainTicks ticks'
// worth of commands for replay verification. Capacity is derived from
// RetainTicks and an assumed average commands-per-tick figure, so the
// backing array is pre-sized once and never reallocated in steady
// state.
type Log struct {
	RetainTicks uint32

	entries []LoggedCommand
	head    int // next write position
	size    int // number of valid entries, capped at len(entries)
}

// estimatedCommandsPerTick is the default assumed load used to size the
// ring when the caller does not supply an explicit capacity; chosen as a
// round, generous figure for a few hundred concurrently-active AI
// countries each issuing a handful of commands per tick.
const estimatedCommandsPerTick = 60

// NewLog constructs a ring buffer retaining retainTicks ticks' worth of
// commands, sized at retainTicks * estimatedCommandsPerTick entries.
func NewLog(retainTicks uint32) *Log {
	capacity := int(retainTicks) * estimatedCommandsPerTick
	if capacity <= 0 {
		capacity = estimatedCommandsPerTick
	}
	return &Log{
		RetainTicks: retainTicks,
		entries:     make([]LoggedCommand, capacity),
	}
}

// Append records a command applied at tick t, evicting the oldest entry
// if the ring is full.
func (l *Log) Append(t ids.Tick, wire []byte) {
	l.entries[l.head] = LoggedCommand{Tick: t, Wire: wire}
	l.head = (l.head + 1) % len(l.entries)
	if l.size < len(l.entries) {
		l.size++
	}
}

// Since returns every logged command with Tick >= fromTick, in
// application order, for replay verification against a save checksum.
func (l *Log) Since(fromTick ids.Tick) []LoggedCommand {
	var out []LoggedCommand
	start := (l.head - l.size + len(l.entries)) % len(l.entries)
	for i := 0; i < l.size; i++ {
		idx := (start + i) % len(l.entries)
		if l.entries[idx].Tick >= fromTick {
			out = append(out, l.entries[idx])
		}
	}
	return out
}

// Len reports the number of commands currently retained.
func (l *Log) Len() int { return l.size }

// Capacity reports the ring's fixed entry capacity.
func (l *Log) Capacity() int { return len(l.entries) }

// OldestTick reports the tick of the oldest command still retained in
// the ring, used by save/load to decide whether the log covers enough
// history to verify a checksum against a given save point. Returns false
// if the log is empty.
func (l *Log) OldestTick() (ids.Tick, bool) {
	if l.size == 0 {
		return 0, false
	}
	start := (l.head - l.size + len(l.entries)) % len(l.entries)
	return l.entries[start].Tick, true
}
