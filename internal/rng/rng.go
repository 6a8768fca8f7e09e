// Package rng implements the simulation's deterministic random stream: a
// counter-based generator seeded by (scenario seed, tick, stream id) so
// independent parallel jobs can draw numbers without needing to agree on
// an ordering. Each draw hashes the seed and an internal draw counter
// with BLAKE3 to derive a reproducible pseudo-random value.
package rng

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// Stream is a deterministic pseudo-random stream. Two Streams built from the
// same (scenarioSeed, tick, streamID) produce identical output regardless of
// process, platform, or goroutine scheduling: there is no shared mutable
// state between streams, only the monotonic per-stream draw counter.
type Stream struct {
	seed   uint64
	tick   uint64
	stream uint64
	draw   uint64
}

// New builds a stream keyed by the scenario seed, the current tick, and a
// caller-chosen stream identifier (e.g. one per subsystem or per job shard,
// so concurrent jobs never share a counter).
func New(scenarioSeed, tick, streamID uint64) *Stream {
	return &Stream{seed: scenarioSeed, tick: tick, stream: streamID}
}

// next hashes the (seed, tick, stream, draw) tuple with BLAKE3 and advances
// the draw counter. Each call is a pure function of the stream's identity
// and draw index: replaying the same draw sequence always reproduces the
// same bytes.
func (s *Stream) next() [32]byte {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:8], s.seed)
	binary.LittleEndian.PutUint64(buf[8:16], s.tick)
	binary.LittleEndian.PutUint64(buf[16:24], s.stream)
	binary.LittleEndian.PutUint64(buf[24:32], s.draw)
	s.draw++
	return blake3.Sum256(buf[:])
}

// Uint64 draws the next 64-bit value in the stream.
func (s *Stream) Uint64() uint64 {
	h := s.next()
	return binary.LittleEndian.Uint64(h[:8])
}

// Intn draws a uniform value in [0, n). Panics if n <= 0, matching
// math/rand's contract.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with non-positive bound")
	}
	// Rejection sampling keeps the distribution exactly uniform, which
	// plain modulo would not for non-power-of-two n.
	bound := uint64(n)
	limit := (^uint64(0) / bound) * bound
	for {
		v := s.Uint64()
		if v < limit {
			return int(v % bound)
		}
	}
}

// Bool draws a uniform boolean.
func (s *Stream) Bool() bool {
	return s.Uint64()&1 == 1
}

// Fork derives an independent child stream for a sub-computation (e.g. one
// per entity processed within a bucketed job) without consuming the
// parent's draw counter, so fan-out ordering never affects results.
func (s *Stream) Fork(substream uint64) *Stream {
	return &Stream{seed: s.seed, tick: s.tick, stream: s.stream*31 + substream + 1}
}
