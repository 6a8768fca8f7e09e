package saveload

import "errors"

// PostLoadFinalize is the payload for a load-completed signal carrying
// the restored tick. Nothing in the core publishes it: a completed load
// (including controlapi's quickload) emits no event on the bus.
type PostLoadFinalize struct {
	CurrentTick uint64
}

// CommandApplier replays a single decoded command against already-
// restored state; ReplayCommandLog's caller supplies how to decode and
// apply each logged command without saveload importing the command
// package's concrete types.
type CommandApplier func(wire []byte) error

// ErrDeterminismBreak is returned (never panicked) when a dev-mode
// replay's recomputed checksum disagrees with the save's recorded one.
// Logged as non-fatal, not treated as a load failure.
var ErrDeterminismBreak = errors.New("saveload: checksum mismatch after command log replay")

// ReplayCommandLog re-applies every logged command in order via apply,
// then compares checksumFn's result against f.ExpectedChecksum. This is
// a dev-mode-only verification pass: callers should log, not abort on,
// ErrDeterminismBreak.
func ReplayCommandLog(f File, apply CommandApplier, checksumFn func() uint32) error {
	for _, wire := range f.CommandLog {
		if err := apply(wire); err != nil {
			return err
		}
	}
	if checksumFn() != f.ExpectedChecksum {
		return ErrDeterminismBreak
	}
	return nil
}
