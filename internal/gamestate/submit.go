package gamestate

import (
	"github.com/archon-sim/core/internal/command"
)

// signatureInvalidOutcome is returned by Submit when RequireSignatures
// is set and a Signed envelope's signature does not verify.
var signatureInvalidOutcome = command.Rejected(command.ReasonForbidden, "signature verification failed")

// RequireSignatures gates whether Submit verifies a Signed envelope's
// ed25519 signature before decoding it. Single-process/local-only
// deployments leave this false; anything accepting commands over a
// network transport should set it true at construction.
var RequireSignatures = false

// Submit decodes, validates, and applies one signed command against the
// live state, publishing whatever events Apply returns and appending
// the command to the replay log on success. It holds the state's
// barrier mutex for the whole call, so a Submit never interleaves with
// a concurrent Tick or another Submit.
func (s *State) Submit(signed command.Signed) command.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if RequireSignatures && !signed.Verify() {
		return signatureInvalidOutcome
	}

	cmd, _, err := s.Commands.Deserialize(signed.Wire)
	if err != nil {
		return command.Rejected(command.ReasonInvalidArgs, err.Error())
	}

	outcome := cmd.Validate(s)
	if !outcome.Accepted {
		return outcome
	}

	for _, ev := range cmd.Apply(s) {
		s.publishEvent(ev)
	}
	s.CommandLog.Append(s.Time.CurrentTick(), signed.Wire)
	return outcome
}
