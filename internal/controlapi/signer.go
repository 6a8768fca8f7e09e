package controlapi

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/archon-sim/core/internal/command"
)

// LocalSigner signs every outgoing command with a single process-local
// ed25519 key generated at startup. Fine for a single-process host; a
// networked deployment should verify against the issuing client's own
// key instead and set gamestate.RequireSignatures.
type LocalSigner struct {
	priv ed25519.PrivateKey
}

// NewLocalSigner generates a fresh ed25519 keypair for the process.
func NewLocalSigner() (*LocalSigner, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &LocalSigner{priv: priv}, nil
}

// Sign implements Signer.
func (l *LocalSigner) Sign(cmd command.Command) command.Signed {
	return command.Sign(cmd, l.priv)
}
