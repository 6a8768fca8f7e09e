// Package command implements the authoritative mutation pipeline: a
// typed Command interface with validate/apply, stable wire serialization
// via protowire (no codegen, just varint/length-prefixed tag+payload
// framing for the command log), and ed25519 command-signing for
// multiplayer transports.
package command

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Reason explains why a command was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonInvalidArgs
	ReasonNotFound
	ReasonForbidden
	ReasonConflict
)

// Outcome is the result of validating a command against state.
type Outcome struct {
	Accepted bool
	Reason   Reason
	Detail   string
}

// Ok is the accepted outcome.
func Ok() Outcome { return Outcome{Accepted: true} }

// Rejected builds a rejection outcome.
func Rejected(reason Reason, detail string) Outcome {
	return Outcome{Accepted: false, Reason: reason, Detail: detail}
}

// TypeID tags a command's wire representation; each concrete Command
// implementation owns one constant.
type TypeID uint32

// Command is the typed, serializable authoritative mutation interface.
// Validate must be a pure function of (command, state): no side
// effects, no randomness outside a supplied RNG stream. Apply is only
// ever called after a successful Validate and is expected to mutate
// state and return events for the caller to publish.
type Command interface {
	Type() TypeID
	Validate(state interface{}) Outcome
	Apply(state interface{}) []interface{}
	// Encode appends this command's wire payload (not including the type
	// tag/length framing, Serialize handles that).
	Encode(buf []byte) []byte
}

// Decoder reconstructs a Command from its wire payload for a given type.
type Decoder func(payload []byte) (Command, error)

// Registry maps TypeIDs to decoders, so the command log can deserialize
// without a giant switch statement living in this package.
type Registry struct {
	decoders map[TypeID]Decoder
}

// NewRegistry constructs an empty command type registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[TypeID]Decoder)}
}

// Register adds a decoder for typeID. Registering the same typeID twice
// is a programmer error and panics, since it would make the command log
// ambiguous to replay.
func (r *Registry) Register(typeID TypeID, decoder Decoder) {
	if _, exists := r.decoders[typeID]; exists {
		panic(fmt.Sprintf("command: duplicate registration for type %d", typeID))
	}
	r.decoders[typeID] = decoder
}

// ErrUnknownType is returned by Deserialize for an unregistered TypeID.
var ErrUnknownType = errors.New("command: unknown type id")

// Serialize frames a command as: varint(type) + varint(len) + payload.
func Serialize(cmd Command) []byte {
	payload := cmd.Encode(nil)
	buf := protowire.AppendVarint(nil, uint64(cmd.Type()))
	buf = protowire.AppendVarint(buf, uint64(len(payload)))
	buf = append(buf, payload...)
	return buf
}

// Deserialize reads one framed command from buf, returning the decoded
// Command and the number of bytes consumed.
func (r *Registry) Deserialize(buf []byte) (Command, int, error) {
	typeVal, n1 := protowire.ConsumeVarint(buf)
	if n1 < 0 {
		return nil, 0, errors.New("command: malformed type tag")
	}
	lenVal, n2 := protowire.ConsumeVarint(buf[n1:])
	if n2 < 0 {
		return nil, 0, errors.New("command: malformed length")
	}
	start := n1 + n2
	end := start + int(lenVal)
	if end > len(buf) {
		return nil, 0, errors.New("command: truncated payload")
	}
	decoder, ok := r.decoders[TypeID(typeVal)]
	if !ok {
		return nil, 0, ErrUnknownType
	}
	cmd, err := decoder(buf[start:end])
	if err != nil {
		return nil, 0, err
	}
	return cmd, end, nil
}

// Signed pairs a serialized command with an ed25519 signature over its
// wire bytes, for multiplayer deployments where commands arrive over an
// untrusted transport.
type Signed struct {
	Wire      []byte
	Signer    ed25519.PublicKey
	Signature []byte
}

// Sign produces a Signed envelope for a command using priv.
func Sign(cmd Command, priv ed25519.PrivateKey) Signed {
	wire := Serialize(cmd)
	sig := ed25519.Sign(priv, wire)
	pub := priv.Public().(ed25519.PublicKey)
	return Signed{Wire: wire, Signer: pub, Signature: sig}
}

// Verify checks a Signed envelope's signature against its claimed
// signer.
func (s Signed) Verify() bool {
	return ed25519.Verify(s.Signer, s.Wire, s.Signature)
}
