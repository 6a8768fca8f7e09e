package gamestate

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/archon-sim/core/internal/command"
	"github.com/archon-sim/core/internal/diplomacy"
	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/ids"
	"github.com/archon-sim/core/internal/military"
	"github.com/archon-sim/core/internal/pathfind"
	"github.com/archon-sim/core/internal/resource"
	"github.com/archon-sim/core/internal/timemanager"
)

// TypeIDs for every built-in command, the external-interface verb
// set (pause/resume/set-speed, declare_war/make_peace/improve_relations/
// treaties, create_unit/move_unit, add_resource).
const (
	TypeSetSpeed command.TypeID = iota + 1
	TypePause
	TypeResume
	TypeDeclareWar
	TypeMakePeace
	TypeSetTreaty
	TypeImproveRelations
	TypeCreateUnit
	TypeMoveUnit
	TypeAddResource
)

// RegisterBuiltinCommands wires every built-in command's decoder into
// reg, so the command log can replay a save's trailing history.
func RegisterBuiltinCommands(reg *command.Registry) {
	reg.Register(TypeSetSpeed, decodeSetSpeed)
	reg.Register(TypePause, decodePause)
	reg.Register(TypeResume, decodeResume)
	reg.Register(TypeDeclareWar, decodeDeclareWar)
	reg.Register(TypeMakePeace, decodeMakePeace)
	reg.Register(TypeSetTreaty, decodeSetTreaty)
	reg.Register(TypeImproveRelations, decodeImproveRelations)
	reg.Register(TypeCreateUnit, decodeCreateUnit)
	reg.Register(TypeMoveUnit, decodeMoveUnit)
	reg.Register(TypeAddResource, decodeAddResource)
}

func asState(v interface{}) *State { return v.(*State) }

// --- SetSpeed ---

type SetSpeedCommand struct{ Speed uint8 }

func (c SetSpeedCommand) Type() command.TypeID { return TypeSetSpeed }
func (c SetSpeedCommand) Validate(interface{}) command.Outcome {
	if c.Speed > 4 {
		return command.Rejected(command.ReasonInvalidArgs, "unknown speed value")
	}
	return command.Ok()
}
func (c SetSpeedCommand) Apply(state interface{}) []interface{} {
	asState(state).Time.SetSpeed(timemanager.Speed(c.Speed))
	return nil
}
func (c SetSpeedCommand) Encode(buf []byte) []byte {
	return protowire.AppendVarint(buf, uint64(c.Speed))
}
func decodeSetSpeed(payload []byte) (command.Command, error) {
	v, n := protowire.ConsumeVarint(payload)
	if n < 0 {
		return nil, errors.New("gamestate: malformed SetSpeed payload")
	}
	return SetSpeedCommand{Speed: uint8(v)}, nil
}

// --- Pause / Resume ---

type PauseCommand struct{}

func (c PauseCommand) Type() command.TypeID                { return TypePause }
func (c PauseCommand) Validate(interface{}) command.Outcome { return command.Ok() }
func (c PauseCommand) Apply(state interface{}) []interface{} {
	asState(state).Time.Pause()
	return nil
}
func (c PauseCommand) Encode(buf []byte) []byte { return buf }
func decodePause([]byte) (command.Command, error) { return PauseCommand{}, nil }

type ResumeCommand struct{ Speed uint8 }

func (c ResumeCommand) Type() command.TypeID { return TypeResume }
func (c ResumeCommand) Validate(interface{}) command.Outcome {
	if c.Speed > 4 {
		return command.Rejected(command.ReasonInvalidArgs, "unknown speed value")
	}
	return command.Ok()
}
func (c ResumeCommand) Apply(state interface{}) []interface{} {
	asState(state).Time.SetSpeed(timemanager.Speed(c.Speed))
	return nil
}
func (c ResumeCommand) Encode(buf []byte) []byte {
	return protowire.AppendVarint(buf, uint64(c.Speed))
}
func decodeResume(payload []byte) (command.Command, error) {
	v, n := protowire.ConsumeVarint(payload)
	if n < 0 {
		return nil, errors.New("gamestate: malformed Resume payload")
	}
	return ResumeCommand{Speed: uint8(v)}, nil
}

// --- Diplomacy ---

// WarDeclaredEvent is published when a validated war declaration applies.
type WarDeclaredEvent struct{ Attacker, Defender ids.CountryID }

// MoveOrderAcceptedEvent fires once a unit's path resolves and its
// MovementOrder is installed; the hourly advance later emits
// military.UnitMovedEvent/MovementCancelledEvent as the order executes.
type MoveOrderAcceptedEvent struct {
	Unit        ids.UnitID
	Destination ids.ProvinceID
}

// PeaceMadeEvent is published when MakePeaceCommand applies.
type PeaceMadeEvent struct{ A, B ids.CountryID }

type DeclareWarCommand struct{ Attacker, Defender ids.CountryID }

func (c DeclareWarCommand) Type() command.TypeID { return TypeDeclareWar }
func (c DeclareWarCommand) Validate(state interface{}) command.Outcome {
	s := asState(state)
	if reason := s.Diplomacy.ValidateDeclareWar(c.Attacker, c.Defender); reason != diplomacy.WarOK {
		return command.Rejected(command.ReasonForbidden, fmt.Sprintf("declare war rejected: %v", reason))
	}
	return command.Ok()
}
func (c DeclareWarCommand) Apply(state interface{}) []interface{} {
	s := asState(state)
	if reason := s.Diplomacy.DeclareWar(c.Attacker, c.Defender); reason != diplomacy.WarOK {
		return nil
	}
	return []interface{}{WarDeclaredEvent{Attacker: c.Attacker, Defender: c.Defender}}
}
func (c DeclareWarCommand) Encode(buf []byte) []byte {
	buf = protowire.AppendVarint(buf, uint64(c.Attacker))
	return protowire.AppendVarint(buf, uint64(c.Defender))
}
func decodeDeclareWar(payload []byte) (command.Command, error) {
	a, n1 := protowire.ConsumeVarint(payload)
	if n1 < 0 {
		return nil, errors.New("gamestate: malformed DeclareWar payload")
	}
	b, n2 := protowire.ConsumeVarint(payload[n1:])
	if n2 < 0 {
		return nil, errors.New("gamestate: malformed DeclareWar payload")
	}
	return DeclareWarCommand{Attacker: ids.CountryID(a), Defender: ids.CountryID(b)}, nil
}

type MakePeaceCommand struct{ A, B ids.CountryID }

func (c MakePeaceCommand) Type() command.TypeID { return TypeMakePeace }
func (c MakePeaceCommand) Validate(state interface{}) command.Outcome {
	s := asState(state)
	if !s.Diplomacy.IsAtWar(c.A, c.B) {
		return command.Rejected(command.ReasonConflict, "countries are not at war")
	}
	return command.Ok()
}
func (c MakePeaceCommand) Apply(state interface{}) []interface{} {
	asState(state).Diplomacy.MakePeace(c.A, c.B)
	return []interface{}{PeaceMadeEvent{A: c.A, B: c.B}}
}
func (c MakePeaceCommand) Encode(buf []byte) []byte {
	buf = protowire.AppendVarint(buf, uint64(c.A))
	return protowire.AppendVarint(buf, uint64(c.B))
}
func decodeMakePeace(payload []byte) (command.Command, error) {
	a, n1 := protowire.ConsumeVarint(payload)
	if n1 < 0 {
		return nil, errors.New("gamestate: malformed MakePeace payload")
	}
	b, n2 := protowire.ConsumeVarint(payload[n1:])
	if n2 < 0 {
		return nil, errors.New("gamestate: malformed MakePeace payload")
	}
	return MakePeaceCommand{A: ids.CountryID(a), B: ids.CountryID(b)}, nil
}

// SetTreatyCommand forms or breaks one treaty bit between two countries
// (alliance, NAP, guarantee, or military access).
type SetTreatyCommand struct {
	A, B ids.CountryID
	Flag diplomacy.TreatyFlags
	Set  bool
}

func (c SetTreatyCommand) Type() command.TypeID                { return TypeSetTreaty }
func (c SetTreatyCommand) Validate(interface{}) command.Outcome { return command.Ok() }
func (c SetTreatyCommand) Apply(state interface{}) []interface{} {
	asState(state).Diplomacy.SetTreaty(c.A, c.B, c.Flag, c.Set)
	return nil
}
func (c SetTreatyCommand) Encode(buf []byte) []byte {
	buf = protowire.AppendVarint(buf, uint64(c.A))
	buf = protowire.AppendVarint(buf, uint64(c.B))
	buf = protowire.AppendVarint(buf, uint64(c.Flag))
	set := uint64(0)
	if c.Set {
		set = 1
	}
	return protowire.AppendVarint(buf, set)
}
func decodeSetTreaty(payload []byte) (command.Command, error) {
	a, n1 := protowire.ConsumeVarint(payload)
	if n1 < 0 {
		return nil, errors.New("gamestate: malformed SetTreaty payload")
	}
	payload = payload[n1:]
	b, n2 := protowire.ConsumeVarint(payload)
	if n2 < 0 {
		return nil, errors.New("gamestate: malformed SetTreaty payload")
	}
	payload = payload[n2:]
	flag, n3 := protowire.ConsumeVarint(payload)
	if n3 < 0 {
		return nil, errors.New("gamestate: malformed SetTreaty payload")
	}
	payload = payload[n3:]
	set, n4 := protowire.ConsumeVarint(payload)
	if n4 < 0 {
		return nil, errors.New("gamestate: malformed SetTreaty payload")
	}
	return SetTreatyCommand{A: ids.CountryID(a), B: ids.CountryID(b), Flag: diplomacy.TreatyFlags(flag), Set: set != 0}, nil
}

// ImproveRelationsCommand adds a time-decaying opinion modifier between
// two countries, the command-level surface for the "improve_relations"
// control verb.
type ImproveRelationsCommand struct {
	A, B       ids.CountryID
	ModifierID ids.ModifierTypeID
	AtTick     ids.Tick
	DecayTicks uint32
	Magnitude  fixedpoint.FixedPoint64
}

func (c ImproveRelationsCommand) Type() command.TypeID                { return TypeImproveRelations }
func (c ImproveRelationsCommand) Validate(interface{}) command.Outcome { return command.Ok() }
func (c ImproveRelationsCommand) Apply(state interface{}) []interface{} {
	s := asState(state)
	s.Diplomacy.AddModifier(diplomacy.OpinionModifier{
		Key:         ids.MakeRelationKey(c.A, c.B),
		ModifierID:  c.ModifierID,
		AppliedTick: c.AtTick,
		DecayTicks:  c.DecayTicks,
		Magnitude:   c.Magnitude,
	})
	return nil
}
func (c ImproveRelationsCommand) Encode(buf []byte) []byte {
	buf = protowire.AppendVarint(buf, uint64(c.A))
	buf = protowire.AppendVarint(buf, uint64(c.B))
	buf = protowire.AppendVarint(buf, uint64(c.ModifierID))
	buf = protowire.AppendVarint(buf, uint64(c.AtTick))
	buf = protowire.AppendVarint(buf, uint64(c.DecayTicks))
	return protowire.AppendFixed64(buf, uint64(c.Magnitude))
}
func decodeImproveRelations(payload []byte) (command.Command, error) {
	vals := make([]uint64, 0, 5)
	for i := 0; i < 5; i++ {
		v, n := protowire.ConsumeVarint(payload)
		if n < 0 {
			return nil, errors.New("gamestate: malformed ImproveRelations payload")
		}
		vals = append(vals, v)
		payload = payload[n:]
	}
	mag, n := protowire.ConsumeFixed64(payload)
	if n < 0 {
		return nil, errors.New("gamestate: malformed ImproveRelations payload")
	}
	return ImproveRelationsCommand{
		A:          ids.CountryID(vals[0]),
		B:          ids.CountryID(vals[1]),
		ModifierID: ids.ModifierTypeID(vals[2]),
		AtTick:     ids.Tick(vals[3]),
		DecayTicks: uint32(vals[4]),
		Magnitude:  fixedpoint.FixedPoint64(mag),
	}, nil
}

// --- Military ---

type CreateUnitCommand struct {
	Province ids.ProvinceID
	Owner    ids.CountryID
}

func (c CreateUnitCommand) Type() command.TypeID { return TypeCreateUnit }
func (c CreateUnitCommand) Validate(state interface{}) command.Outcome {
	s := asState(state)
	if _, ok := s.Provinces.IndexOf(c.Province); !ok {
		return command.Rejected(command.ReasonNotFound, "unknown province")
	}
	return command.Ok()
}
func (c CreateUnitCommand) Apply(state interface{}) []interface{} {
	asState(state).Units.CreateUnit(c.Province, c.Owner)
	return nil
}
func (c CreateUnitCommand) Encode(buf []byte) []byte {
	buf = protowire.AppendVarint(buf, uint64(c.Province))
	return protowire.AppendVarint(buf, uint64(c.Owner))
}
func decodeCreateUnit(payload []byte) (command.Command, error) {
	p, n1 := protowire.ConsumeVarint(payload)
	if n1 < 0 {
		return nil, errors.New("gamestate: malformed CreateUnit payload")
	}
	o, n2 := protowire.ConsumeVarint(payload[n1:])
	if n2 < 0 {
		return nil, errors.New("gamestate: malformed CreateUnit payload")
	}
	return CreateUnitCommand{Province: ids.ProvinceID(p), Owner: ids.CountryID(o)}, nil
}

type MoveUnitCommand struct {
	Unit        ids.UnitID
	Destination ids.ProvinceID
	UnitTypeID  ids.ModifierTypeID
}

func (c MoveUnitCommand) Type() command.TypeID { return TypeMoveUnit }
func (c MoveUnitCommand) Validate(state interface{}) command.Outcome {
	s := asState(state)
	if _, ok := s.Units.Get(c.Unit); !ok {
		return command.Rejected(command.ReasonNotFound, "unknown unit")
	}
	if _, ok := s.UnitTypeByID(c.UnitTypeID); !ok {
		return command.Rejected(command.ReasonInvalidArgs, "unknown unit type")
	}
	return command.Ok()
}
func (c MoveUnitCommand) Apply(state interface{}) []interface{} {
	s := asState(state)
	unitType, _ := s.UnitTypeByID(c.UnitTypeID)
	passable := func(ids.ProvinceID) bool { return true }
	result := s.Units.MoveUnit(s.Adjacency, c.Unit, c.Destination, unitType, pathfind.Predicate(passable))
	if result != military.MoveAccepted {
		return nil
	}
	return []interface{}{MoveOrderAcceptedEvent{Unit: c.Unit, Destination: c.Destination}}
}
func (c MoveUnitCommand) Encode(buf []byte) []byte {
	buf = protowire.AppendVarint(buf, uint64(c.Unit))
	buf = protowire.AppendVarint(buf, uint64(c.Destination))
	return protowire.AppendVarint(buf, uint64(c.UnitTypeID))
}
func decodeMoveUnit(payload []byte) (command.Command, error) {
	u, n1 := protowire.ConsumeVarint(payload)
	if n1 < 0 {
		return nil, errors.New("gamestate: malformed MoveUnit payload")
	}
	payload = payload[n1:]
	d, n2 := protowire.ConsumeVarint(payload)
	if n2 < 0 {
		return nil, errors.New("gamestate: malformed MoveUnit payload")
	}
	payload = payload[n2:]
	t, n3 := protowire.ConsumeVarint(payload)
	if n3 < 0 {
		return nil, errors.New("gamestate: malformed MoveUnit payload")
	}
	return MoveUnitCommand{Unit: ids.UnitID(u), Destination: ids.ProvinceID(d), UnitTypeID: ids.ModifierTypeID(t)}, nil
}

// --- Resource ---

// AddResourceCommand credits or debits one country's named resource
// bucket. Entity is a resource.EntityID; today the core only ever keys
// resources by country, but the wire field stays its own 32-bit value
// so a future entity kind (e.g. a building instance) widens without
// changing the command's shape.
type AddResourceCommand struct {
	Entity resource.EntityID
	Type   ids.ModifierTypeID
	Delta  fixedpoint.FixedPoint64
}

func (c AddResourceCommand) Type() command.TypeID                { return TypeAddResource }
func (c AddResourceCommand) Validate(interface{}) command.Outcome { return command.Ok() }
func (c AddResourceCommand) Apply(state interface{}) []interface{} {
	asState(state).Resources.Add(c.Entity, c.Type, c.Delta)
	return nil
}
func (c AddResourceCommand) Encode(buf []byte) []byte {
	buf = protowire.AppendVarint(buf, uint64(c.Entity))
	buf = protowire.AppendVarint(buf, uint64(c.Type))
	return protowire.AppendFixed64(buf, uint64(c.Delta))
}
func decodeAddResource(payload []byte) (command.Command, error) {
	e, n1 := protowire.ConsumeVarint(payload)
	if n1 < 0 {
		return nil, errors.New("gamestate: malformed AddResource payload")
	}
	payload = payload[n1:]
	t, n2 := protowire.ConsumeVarint(payload)
	if n2 < 0 {
		return nil, errors.New("gamestate: malformed AddResource payload")
	}
	payload = payload[n2:]
	v, n3 := protowire.ConsumeFixed64(payload)
	if n3 < 0 {
		return nil, errors.New("gamestate: malformed AddResource payload")
	}
	return AddResourceCommand{Entity: resource.EntityID(e), Type: ids.ModifierTypeID(t), Delta: fixedpoint.FixedPoint64(v)}, nil
}
