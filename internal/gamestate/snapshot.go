package gamestate

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/archon-sim/core/internal/ai"
	"github.com/archon-sim/core/internal/country"
	"github.com/archon-sim/core/internal/diplomacy"
	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/ids"
	"github.com/archon-sim/core/internal/military"
	"github.com/archon-sim/core/internal/province"
	"github.com/archon-sim/core/internal/resource"
	"github.com/archon-sim/core/internal/saveload"
	"github.com/archon-sim/core/internal/timemanager"
)

var (
	errTruncatedBlock    = errors.New("gamestate: truncated save block")
	errTruncatedLogEntry = errors.New("gamestate: truncated command log entry")
)

// Snapshotters returns every subsystem's saveload.Snapshotter, keyed by
// the block names in saveload.BlockOrder. Adjacency and pathfind are
// immutable-after-load derived structures (rebuilt from the scenario
// blob by New, not from save bytes), so their blocks are present only so
// a future scenario-diffing feature has somewhere to write into; both
// snapshot to nothing, adjacency restores as a no-op, and pathfind's
// restore clears the path cache.
func (s *State) Snapshotters() map[string]saveload.Snapshotter {
	return map[string]saveload.Snapshotter{
		"primitives":  primitivesSnapshotter{s},
		"provinces":   provinceSnapshotter{s},
		"countries":   countrySnapshotter{s},
		"adjacency":   noopSnapshotter{"adjacency"},
		"pathfind":    pathfindSnapshotter{s},
		"resource":    resourceSnapshotter{s},
		"military":    militarySnapshotter{s},
		"diplomacy":   diplomacySnapshotter{s},
		"timemanager": timemanagerSnapshotter{s},
		"commandlog":  commandlogSnapshotter{s},
		"ai":          aiSnapshotter{s},
	}
}

// Save assembles a saveload.File reflecting the current state, ready for
// Write/WriteAtomic.
func (s *State) Save(saveName string) (saveload.File, error) {
	blocks, err := saveload.BuildBlocks(s.Snapshotters())
	if err != nil {
		return saveload.File{}, err
	}
	return saveload.File{
		Version: saveload.VersionMajor<<8 | saveload.VersionMinor,
		Metadata: saveload.Metadata{
			SaveName:     saveName,
			CurrentTick:  s.Time.CurrentTick(),
			GameSpeed:    uint8(s.Time.Snapshot().Speed),
			ScenarioName: s.ScenarioName,
		},
		Blocks:           blocks,
		CommandLog:       s.encodeCommandLog(),
		ExpectedChecksum: s.ChecksumBLAKE3(),
	}, nil
}

// RestoreFrom applies a loaded saveload.File's blocks onto a State
// already constructed from the matching scenario via New.
func (s *State) RestoreFrom(f saveload.File) error {
	return saveload.RestoreBlocks(f.Blocks, s.Snapshotters())
}

// ChecksumBLAKE3 computes the determinism digest over every dense
// authoritative array in block order, the value ReplayCommandLog
// compares its post-replay recomputation against.
func (s *State) ChecksumBLAKE3() uint32 {
	var buf bytes.Buffer
	for _, name := range saveload.BlockOrder {
		snap, ok := s.Snapshotters()[name]
		if !ok {
			continue
		}
		data, err := snap.Snapshot()
		if err != nil {
			continue
		}
		buf.Write(data)
	}
	return saveload.ChecksumBLAKE3(buf.Bytes())
}

func (s *State) encodeCommandLog() [][]byte {
	logged := s.CommandLog.Since(0)
	out := make([][]byte, 0, len(logged))
	for _, lc := range logged {
		entry := make([]byte, 8+len(lc.Wire))
		binary.LittleEndian.PutUint64(entry[:8], uint64(lc.Tick))
		copy(entry[8:], lc.Wire)
		out = append(out, entry)
	}
	return out
}

// ReplayLoggedCommand decodes and applies one saveload.File.CommandLog
// entry (tick-prefixed wire bytes) against s, the CommandApplier
// ReplayCommandLog needs.
func (s *State) ReplayLoggedCommand(entry []byte) error {
	if len(entry) < 8 {
		return errTruncatedLogEntry
	}
	wire := entry[8:]
	cmd, _, err := s.Commands.Deserialize(wire)
	if err != nil {
		return err
	}
	if out := cmd.Validate(s); !out.Accepted {
		return nil
	}
	cmd.Apply(s)
	return nil
}

type noopSnapshotter struct{ name string }

func (n noopSnapshotter) Name() string             { return n.name }
func (n noopSnapshotter) Snapshot() ([]byte, error) { return nil, nil }
func (n noopSnapshotter) Restore([]byte) error      { return nil }

// --- primitives: the scenario seed, the one piece of authoritative
// state not already carried by another block or the file's Metadata.

type primitivesSnapshotter struct{ s *State }

func (p primitivesSnapshotter) Name() string { return "primitives" }
func (p primitivesSnapshotter) Snapshot() ([]byte, error) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, p.s.ScenarioSeed)
	return buf, nil
}
func (p primitivesSnapshotter) Restore(data []byte) error {
	if len(data) < 8 {
		return errTruncatedBlock
	}
	p.s.ScenarioSeed = binary.LittleEndian.Uint64(data)
	return nil
}

// --- provinces

type provinceSnapshotter struct{ s *State }

func (p provinceSnapshotter) Name() string { return "provinces" }
func (p provinceSnapshotter) Snapshot() ([]byte, error) {
	states := p.s.Provinces.Snapshot()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(states)))
	for _, st := range states {
		binary.Write(&buf, binary.LittleEndian, uint16(st.OwnerID))
		binary.Write(&buf, binary.LittleEndian, uint16(st.ControllerID))
		binary.Write(&buf, binary.LittleEndian, uint16(st.TerrainType))
		binary.Write(&buf, binary.LittleEndian, st.Flags)
	}
	return buf.Bytes(), nil
}
func (p provinceSnapshotter) Restore(data []byte) error {
	r := bytes.NewReader(data)
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return err
	}
	states := make([]province.State, n)
	for i := range states {
		var owner, controller, terrain, flags uint16
		if err := binary.Read(r, binary.LittleEndian, &owner); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &controller); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &terrain); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
			return err
		}
		states[i] = province.State{
			OwnerID:      ids.CountryID(owner),
			ControllerID: ids.CountryID(controller),
			TerrainType:  ids.TerrainID(terrain),
			Flags:        flags,
		}
	}
	p.s.Provinces.Restore(states)
	return nil
}

// --- countries: hot record + history, keyed by the dense ID order
// New(blob) already established.

type countrySnapshotter struct{ s *State }

func (c countrySnapshotter) Name() string { return "countries" }
func (c countrySnapshotter) Snapshot() ([]byte, error) {
	ids_ := c.s.Countries.AllIDs()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(ids_)))
	for _, id := range ids_ {
		hot := c.s.Countries.GetHot(id)
		cold := c.s.Countries.GetCold(id)
		binary.Write(&buf, binary.LittleEndian, hot.ColorRGB)
		binary.Write(&buf, binary.LittleEndian, hot.Flags)
		binary.Write(&buf, binary.LittleEndian, uint32(len(cold.History)))
		for _, h := range cold.History {
			writeString(&buf, h)
		}
	}
	return buf.Bytes(), nil
}
func (c countrySnapshotter) Restore(data []byte) error {
	r := bytes.NewReader(data)
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return err
	}
	ids_ := c.s.Countries.AllIDs()
	for i := uint32(0); i < n && int(i) < len(ids_); i++ {
		id := ids_[i]
		var colorRGB uint32
		var flags uint16
		if err := binary.Read(r, binary.LittleEndian, &colorRGB); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
			return err
		}
		c.s.Countries.SetHot(id, country.Hot{ColorRGB: colorRGB, Flags: flags})
		var histN uint32
		if err := binary.Read(r, binary.LittleEndian, &histN); err != nil {
			return err
		}
		history := make([]string, histN)
		for j := range history {
			h, err := readString(r)
			if err != nil {
				return err
			}
			history[j] = h
		}
		c.s.Countries.RestoreHistory(id, history)
	}
	return nil
}

// --- pathfind: the LRU result cache is pure derived state, safe to
// drop on load; Restore just invalidates it so the next query rebuilds.

type pathfindSnapshotter struct{ s *State }

func (p pathfindSnapshotter) Name() string              { return "pathfind" }
func (p pathfindSnapshotter) Snapshot() ([]byte, error) { return nil, nil }
func (p pathfindSnapshotter) Restore([]byte) error {
	p.s.PathCache.InvalidateAll()
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return "", err
	}
	return string(data), nil
}

// --- resource

type resourceSnapshotter struct{ s *State }

func (r resourceSnapshotter) Name() string { return "resource" }
func (r resourceSnapshotter) Snapshot() ([]byte, error) {
	balances := r.s.Resources.All()
	keys := maps.Keys(balances)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Entity != keys[j].Entity {
			return keys[i].Entity < keys[j].Entity
		}
		return keys[i].Type < keys[j].Type
	})
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(keys)))
	for _, k := range keys {
		binary.Write(&buf, binary.LittleEndian, uint32(k.Entity))
		binary.Write(&buf, binary.LittleEndian, uint16(k.Type))
		binary.Write(&buf, binary.LittleEndian, uint64(balances[k]))
	}
	return buf.Bytes(), nil
}
func (r resourceSnapshotter) Restore(data []byte) error {
	br := bytes.NewReader(data)
	var n uint32
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return err
	}
	balances := make(map[resource.Key]fixedpoint.FixedPoint64, n)
	for i := uint32(0); i < n; i++ {
		var entity uint32
		var typ uint16
		var v uint64
		if err := binary.Read(br, binary.LittleEndian, &entity); err != nil {
			return err
		}
		if err := binary.Read(br, binary.LittleEndian, &typ); err != nil {
			return err
		}
		if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
			return err
		}
		balances[resource.Key{Entity: resource.EntityID(entity), Type: ids.ModifierTypeID(typ)}] = fixedpoint.FixedPoint64(v)
	}
	r.s.Resources.Restore(balances)
	return nil
}

// --- military

type militarySnapshotter struct{ s *State }

func (m militarySnapshotter) Name() string { return "military" }
func (m militarySnapshotter) Snapshot() ([]byte, error) {
	units := m.s.Units.AllUnits()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(units)))
	var withOrders []ids.UnitID
	for i, u := range units {
		binary.Write(&buf, binary.LittleEndian, uint16(u.ProvinceID))
		binary.Write(&buf, binary.LittleEndian, uint16(u.OwnerID))
		binary.Write(&buf, binary.LittleEndian, u.Strength)
		binary.Write(&buf, binary.LittleEndian, u.Morale)
		if _, ok := m.s.Units.OrderFor(ids.UnitID(i)); ok {
			withOrders = append(withOrders, ids.UnitID(i))
		}
	}
	binary.Write(&buf, binary.LittleEndian, uint32(len(withOrders)))
	for _, id := range withOrders {
		order, _ := m.s.Units.OrderFor(id)
		binary.Write(&buf, binary.LittleEndian, uint16(id))
		binary.Write(&buf, binary.LittleEndian, uint32(len(order.Waypoints)))
		for _, wp := range order.Waypoints {
			binary.Write(&buf, binary.LittleEndian, uint16(wp))
		}
		binary.Write(&buf, binary.LittleEndian, uint32(order.WaypointIndex))
		binary.Write(&buf, binary.LittleEndian, order.TicksRemaining)
		binary.Write(&buf, binary.LittleEndian, order.HoursPerLeg)
	}
	return buf.Bytes(), nil
}
func (m militarySnapshotter) Restore(data []byte) error {
	r := bytes.NewReader(data)
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return err
	}
	units := make([]military.UnitState, n)
	var free []ids.UnitID
	for i := range units {
		var province_, owner, strength, morale uint16
		if err := binary.Read(r, binary.LittleEndian, &province_); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &owner); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &strength); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &morale); err != nil {
			return err
		}
		units[i] = military.UnitState{
			ProvinceID: ids.ProvinceID(province_),
			OwnerID:    ids.CountryID(owner),
			Strength:   strength,
			Morale:     morale,
		}
		if i > 0 && units[i] == (military.UnitState{}) {
			free = append(free, ids.UnitID(i))
		}
	}
	var orderCount uint32
	if err := binary.Read(r, binary.LittleEndian, &orderCount); err != nil {
		return err
	}
	orders := make(map[ids.UnitID]military.MovementOrder, orderCount)
	for i := uint32(0); i < orderCount; i++ {
		var id uint16
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			return err
		}
		var wpCount uint32
		if err := binary.Read(r, binary.LittleEndian, &wpCount); err != nil {
			return err
		}
		waypoints := make([]ids.ProvinceID, wpCount)
		for j := range waypoints {
			var wp uint16
			if err := binary.Read(r, binary.LittleEndian, &wp); err != nil {
				return err
			}
			waypoints[j] = ids.ProvinceID(wp)
		}
		var idx, ticksRemaining, hoursPerLeg uint32
		if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &ticksRemaining); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &hoursPerLeg); err != nil {
			return err
		}
		orders[ids.UnitID(id)] = military.MovementOrder{
			Waypoints:      waypoints,
			WaypointIndex:  int(idx),
			TicksRemaining: ticksRemaining,
			HoursPerLeg:    hoursPerLeg,
		}
	}
	m.s.Units.RestoreUnits(units, free, ids.UnitID(len(units)), orders)
	return nil
}

// --- diplomacy

type diplomacySnapshotter struct{ s *State }

func (d diplomacySnapshotter) Name() string { return "diplomacy" }
func (d diplomacySnapshotter) Snapshot() ([]byte, error) {
	relations := d.s.Diplomacy.AllRelations()
	modifiers := d.s.Diplomacy.AllModifiers()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(relations)))
	for _, rel := range relations {
		binary.Write(&buf, binary.LittleEndian, uint16(rel.Country1))
		binary.Write(&buf, binary.LittleEndian, uint16(rel.Country2))
		binary.Write(&buf, binary.LittleEndian, int64(rel.BaseOpinion))
		atWar := byte(0)
		if rel.AtWar {
			atWar = 1
		}
		buf.WriteByte(atWar)
		buf.WriteByte(byte(rel.Treaties))
	}
	binary.Write(&buf, binary.LittleEndian, uint32(len(modifiers)))
	for _, m := range modifiers {
		binary.Write(&buf, binary.LittleEndian, uint32(m.Key))
		binary.Write(&buf, binary.LittleEndian, uint16(m.ModifierID))
		binary.Write(&buf, binary.LittleEndian, uint64(m.AppliedTick))
		binary.Write(&buf, binary.LittleEndian, m.DecayTicks)
		binary.Write(&buf, binary.LittleEndian, int64(m.Magnitude))
	}
	return buf.Bytes(), nil
}
func (d diplomacySnapshotter) Restore(data []byte) error {
	r := bytes.NewReader(data)
	var relCount uint32
	if err := binary.Read(r, binary.LittleEndian, &relCount); err != nil {
		return err
	}
	relations := make([]diplomacy.RelationData, relCount)
	for i := range relations {
		var c1, c2 uint16
		var opinion int64
		if err := binary.Read(r, binary.LittleEndian, &c1); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &c2); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &opinion); err != nil {
			return err
		}
		atWar, err := r.ReadByte()
		if err != nil {
			return err
		}
		treaties, err := r.ReadByte()
		if err != nil {
			return err
		}
		relations[i] = diplomacy.RelationData{
			Country1:    ids.CountryID(c1),
			Country2:    ids.CountryID(c2),
			BaseOpinion: fixedpoint.FixedPoint64(opinion),
			AtWar:       atWar != 0,
			Treaties:    diplomacy.TreatyFlags(treaties),
		}
	}
	var modCount uint32
	if err := binary.Read(r, binary.LittleEndian, &modCount); err != nil {
		return err
	}
	modifiers := make([]diplomacy.OpinionModifier, modCount)
	for i := range modifiers {
		var key uint32
		var modID uint16
		var appliedTick uint64
		var decayTicks uint32
		var magnitude int64
		if err := binary.Read(r, binary.LittleEndian, &key); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &modID); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &appliedTick); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &decayTicks); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &magnitude); err != nil {
			return err
		}
		modifiers[i] = diplomacy.OpinionModifier{
			Key:         ids.RelationKey(key),
			ModifierID:  ids.ModifierTypeID(modID),
			AppliedTick: ids.Tick(appliedTick),
			DecayTicks:  decayTicks,
			Magnitude:   fixedpoint.FixedPoint64(magnitude),
		}
	}
	d.s.Diplomacy.Restore(relations, modifiers)
	return nil
}

// --- timemanager

type timemanagerSnapshotter struct{ s *State }

func (t timemanagerSnapshotter) Name() string { return "timemanager" }
func (t timemanagerSnapshotter) Snapshot() ([]byte, error) {
	snap := t.s.Time.Snapshot()
	buf := make([]byte, 8+1+8)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(snap.CurrentTick))
	buf[8] = byte(snap.Speed)
	binary.LittleEndian.PutUint64(buf[9:17], uint64(snap.Accumulator))
	return buf, nil
}
func (t timemanagerSnapshotter) Restore(data []byte) error {
	if len(data) < 17 {
		return errTruncatedBlock
	}
	tick := binary.LittleEndian.Uint64(data[0:8])
	speed := data[8]
	accumulator := binary.LittleEndian.Uint64(data[9:17])
	t.s.Time.Restore(timemanager.SnapshotState{
		CurrentTick: ids.Tick(tick),
		Speed:       timemanager.Speed(speed),
		Accumulator: fixedpoint.FixedPoint64(accumulator),
	})
	return nil
}

// --- commandlog: a copy of the retained ring, replayed by
// ReplayCommandLog in dev/verification mode rather than restored
// directly into the live Log (which rebuilds as new commands arrive).

type commandlogSnapshotter struct{ s *State }

func (c commandlogSnapshotter) Name() string { return "commandlog" }
func (c commandlogSnapshotter) Snapshot() ([]byte, error) {
	var buf bytes.Buffer
	for _, entry := range c.s.encodeCommandLog() {
		binary.Write(&buf, binary.LittleEndian, uint32(len(entry)))
		buf.Write(entry)
	}
	return buf.Bytes(), nil
}
func (c commandlogSnapshotter) Restore([]byte) error { return nil }

// --- ai: per-country scheduler state and the bucketer's crisis set.

type aiSnapshotter struct{ s *State }

func (a aiSnapshotter) Name() string { return "ai" }
func (a aiSnapshotter) Snapshot() ([]byte, error) {
	states := a.s.AISched.AllStates()
	crisis := a.s.AIBucketer.CrisisCountries()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(states)))
	countryIDs := maps.Keys(states)
	sort.Slice(countryIDs, func(i, j int) bool { return countryIDs[i] < countryIDs[j] })
	for _, c := range countryIDs {
		st := states[c]
		binary.Write(&buf, binary.LittleEndian, uint16(c))
		binary.Write(&buf, binary.LittleEndian, st.LastGoalIndex)
		binary.Write(&buf, binary.LittleEndian, st.Crisis)
		binary.Write(&buf, binary.LittleEndian, st.TimedOut)
	}
	sort.Slice(crisis, func(i, j int) bool { return crisis[i] < crisis[j] })
	binary.Write(&buf, binary.LittleEndian, uint32(len(crisis)))
	for _, c := range crisis {
		binary.Write(&buf, binary.LittleEndian, uint16(c))
	}
	return buf.Bytes(), nil
}
func (a aiSnapshotter) Restore(data []byte) error {
	r := bytes.NewReader(data)
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return err
	}
	states := make(map[ids.CountryID]ai.AIState, n)
	for i := uint32(0); i < n; i++ {
		var country_ uint16
		var st ai.AIState
		if err := binary.Read(r, binary.LittleEndian, &country_); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &st.LastGoalIndex); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &st.Crisis); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &st.TimedOut); err != nil {
			return err
		}
		states[ids.CountryID(country_)] = st
	}
	a.s.AISched.RestoreStates(states)

	var crisisCount uint32
	if err := binary.Read(r, binary.LittleEndian, &crisisCount); err != nil {
		return err
	}
	for i := uint32(0); i < crisisCount; i++ {
		var c uint16
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return err
		}
		a.s.AIBucketer.PromoteToCrisis(ids.CountryID(c))
	}
	return nil
}
