package military

import "github.com/archon-sim/core/internal/fixedpoint"

// BattleResolver is the interface a combat resolver must satisfy once
// implemented: when two units of opposing countries occupy the same
// province, it computes casualties for one tick of battle. Damage is
// attacker_strength * attack_mods - defender_strength * defense_mods, all
// in FixedPoint64, applied to strength; a morale break below a threshold
// triggers retreat to a chosen neighbor.
//
// Design level only, no resolver is wired into the tick loop.
// Store/AdvanceHour provide the movement queue; nothing detects units of
// opposing countries sharing a province.
type BattleResolver interface {
	Resolve(attacker, defender UnitState, attackMods, defenseMods fixedpoint.FixedPoint64) BattleOutcome
}

// BattleOutcome is the result of one tick of combat resolution.
type BattleOutcome struct {
	AttackerDamage fixedpoint.FixedPoint64
	DefenderDamage fixedpoint.FixedPoint64
	AttackerBroke  bool
	DefenderBroke  bool
}
