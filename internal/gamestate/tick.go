package gamestate

import (
	"github.com/archon-sim/core/internal/ai"
	"github.com/archon-sim/core/internal/command"
	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/gametime"
	"github.com/archon-sim/core/internal/ids"
	"github.com/archon-sim/core/internal/resource"
	"github.com/archon-sim/core/internal/timemanager"
)

// Topics published on Bus during a tick: named, subscribable event
// streams rather than an ad hoc broadcast channel.
const (
	TopicRollover          = "rollover"
	TopicUnitMoved         = "unit.moved"
	TopicMovementCancelled = "movement.cancelled"
	TopicOwnershipChanged  = "ownership.changed"
	TopicWarDeclared       = "war.declared"
	TopicPeaceMade         = "peace.made"
	TopicMoveOrderAccepted = "move.order.accepted"
)

// ProvinceCount implements ai.State.
func (s *State) ProvinceCount(country ids.CountryID) int {
	return s.Provinces.CountProvincesOf(country)
}

// IsAtWar implements ai.State.
func (s *State) IsAtWar(country ids.CountryID) bool {
	for _, other := range s.Countries.AllIDs() {
		if other != country && s.Diplomacy.IsAtWar(country, other) {
			return true
		}
	}
	return false
}

// ResourceAmount implements ai.State.
func (s *State) ResourceAmount(country ids.CountryID, resourceType ids.ModifierTypeID) fixedpoint.FixedPoint64 {
	return s.Resources.Get(resource.EntityID(country), resourceType)
}

// Tick advances real-time delta through the clock, dispatching every
// subsystem whose period elapsed: hourly unit movement, monthly
// diplomacy decay, and the AI's daily-bucket goal cycle, in
// dependency order (time -> military -> diplomacy -> AI -> province
// buffer swap). The caller holds State's lock for the duration,
// serializing Tick against Submit.
func (s *State) Tick(realDelta fixedpoint.FixedPoint64) []timemanager.RolloverEvents {
	rollovers := s.Time.Advance(realDelta)
	for _, r := range rollovers {
		s.Bus.Publish(TopicRollover, r)

		if r.Hour {
			moved, cancelled := s.Units.AdvanceHour(r.NewTick, s.provincePassable)
			for _, ev := range moved {
				s.Bus.Publish(TopicUnitMoved, ev)
			}
			for _, ev := range cancelled {
				s.Bus.Publish(TopicMovementCancelled, ev)
			}
		}
		if r.Month {
			s.Diplomacy.DecayMonthly(r.NewTick)
		}
		if r.Day {
			s.runAICycle(r.NewTick)
		}
	}
	s.Provinces.SwapBuffers()
	return rollovers
}

// provincePassable is the revalidation predicate AdvanceHour checks
// before a unit steps onto its next waypoint: the destination must
// still exist, trivially true for a fixed province set, kept as a named
// method so a future ownership-based access rule has somewhere to live.
func (s *State) provincePassable(ids.ProvinceID) bool { return true }

// runAICycle processes every country due this calendar day under the
// 30-bucket strategic scheduling rule, applying each selected goal's
// issued commands directly (AI commands bypass Submit's validate/log
// path since they are generated, not externally signed).
func (s *State) runAICycle(tick ids.Tick) {
	dayOfMonth := int(gametime.FromTotalHours(tick).Day)
	for _, country := range s.AIBucketer.CountriesForBucket(dayOfMonth) {
		outcome := s.AISched.ProcessCountry(country, s, nil)
		for _, raw := range outcome.Commands {
			cmd, ok := raw.(command.Command)
			if !ok {
				continue
			}
			if out := cmd.Validate(s); !out.Accepted {
				continue
			}
			for _, ev := range cmd.Apply(s) {
				s.publishEvent(ev)
			}
		}
	}
}

// publishEvent routes a command's returned domain event to its bus
// topic by concrete type.
func (s *State) publishEvent(ev interface{}) {
	switch e := ev.(type) {
	case WarDeclaredEvent:
		s.Bus.Publish(TopicWarDeclared, e)
	case PeaceMadeEvent:
		s.Bus.Publish(TopicPeaceMade, e)
	case MoveOrderAcceptedEvent:
		s.Bus.Publish(TopicMoveOrderAccepted, e)
	default:
		s.Log.Debug.Printf("gamestate: unroutable event type %T", e)
	}
}

var _ ai.State = (*State)(nil)
