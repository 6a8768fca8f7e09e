package ai

import (
	"sort"
	"time"

	"github.com/archon-sim/core/internal/ids"
)

// AIState is the exact 8-byte per-country record the scheduler persists:
// the last selected goal's registry index, a crisis flag, and a
// reserved pad.
type AIState struct {
	LastGoalIndex uint16
	Crisis        uint8
	TimedOut      uint8
	Reserved      uint32
}

// StrategicBuckets partitions countries across a 30-bucket monthly
// cycle, one bucket per day of the month.
const StrategicBuckets = 30

// Bucketer assigns countries to buckets and tracks which countries are
// promoted to immediate (crisis) processing regardless of their bucket.
type Bucketer struct {
	buckets [][]ids.CountryID
	crisis  map[ids.CountryID]struct{}
}

// NewBucketer partitions allCountries into StrategicBuckets buckets of
// ⌈N/30⌉ countries each, in country-ID order for determinism.
func NewBucketer(allCountries []ids.CountryID) *Bucketer {
	b := &Bucketer{
		buckets: make([][]ids.CountryID, StrategicBuckets),
		crisis:  make(map[ids.CountryID]struct{}),
	}
	perBucket := (len(allCountries) + StrategicBuckets - 1) / StrategicBuckets
	if perBucket == 0 {
		perBucket = 1
	}
	for i, c := range allCountries {
		idx := i / perBucket
		if idx >= StrategicBuckets {
			idx = StrategicBuckets - 1
		}
		b.buckets[idx] = append(b.buckets[idx], c)
	}
	return b
}

// PromoteToCrisis marks a country for immediate processing regardless of
// its assigned bucket.
func (b *Bucketer) PromoteToCrisis(c ids.CountryID) { b.crisis[c] = struct{}{} }

// ClearCrisis removes a country's crisis promotion once resolved.
func (b *Bucketer) ClearCrisis(c ids.CountryID) { delete(b.crisis, c) }

// CrisisCountries returns every country currently promoted to crisis
// processing, for save/load persistence.
func (b *Bucketer) CrisisCountries() []ids.CountryID {
	out := make([]ids.CountryID, 0, len(b.crisis))
	for c := range b.crisis {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CountriesForBucket returns the countries due for processing on
// dayOfMonth (0-29), plus every currently crisis-promoted country
// regardless of bucket.
func (b *Bucketer) CountriesForBucket(dayOfMonth int) []ids.CountryID {
	if dayOfMonth < 0 || dayOfMonth >= StrategicBuckets {
		return nil
	}
	out := append([]ids.CountryID(nil), b.buckets[dayOfMonth]...)
	crisis := make([]ids.CountryID, 0, len(b.crisis))
	for c := range b.crisis {
		crisis = append(crisis, c)
	}
	sort.Slice(crisis, func(i, j int) bool { return crisis[i] < crisis[j] })
	out = append(out, crisis...)
	return out
}

// Statistics accumulates scheduler outcomes across invocations, for the
// AI debug query surface.
type Statistics struct {
	TimeoutsByCountry map[ids.CountryID]int
}

// NewStatistics constructs an empty statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{TimeoutsByCountry: make(map[ids.CountryID]int)}
}

// Scheduler drives the per-country goal cycle with a wall-clock timeout
// per invocation, discarding the command buffer wholesale on expiry.
type Scheduler struct {
	Registry         *Registry
	ExecutionTimeout time.Duration
	Stats            *Statistics
	states           map[ids.CountryID]*AIState
}

// NewScheduler constructs a Scheduler with the given goal registry and
// per-invocation wall-clock budget.
func NewScheduler(registry *Registry, timeout time.Duration) *Scheduler {
	return &Scheduler{
		Registry:         registry,
		ExecutionTimeout: timeout,
		Stats:            NewStatistics(),
		states:           make(map[ids.CountryID]*AIState),
	}
}

// StateFor returns (creating if absent) a country's persisted AIState.
func (s *Scheduler) StateFor(country ids.CountryID) *AIState {
	st, ok := s.states[country]
	if !ok {
		st = &AIState{}
		s.states[country] = st
	}
	return st
}

// AllStates returns a copy of every country's persisted AIState, keyed
// by country, for save/load persistence.
func (s *Scheduler) AllStates() map[ids.CountryID]AIState {
	out := make(map[ids.CountryID]AIState, len(s.states))
	for c, st := range s.states {
		out[c] = *st
	}
	return out
}

// RestoreStates replaces the scheduler's per-country state wholesale.
func (s *Scheduler) RestoreStates(states map[ids.CountryID]AIState) {
	s.states = make(map[ids.CountryID]*AIState, len(states))
	for c, st := range states {
		v := st
		s.states[c] = &v
	}
}

// ProcessCountry runs one goal cycle for country with a wall-clock
// budget. A timed-out cycle is recorded in Stats and its command buffer
// is discarded wholesale, no partial application.
func (s *Scheduler) ProcessCountry(country ids.CountryID, state State, selector Selector) RunOutcome {
	type result struct {
		outcome RunOutcome
	}
	done := make(chan result, 1)
	go func() {
		done <- result{outcome: s.Registry.RunCycle(country, state, selector)}
	}()

	select {
	case r := <-done:
		aiState := s.StateFor(country)
		aiState.TimedOut = 0
		if r.outcome.Selected != nil {
			aiState.LastGoalIndex = indexOfGoal(s.Registry, r.outcome.Selected.Name)
		}
		return r.outcome
	case <-time.After(s.ExecutionTimeout):
		s.Stats.TimeoutsByCountry[country]++
		aiState := s.StateFor(country)
		aiState.TimedOut = 1
		return RunOutcome{}
	}
}

func indexOfGoal(r *Registry, name string) uint16 {
	for i, g := range r.goals {
		if g.Name == name {
			return uint16(i)
		}
	}
	return 0
}
