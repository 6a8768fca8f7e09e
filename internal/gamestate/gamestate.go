// Package gamestate is the top-level orchestrator: it owns every
// subsystem store, wires the event bus between them, and exposes the
// two entry points external callers use: Submit (mutate via a
// validated Command) and the read-only query surface in query.go. One
// struct owns its dependencies explicitly, which is what lets Save/Load
// and tests construct more than one instance.
package gamestate

import (
	"sync"
	"time"

	"github.com/archon-sim/core/internal/adjacency"
	"github.com/archon-sim/core/internal/ai"
	"github.com/archon-sim/core/internal/command"
	"github.com/archon-sim/core/internal/country"
	"github.com/archon-sim/core/internal/diplomacy"
	"github.com/archon-sim/core/internal/eventbus"
	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/ids"
	"github.com/archon-sim/core/internal/logging"
	"github.com/archon-sim/core/internal/military"
	"github.com/archon-sim/core/internal/pathfind"
	"github.com/archon-sim/core/internal/province"
	"github.com/archon-sim/core/internal/resource"
	"github.com/archon-sim/core/internal/scenario"
	"github.com/archon-sim/core/internal/timemanager"
)

// DefaultCommandRetainTicks is the command log's retained window, per
// the Open Question resolved in the command package: K=100 ticks at an
// estimated 60 commands/tick.
const DefaultCommandRetainTicks = 100

// DefaultAITimeout bounds a single country's per-cycle AI processing
// wall clock, the only cancellation surface the scheduler exposes.
const DefaultAITimeout = 20 * time.Millisecond

// State is every subsystem store the core owns, plus the glue (event
// bus, command registry/log, time manager, AI scheduler) that ties them
// together. The zero value is not usable; build one with New.
type State struct {
	mu sync.Mutex // serializes Submit and Tick

	ScenarioSeed uint64
	ScenarioName string

	Provinces  *province.Store
	Countries  *country.Store
	Adjacency  *adjacency.Graph
	PathCache  *pathfind.Cache
	Resources  *resource.Ledger
	Units      *military.Store
	Diplomacy  *diplomacy.Store
	Time       *timemanager.Manager
	Bus        *eventbus.Bus
	Commands   *command.Registry
	CommandLog *command.Log
	AI         *ai.Registry
	AIBucketer *ai.Bucketer
	AISched    *ai.Scheduler

	Log logging.Loggers

	unitTypes map[ids.ModifierTypeID]military.UnitType
}

// New constructs a State from a parsed scenario blob: builds every
// store in dependency order, then wires the glue on top. scenarioName
// is the loader-supplied label recorded in saves; the simulation clock
// starts at the blob's InitialDate.
func New(blob *scenario.Blob, scenarioName string, hoursPerRealSecond fixedpoint.FixedPoint64, log logging.Loggers) *State {
	countries := blob.BuildCountryStore()
	provinces := blob.BuildProvinceStore(countries)
	adjList, allIDs := blob.BuildAdjacency()
	graph := adjacency.Build(adjList, allIDs)

	unitTypes := make(map[ids.ModifierTypeID]military.UnitType, len(blob.UnitTypes))
	for _, ut := range blob.UnitTypes {
		if t, ok := blob.UnitTypeByID(ut.ID); ok {
			unitTypes[ut.ID] = t
		}
	}

	s := &State{
		ScenarioSeed: blob.ScenarioSeed,
		ScenarioName: scenarioName,
		Provinces:    provinces,
		Countries:    countries,
		Adjacency:    graph,
		PathCache:    pathfind.NewCache(4096),
		Resources:    resource.NewLedger(),
		Units:        military.NewStore(),
		Diplomacy:    diplomacy.NewStore(),
		Time:         timemanager.New(blob.InitialDate.ToTotalHours(), hoursPerRealSecond),
		Bus:          eventbus.New(),
		Commands:     command.NewRegistry(),
		CommandLog:   command.NewLog(DefaultCommandRetainTicks),
		AI:           ai.NewRegistry(),
		Log:          log,
		unitTypes:    unitTypes,
	}
	s.AIBucketer = ai.NewBucketer(countries.AllIDs())
	s.AISched = ai.NewScheduler(s.AI, DefaultAITimeout)
	RegisterBuiltinCommands(s.Commands)
	return s
}

// UnitTypeByID looks up a scenario-defined unit type by its type ID.
func (s *State) UnitTypeByID(id ids.ModifierTypeID) (military.UnitType, bool) {
	t, ok := s.unitTypes[id]
	return t, ok
}

// Lock/Unlock expose the state's single barrier mutex to callers (the
// controlapi HTTP handlers) that need to serialize a read with an
// in-flight Tick without duplicating the lock here.
func (s *State) Lock()   { s.mu.Lock() }
func (s *State) Unlock() { s.mu.Unlock() }
