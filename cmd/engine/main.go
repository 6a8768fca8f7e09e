// Command engine boots the Archon Core simulation host: it loads a
// scenario blob, constructs a gamestate.State, starts the tick loop,
// and serves the control-surface HTTP API. The boot sequence is
// config.Load/logging.Setup, then background goroutines, then an
// http.Server with the security/CORS middleware chain.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/archon-sim/core/internal/config"
	"github.com/archon-sim/core/internal/controlapi"
	"github.com/archon-sim/core/internal/eventbus"
	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/gamestate"
	"github.com/archon-sim/core/internal/gametime"
	"github.com/archon-sim/core/internal/ids"
	"github.com/archon-sim/core/internal/logging"
	"github.com/archon-sim/core/internal/saveload"
	"github.com/archon-sim/core/internal/scenario"
)

// streamedTopics are the gamestate event-bus topics relayed to
// /stream's WebSocket observers: every event a spectator tool or the
// presentation layer would want to react to.
var streamedTopics = []eventbus.Topic{
	gamestate.TopicRollover,
	gamestate.TopicUnitMoved,
	gamestate.TopicMoveOrderAccepted,
	gamestate.TopicMovementCancelled,
	gamestate.TopicOwnershipChanged,
	gamestate.TopicWarDeclared,
	gamestate.TopicPeaceMade,
}

func main() {
	cfg := config.Load()

	addr := flag.String("addr", cfg.ListenAddr, "HTTP listen address")
	scenarioPath := flag.String("scenario", cfg.ScenarioPath, "path to a JSON-encoded scenario.Blob; empty or missing uses a minimal built-in scenario")
	saveDir := flag.String("save-dir", cfg.SaveDir, "directory for save files and the slot catalog")
	logDir := flag.String("log-dir", cfg.LogDir, "directory for log files")
	debug := flag.Bool("debug", cfg.Debug, "mirror debug-level logs to stderr")
	tickHz := flag.Float64("tick-hz", 10, "real-time ticks per second driving the simulation clock")
	hoursPerRealSecond := flag.Float64("hours-per-real-second", 1.0/60, "in-game hours advanced per real second at 1x speed")
	requireSignatures := flag.Bool("require-signatures", cfg.CommandSigningRequired, "reject control commands whose ed25519 signature does not verify")
	rateLimitPerSecond := flag.Float64("rate-limit-per-second", cfg.RateLimitPerSecond, "control API requests allowed per second per caller IP")
	rateLimitBurst := flag.Int("rate-limit-burst", cfg.RateLimitBurst, "control API burst allowance per caller IP")
	flag.Parse()

	gamestate.RequireSignatures = *requireSignatures

	loggers, err := logging.Setup(*logDir, *debug)
	if err != nil {
		log.Fatalf("engine: logging setup failed: %v", err)
	}

	blob, err := loadScenario(*scenarioPath)
	if err != nil {
		loggers.Error.Fatalf("engine: scenario load failed: %v", err)
	}

	state := gamestate.New(blob, scenarioName(*scenarioPath), fixedpoint.FromFloat64(*hoursPerRealSecond), *loggers)

	slots, err := saveload.OpenSlotRegistry(*saveDir)
	if err != nil {
		loggers.Error.Fatalf("engine: save-slot registry open failed: %v", err)
	}
	defer slots.Close()

	signer, err := controlapi.NewLocalSigner()
	if err != nil {
		loggers.Error.Fatalf("engine: signer key generation failed: %v", err)
	}

	api := controlapi.NewServer(state, slots, *saveDir, signer, *loggers, *rateLimitPerSecond, *rateLimitBurst)

	stream := eventbus.NewWSStream()
	for _, topic := range streamedTopics {
		stream.Forward(state.Bus, topic)
	}

	loggers.Info.Printf("ARCHON CORE BOOT SEQUENCE")
	loggers.Info.Printf("scenario=%s tickHz=%.2f startTick=%d", scenarioName(*scenarioPath), *tickHz, state.CurrentTick())

	go runTickLoop(state, *tickHz, loggers)

	mux := http.NewServeMux()
	mux.Handle("/stream", stream)
	mux.Handle("/", api.Mux())

	server := &http.Server{
		Addr:         *addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	loggers.Info.Printf("engine: listening on %s", *addr)
	if err := server.ListenAndServe(); err != nil {
		loggers.Error.Fatal(err)
	}
}

// runTickLoop advances the simulation clock at a fixed real-time
// cadence, holding the state's barrier mutex for the duration of each
// Tick so a concurrent Submit never observes a half-advanced tick.
func runTickLoop(state *gamestate.State, hz float64, loggers *logging.Loggers) {
	if hz <= 0 {
		hz = 10
	}
	period := time.Duration(float64(time.Second) / hz)
	realDelta := fixedpoint.FromFloat64(1.0 / hz)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for range ticker.C {
		state.Lock()
		rollovers := state.Tick(realDelta)
		state.Unlock()
		if len(rollovers) > 0 {
			loggers.Debug.Printf("engine: advanced %d hour(s), now at tick %d", len(rollovers), state.CurrentTick())
		}
	}
}

func scenarioName(path string) string {
	if path == "" {
		return "builtin-minimal"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "builtin-minimal"
	}
	return path
}

// loadScenario reads a JSON-encoded scenario.Blob from path, or
// constructs a minimal two-province/two-country scenario when path
// is empty or names a file that does not exist: enough to boot and exercise the control surface without
// requiring a real scenario file, since the core never ships a
// bitmap/CSV/Paradox-file parser itself.
func loadScenario(path string) (*scenario.Blob, error) {
	if path == "" {
		return minimalScenario(), nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return minimalScenario(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var blob scenario.Blob
	if err := json.NewDecoder(f).Decode(&blob); err != nil {
		return nil, err
	}
	return &blob, nil
}

func minimalScenario() *scenario.Blob {
	return &scenario.Blob{
		Provinces: []scenario.ProvinceDef{
			{ID: ids.ProvinceID(1), Terrain: ids.TerrainID(1), InitialOwner: "ARC", Neighbors: []ids.ProvinceID{2}},
			{ID: ids.ProvinceID(2), Terrain: ids.TerrainID(1), InitialOwner: "NEI", Neighbors: []ids.ProvinceID{1}},
		},
		Countries: []scenario.CountryDef{
			{Tag: "ARC", DisplayColor: 0xC0392B},
			{Tag: "NEI", DisplayColor: 0x2980B9},
		},
		UnitTypes: []scenario.UnitTypeDef{
			{ID: ids.ModifierTypeID(1), Name: "infantry", TraversalDays: 1},
		},
		Terrains: []scenario.TerrainDef{
			{ID: ids.TerrainID(1), Name: "plains"},
		},
		InitialDate:  gametime.GameTime{Year: 1, Month: 0, Day: 0, Hour: 0},
		ScenarioSeed: 1,
	}
}
