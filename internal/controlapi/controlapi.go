// Package controlapi exposes the runtime control surface, the
// user-accessible verb set (pause/resume/set-speed, diplomacy,
// military, resource, and save/load commands), as an HTTP API.
// Security/CORS middleware and a per-IP rate.Limiter guard every route.
package controlapi

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/archon-sim/core/internal/command"
	"github.com/archon-sim/core/internal/gamestate"
	"github.com/archon-sim/core/internal/logging"
	"github.com/archon-sim/core/internal/saveload"
)

// Server wires a gamestate.State and a save-slot registry to the HTTP
// control surface. Every mutating verb is funneled through Submit so
// the barrier/replay-log discipline is identical to a networked
// command arriving over any other transport.
type Server struct {
	State   *gamestate.State
	Slots   *saveload.SlotRegistry
	SaveDir string
	Log     logging.Loggers

	signer Signer

	rateLimitPerSecond rate.Limit
	rateLimitBurst     int

	ipLock    sync.Mutex
	ipLimiter map[string]*rate.Limiter
}

// Signer produces the ed25519 signature Submit's envelope carries. A
// local single-process deployment signs with a process-local key, so its
// envelopes verify whether or not gamestate.RequireSignatures is set;
// only a networked deployment needs the verification to mean anything.
type Signer interface {
	Sign(cmd command.Command) command.Signed
}

// NewServer constructs a control-surface server over an already-built
// game state and save-slot registry. perSecond/burst come from
// config.Config.RateLimitPerSecond/RateLimitBurst; callers outside
// cmd/engine can pass their own values (e.g. looser limits in tests).
func NewServer(state *gamestate.State, slots *saveload.SlotRegistry, saveDir string, signer Signer, log logging.Loggers, perSecond float64, burst int) *Server {
	return &Server{
		State:              state,
		Slots:              slots,
		SaveDir:            saveDir,
		Log:                log,
		signer:             signer,
		rateLimitPerSecond: rate.Limit(perSecond),
		rateLimitBurst:     burst,
		ipLimiter:          make(map[string]*rate.Limiter),
	}
}

func (s *Server) getLimiter(ip string) *rate.Limiter {
	s.ipLock.Lock()
	defer s.ipLock.Unlock()
	lim, ok := s.ipLimiter[ip]
	if !ok {
		lim = rate.NewLimiter(s.rateLimitPerSecond, s.rateLimitBurst)
		s.ipLimiter[ip] = lim
	}
	return lim
}

// middlewareSecurity rate-limits non-loopback callers per IP: trust
// loopback, throttle everything else.
func (s *Server) middlewareSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, _ := net.SplitHostPort(r.RemoteAddr)
		if ip != "::1" && ip != "127.0.0.1" && ip != "" {
			if !s.getLimiter(ip).Allow() {
				http.Error(w, "Rate Limit Exceeded", http.StatusTooManyRequests)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func middlewareCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Mux builds the full handler chain: every /control/* verb, the
// read-only /query/* surface, and the security/CORS middleware wrapped
// around both.
func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/control/pause", s.handlePause)
	mux.HandleFunc("/control/resume", s.handleResume)
	mux.HandleFunc("/control/set_speed", s.handleSetSpeed)
	mux.HandleFunc("/control/declare_war", s.handleDeclareWar)
	mux.HandleFunc("/control/make_peace", s.handleMakePeace)
	mux.HandleFunc("/control/improve_relations", s.handleImproveRelations)
	mux.HandleFunc("/control/set_treaty", s.handleSetTreaty)
	mux.HandleFunc("/control/create_unit", s.handleCreateUnit)
	mux.HandleFunc("/control/build", s.handleCreateUnit) // alias for create_unit
	mux.HandleFunc("/control/move_unit", s.handleMoveUnit)
	mux.HandleFunc("/control/add_resource", s.handleAddResource)
	mux.HandleFunc("/control/quicksave", s.handleQuicksave)
	mux.HandleFunc("/control/quickload", s.handleQuickload)
	mux.HandleFunc("/control/stress_diplomacy", s.handleStressDiplomacy)

	mux.HandleFunc("/query/province", s.handleQueryProvince)
	mux.HandleFunc("/query/country", s.handleQueryCountry)
	mux.HandleFunc("/query/unit", s.handleQueryUnit)
	mux.HandleFunc("/query/status", s.handleStatus)

	var handler http.Handler = mux
	handler = s.middlewareSecurity(handler)
	handler = middlewareCORS(handler)
	return handler
}

// submitCommand signs and submits cmd, writing the resulting
// command.Outcome as JSON. Each call is tagged with a request ID so a
// rejected command can be traced back through the logs without
// correlating on timestamp alone.
func (s *Server) submitCommand(w http.ResponseWriter, cmd command.Command) {
	reqID := uuid.NewString()
	signed := s.signer.Sign(cmd)
	outcome := s.State.Submit(signed)
	if !outcome.Accepted {
		s.Log.Info.Printf("controlapi[%s]: %T rejected: reason=%d detail=%s", reqID, cmd, outcome.Reason, outcome.Detail)
	}
	w.Header().Set("X-Request-Id", reqID)
	writeJSON(w, outcomeStatus(outcome), outcome)
}

func outcomeStatus(o command.Outcome) int {
	if o.Accepted {
		return http.StatusOK
	}
	switch o.Reason {
	case command.ReasonNotFound:
		return http.StatusNotFound
	case command.ReasonForbidden:
		return http.StatusForbidden
	case command.ReasonConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// now is the wall-clock source for slot bookkeeping timestamps, the one
// place this package touches real time (request handling, not
// simulation state).
func now() time.Time { return time.Now() }
