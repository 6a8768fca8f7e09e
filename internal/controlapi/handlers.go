package controlapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/archon-sim/core/internal/diplomacy"
	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/gamestate"
	"github.com/archon-sim/core/internal/ids"
	"github.com/archon-sim/core/internal/resource"
	"github.com/archon-sim/core/internal/saveload"
)

// --- Time control ---

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.submitCommand(w, gamestate.PauseCommand{})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	var req struct{ Speed uint8 }
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.submitCommand(w, gamestate.ResumeCommand{Speed: req.Speed})
}

func (s *Server) handleSetSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct{ Speed uint8 }
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.submitCommand(w, gamestate.SetSpeedCommand{Speed: req.Speed})
}

// --- Diplomacy ---

func (s *Server) handleDeclareWar(w http.ResponseWriter, r *http.Request) {
	var req struct{ Attacker, Defender uint16 }
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.submitCommand(w, gamestate.DeclareWarCommand{
		Attacker: ids.CountryID(req.Attacker),
		Defender: ids.CountryID(req.Defender),
	})
}

func (s *Server) handleMakePeace(w http.ResponseWriter, r *http.Request) {
	var req struct{ A, B uint16 }
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.submitCommand(w, gamestate.MakePeaceCommand{A: ids.CountryID(req.A), B: ids.CountryID(req.B)})
}

func (s *Server) handleImproveRelations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		A, B       uint16
		ModifierID uint16
		DecayTicks uint32
		Magnitude  int64
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.submitCommand(w, gamestate.ImproveRelationsCommand{
		A:          ids.CountryID(req.A),
		B:          ids.CountryID(req.B),
		ModifierID: ids.ModifierTypeID(req.ModifierID),
		AtTick:     s.State.CurrentTick(),
		DecayTicks: req.DecayTicks,
		Magnitude:  fixedpoint.FixedPoint64(req.Magnitude),
	})
}

var treatyFlagByName = map[string]diplomacy.TreatyFlags{
	"alliance":        diplomacy.FlagAlliance,
	"nap":             diplomacy.FlagNonAggressionPact,
	"guarantee":       diplomacy.FlagGuaranteeFrom1To2,
	"military_access": diplomacy.FlagMilitaryAccessFrom1To2,
}

func (s *Server) handleSetTreaty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		A, B uint16
		Kind string // alliance | nap | guarantee | military_access
		Set  bool
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	flag, ok := treatyFlagByName[req.Kind]
	if !ok {
		http.Error(w, fmt.Sprintf("controlapi: unknown treaty kind %q", req.Kind), http.StatusBadRequest)
		return
	}
	s.submitCommand(w, gamestate.SetTreatyCommand{
		A: ids.CountryID(req.A), B: ids.CountryID(req.B), Flag: flag, Set: req.Set,
	})
}

// --- Military ---

func (s *Server) handleCreateUnit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Province uint16
		Owner    uint16
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.submitCommand(w, gamestate.CreateUnitCommand{
		Province: ids.ProvinceID(req.Province),
		Owner:    ids.CountryID(req.Owner),
	})
}

func (s *Server) handleMoveUnit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Unit        uint16
		Destination uint16
		UnitTypeID  uint16
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.submitCommand(w, gamestate.MoveUnitCommand{
		Unit:        ids.UnitID(req.Unit),
		Destination: ids.ProvinceID(req.Destination),
		UnitTypeID:  ids.ModifierTypeID(req.UnitTypeID),
	})
}

// --- Resource ---

func (s *Server) handleAddResource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Country uint32
		Type    uint16
		Delta   int64
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.submitCommand(w, gamestate.AddResourceCommand{
		Entity: resource.EntityID(req.Country),
		Type:   ids.ModifierTypeID(req.Type),
		Delta:  fixedpoint.FixedPoint64(req.Delta),
	})
}

// --- Save/Load ---

func (s *Server) handleQuicksave(w http.ResponseWriter, r *http.Request) {
	s.State.Lock()
	f, err := s.State.Save("quicksave")
	s.State.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	path := s.Slots.PathFor(saveload.SlotQuicksave, "quicksave")
	if err := saveload.WriteAtomic(path, f); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.Slots.Register(saveload.SlotInfo{
		Name: "quicksave", Kind: saveload.SlotQuicksave, FilePath: path,
		CurrentTick: uint64(f.Metadata.CurrentTick), CreatedAt: now(),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "saved", "tick": f.Metadata.CurrentTick})
}

func (s *Server) handleQuickload(w http.ResponseWriter, r *http.Request) {
	path := s.Slots.PathFor(saveload.SlotQuicksave, "quicksave")
	chain := saveload.NewMigratorChain()
	f, err := saveload.ReadFile(path, chain)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.State.Lock()
	defer s.State.Unlock()
	if err := s.State.RestoreFrom(f); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := saveload.ReplayCommandLog(f, s.State.ReplayLoggedCommand, s.State.ChecksumBLAKE3); err != nil {
		s.Log.Error.Printf("controlapi: quickload determinism check failed: %v", err)
		if err != saveload.ErrDeterminismBreak {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "loaded", "tick": f.Metadata.CurrentTick})
}

// --- Diagnostics ---

// handleStressDiplomacy submits ModifiersPerPair opinion modifiers for
// every pair drawn from Countries, for load-testing the decay
// pipeline's Mark/Compact/Rebuild cost at scale.
func (s *Server) handleStressDiplomacy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Countries         []uint16
		ModifiersPerPair int
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	start := time.Now()
	applied := 0
	tick := s.State.CurrentTick()
	for i := 0; i < len(req.Countries); i++ {
		for j := i + 1; j < len(req.Countries); j++ {
			a, b := ids.CountryID(req.Countries[i]), ids.CountryID(req.Countries[j])
			for k := 0; k < req.ModifiersPerPair; k++ {
				outcome := s.State.Submit(s.signer.Sign(gamestate.ImproveRelationsCommand{
					A: a, B: b, ModifierID: ids.ModifierTypeID(k % 64),
					AtTick: tick, DecayTicks: 360, Magnitude: fixedpoint.FromInt(1),
				}))
				if outcome.Accepted {
					applied++
				}
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"applied":  applied,
		"elapsed":  time.Since(start).String(),
	})
}

// --- Read-only queries ---

func (s *Server) handleQueryProvince(w http.ResponseWriter, r *http.Request) {
	id, err := queryUint16(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	info, ok := s.State.ProvinceByID(ids.ProvinceID(id))
	if !ok {
		http.Error(w, "province not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleQueryCountry(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	info, ok := s.State.CountryByTag(tag)
	if !ok {
		http.Error(w, "country not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleQueryUnit(w http.ResponseWriter, r *http.Request) {
	id, err := queryUint16(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	info, ok := s.State.UnitByID(ids.UnitID(id))
	if !ok {
		http.Error(w, "unit not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tick": s.State.CurrentTick(),
	})
}

func queryUint16(r *http.Request, key string) (uint16, error) {
	var v int
	_, err := fmt.Sscanf(r.URL.Query().Get(key), "%d", &v)
	if err != nil {
		return 0, fmt.Errorf("controlapi: missing or invalid %q", key)
	}
	return uint16(v), nil
}
