package engine

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"go.uber.org/zap"

	"persona_chess/internal/bootstrap"
	"persona_chess/internal/clock"
	"persona_chess/internal/domain/game"
	"persona_chess/internal/engine/persona"
	"persona_chess/internal/errors"
	engineuc "persona_chess/internal/usecase/engine"
)

type EngineHandler struct {
	cfg      bootstrap.Config
	log      *zap.SugaredLogger
	engineUC *engineuc.EngineUseCase
}

func NewEngineHandler(cfg bootstrap.Config, log *zap.SugaredLogger, uc *engineuc.EngineUseCase) *EngineHandler {
	return &EngineHandler{
		cfg:      cfg,
		log:      log,
		engineUC: uc,
	}
}

// HandleGenerateMove answers with the persona's move for a posted position.
func (e *EngineHandler) HandleGenerateMove(w http.ResponseWriter, r *http.Request) {
	var req game.EngineMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(e.log, w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	resp, err := e.engineUC.GenMove(r.Context(), req)
	switch {
	case err == nil:
	case stderrors.Is(err, errors.ErrInvalidRequest):
		writeJSONError(e.log, w, http.StatusBadRequest, err.Error())
		return
	case stderrors.Is(err, errors.ErrGameOver):
		writeJSONError(e.log, w, http.StatusConflict, err.Error())
		return
	default:
		e.log.Errorf("failed to generate engine move: %v", err)
		writeJSONError(e.log, w, http.StatusInternalServerError, "Failed to generate engine move")
		return
	}

	writeJSON(e.log, w, http.StatusOK, resp)
}

type personaView struct {
	Name               string  `json:"name"`
	Rating             int     `json:"rating"`
	Depth              int     `json:"depth"`
	ThinkMs            int64   `json:"think_ms"`
	Intensity          float64 `json:"intensity"`
	MistakeRate        float64 `json:"mistake_rate"`
	SacrificeThreshold float64 `json:"sacrifice_threshold"`
}

func (e *EngineHandler) HandlePersonas(w http.ResponseWriter, r *http.Request) {
	all := persona.All()
	out := make([]personaView, 0, len(all))
	for _, p := range all {
		out = append(out, personaView{
			Name:               p.Name,
			Rating:             p.RatingProxy,
			Depth:              p.SearchDepthProxy,
			ThinkMs:            p.ThinkTime.Milliseconds(),
			Intensity:          p.Intensity,
			MistakeRate:        p.MistakeRate,
			SacrificeThreshold: p.SacrificeThreshold,
		})
	}
	writeJSON(e.log, w, http.StatusOK, out)
}

type timeControlView struct {
	Name         string `json:"name"`
	InitialSec   int64  `json:"initial_sec"`
	IncrementSec int64  `json:"increment_sec"`
	Unlimited    bool   `json:"unlimited"`
}

func (e *EngineHandler) HandleTimeControls(w http.ResponseWriter, r *http.Request) {
	presets := clock.Presets()
	out := make([]timeControlView, 0, len(presets))
	for _, tc := range presets {
		out = append(out, timeControlView{
			Name:         tc.Name,
			InitialSec:   int64(tc.Initial.Seconds()),
			IncrementSec: int64(tc.Increment.Seconds()),
			Unlimited:    tc.Unlimited,
		})
	}
	writeJSON(e.log, w, http.StatusOK, out)
}

func writeJSON(log *zap.SugaredLogger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("writeJSON encode error: %v", err)
	}
}

func writeJSONError(log *zap.SugaredLogger, w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
	log.Debugf("writeJSONError: %s", msg)
}
