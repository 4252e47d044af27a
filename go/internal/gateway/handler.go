package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcdev12/sidereal/go/internal/game"
	"github.com/mcdev12/sidereal/go/internal/models"
	"github.com/mcdev12/sidereal/go/internal/rules"
	"github.com/rs/zerolog/log"
)

// GameApp defines what the HTTP surface needs from the game session
type GameApp interface {
	State() *game.State
	Preferences() models.Preferences
	NewGame(ctx context.Context, req game.NewGameRequest) (*game.State, error)
	Advance(ctx context.Context) (*game.State, error)
	Navigate(ctx context.Context, descriptor string) (*game.State, error)
	ToMainMenu() *game.State
	StartTimer() (*game.State, error)
	PauseTimer() (*game.State, error)
	ResetTimer() (*game.State, error)
}

// NewGameBody is the body of POST /api/game. Omitted fields fall back to
// the saved preferences.
type NewGameBody struct {
	Factions       models.FactionSelection `json:"factions"`
	TradeTimeLimit *models.TradeTimeLimit  `json:"trade_time_limit"`
}

// NavigateBody is the body of POST /api/game/navigate.
type NavigateBody struct {
	Descriptor string `json:"descriptor"`
}

// FactionInfo describes a faction for the setup screen.
type FactionInfo struct {
	ID models.FactionID `json:"id"`
	rules.FactionNames
}

// GameHandler serves the game API
type GameHandler struct {
	app GameApp
}

// NewGameHandler creates a new game handler
func NewGameHandler(app GameApp) *GameHandler {
	return &GameHandler{app: app}
}

// RegisterRoutes registers the API routes with an HTTP mux
func (h *GameHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/state", h.HandleGetState)
	mux.HandleFunc("GET /api/preferences", h.HandleGetPreferences)
	mux.HandleFunc("GET /api/factions", h.HandleGetFactions)
	mux.HandleFunc("POST /api/game", h.HandleNewGame)
	mux.HandleFunc("DELETE /api/game", h.HandleMainMenu)
	mux.HandleFunc("POST /api/game/advance", h.HandleAdvance)
	mux.HandleFunc("POST /api/game/navigate", h.HandleNavigate)
	mux.HandleFunc("POST /api/timer/start", h.timerHandler(h.app.StartTimer))
	mux.HandleFunc("POST /api/timer/pause", h.timerHandler(h.app.PauseTimer))
	mux.HandleFunc("POST /api/timer/reset", h.timerHandler(h.app.ResetTimer))
}

// HandleGetState handles GET /api/state
func (h *GameHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.State())
}

// HandleGetPreferences handles GET /api/preferences
func (h *GameHandler) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Preferences())
}

// HandleGetFactions handles GET /api/factions
func (h *GameHandler) HandleGetFactions(w http.ResponseWriter, r *http.Request) {
	factions := make([]FactionInfo, 0, len(models.AllFactions))
	for _, id := range models.AllFactions {
		names, err := rules.NamesFor(id)
		if err != nil {
			writeError(w, err)
			return
		}
		factions = append(factions, FactionInfo{ID: id, FactionNames: names})
	}
	writeJSON(w, http.StatusOK, factions)
}

// HandleNewGame handles POST /api/game
func (h *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var body NewGameBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	prefs := h.app.Preferences()
	req := game.NewGameRequest{Factions: body.Factions, TradeTimeLimit: prefs.TradeTimeLimit}
	if req.Factions == nil {
		req.Factions = prefs.Factions
	}
	if body.TradeTimeLimit != nil {
		req.TradeTimeLimit = *body.TradeTimeLimit
	}

	state, err := h.app.NewGame(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

// HandleMainMenu handles DELETE /api/game
func (h *GameHandler) HandleMainMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.ToMainMenu())
}

// HandleAdvance handles POST /api/game/advance
func (h *GameHandler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	state, err := h.app.Advance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleNavigate handles POST /api/game/navigate
func (h *GameHandler) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	var body NavigateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	state, err := h.app.Navigate(r.Context(), body.Descriptor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *GameHandler) timerHandler(command func() (*game.State, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := command()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrConfiguration), errors.Is(err, rules.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrParse), errors.Is(err, game.ErrInvalidRound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrInvalidTransition),
		errors.Is(err, game.ErrNoGame),
		errors.Is(err, game.ErrNoTimer):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
