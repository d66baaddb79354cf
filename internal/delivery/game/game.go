package game

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"persona_chess/internal/bootstrap"
	"persona_chess/internal/domain/game"
	"persona_chess/internal/errors"
	"persona_chess/internal/httpresponse"
	gameuc "persona_chess/internal/usecase/game"
	"persona_chess/internal/utils"
)

const (
	SessionCookie = "session_id"
	SessionHeader = "X-Session-ID"
)

type GameHandler struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewGameHandler(cfg bootstrap.Config, log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *GameHandler {
	return &GameHandler{
		cfg:    cfg,
		log:    log,
		gameUC: gameUC,
	}
}

func (g *GameHandler) Register(r chi.Router) {
	r.Post("/games", g.HandleNewGame)
	r.Get("/games/{id}", g.HandleGetGame)
	r.Post("/games/{id}/moves", g.HandleMove)
	r.Post("/games/{id}/resign", g.HandleResign)
	r.Post("/games/{id}/pause", g.HandlePause)
	r.Post("/games/{id}/resume", g.HandleResume)
	r.Get("/games/{id}/ws", g.HandleGameWS)
	r.Get("/archive", g.HandleArchive)
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var req game.CreateGameRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil && !stderrors.Is(err, io.EOF) {
		g.log.Error("JSON decode error:", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := g.gameUC.CreateGame(r.Context(), req)
	if err != nil {
		g.writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    resp.SessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(g.cfg.SessionTTL().Seconds()),
	})
	g.log.Infof("new game created: %s", resp.GameID)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (g *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	state, err := g.gameUC.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (g *GameHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	gameID, ok := g.authorize(w, r)
	if !ok {
		return
	}

	var req game.MoveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := g.gameUC.MakeMove(r.Context(), gameID, req.Move)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (g *GameHandler) HandleResign(w http.ResponseWriter, r *http.Request) {
	g.handleAction(w, r, g.gameUC.Resign)
}

func (g *GameHandler) HandlePause(w http.ResponseWriter, r *http.Request) {
	g.handleAction(w, r, g.gameUC.Pause)
}

func (g *GameHandler) HandleResume(w http.ResponseWriter, r *http.Request) {
	g.handleAction(w, r, g.gameUC.Resume)
}

func (g *GameHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	games, err := g.gameUC.GetArchive(r.Context(), limit)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, games)
}

func (g *GameHandler) handleAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, gameID string) (game.GameState, error)) {
	gameID, ok := g.authorize(w, r)
	if !ok {
		return
	}
	state, err := action(r.Context(), gameID)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (g *GameHandler) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	gameID := chi.URLParam(r, "id")
	if err := g.gameUC.Authorize(r.Context(), gameID, SessionID(r)); err != nil {
		g.writeError(w, err)
		return "", false
	}
	return gameID, true
}

// SessionID takes the player's session from the cookie, the header or the
// query string, in that order.
func SessionID(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if v := r.Header.Get(SessionHeader); v != "" {
		return v
	}
	return r.URL.Query().Get(SessionCookie)
}

func (g *GameHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case stderrors.Is(err, errors.ErrGameNotFound):
		status = http.StatusNotFound
	case stderrors.Is(err, errors.ErrSessionNotFound):
		status = http.StatusUnauthorized
	case stderrors.Is(err, errors.ErrIllegalMove),
		stderrors.Is(err, errors.ErrInvalidRequest),
		stderrors.Is(err, errors.ErrUnknownTimeControl):
		status = http.StatusBadRequest
	case stderrors.Is(err, errors.ErrNotYourTurn),
		stderrors.Is(err, errors.ErrGamePaused),
		stderrors.Is(err, errors.ErrGameOver):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		g.log.Error(err)
		httpresponse.WriteErrorWithStatus(w, status, errors.ErrInternal.Error())
		return
	}
	g.log.Debugf("request failed: %v", err)
	httpresponse.WriteErrorWithStatus(w, status, err.Error())
}
