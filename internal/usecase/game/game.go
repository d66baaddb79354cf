package game

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"persona_chess/internal/clock"
	"persona_chess/internal/domain/game"
	"persona_chess/internal/engine/persona"
	"persona_chess/internal/errors"
	"persona_chess/internal/oracle"
)

// LiveStore keeps the latest snapshot of every game, finished ones included.
type LiveStore interface {
	SaveLiveGame(ctx context.Context, state game.GameState) error
	LoadLiveGame(ctx context.Context, gameID string) (game.GameState, error)
}

type ArchiveStore interface {
	ArchiveGame(ctx context.Context, g game.ArchivedGame) error
	RecentGames(ctx context.Context, limit int) ([]game.ArchivedGame, error)
}

// SessionStore binds a player's session cookie to the game it may drive.
type SessionStore interface {
	StoreSession(ctx context.Context, sessionID, gameID string) error
	GetGameIDBySession(ctx context.Context, sessionID string) (string, bool)
}

type Config struct {
	DefaultPersona     string
	DefaultTimeControl string
	Cadence            time.Duration
	StoreTimeout       time.Duration
}

type GameUseCase struct {
	ctx      context.Context
	log      *zap.SugaredLogger
	cfg      Config
	engine   Engine
	live     LiveStore
	archive  ArchiveStore
	sessions SessionStore

	mu    sync.RWMutex
	games map[string]*Session

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// NewGameUseCase wires the game manager. live, archive and sessions may be
// nil; the corresponding features then degrade to in-memory only.
func NewGameUseCase(ctx context.Context, log *zap.SugaredLogger, cfg Config, engine Engine, live LiveStore, archive ArchiveStore, sessions SessionStore) *GameUseCase {
	if cfg.DefaultTimeControl == "" {
		cfg.DefaultTimeControl = clock.PresetBlitz
	}
	if cfg.Cadence <= 0 {
		cfg.Cadence = clock.DefaultCadence
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 5 * time.Second
	}
	return &GameUseCase{
		ctx:      ctx,
		log:      log,
		cfg:      cfg,
		engine:   engine,
		live:     live,
		archive:  archive,
		sessions: sessions,
		games:    make(map[string]*Session),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *GameUseCase) CreateGame(ctx context.Context, req game.CreateGameRequest) (game.CreateGameResponse, error) {
	personaName := req.Persona
	if personaName == "" {
		personaName = g.cfg.DefaultPersona
	}
	profile := persona.Resolve(personaName)

	tcName := req.TimeControl
	if tcName == "" {
		tcName = g.cfg.DefaultTimeControl
	}
	tc, ok := clock.LookupPreset(tcName)
	if !ok {
		return game.CreateGameResponse{}, fmt.Errorf("%w: %q", errors.ErrUnknownTimeControl, tcName)
	}

	color, err := g.pickColor(req.Color)
	if err != nil {
		return game.CreateGameResponse{}, err
	}

	board := oracle.NewGame()
	if fen := strings.TrimSpace(req.StartFEN); fen != "" {
		if board, err = oracle.FromFEN(fen); err != nil {
			return game.CreateGameResponse{}, fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
		}
	}

	gameID := uuid.New().String()
	sessionID := uuid.New().String()
	if g.sessions != nil {
		if err := g.sessions.StoreSession(ctx, sessionID, gameID); err != nil {
			g.log.Errorw("failed to store session", "game", gameID, "error", err)
			return game.CreateGameResponse{}, errors.ErrCreateGameFailed
		}
	}

	s := newSession(g.ctx, sessionParams{
		id:          gameID,
		profile:     profile,
		tc:          tc,
		playerColor: color,
		board:       board,
		engine:      g.engine,
		cadence:     g.cfg.Cadence,
		log:         g.log,
		persist:     g.saveLive,
		finished:    g.onFinished,
	})

	g.mu.Lock()
	g.games[gameID] = s
	g.mu.Unlock()

	s.begin()
	g.log.Infow("game created", "game", gameID, "persona", profile.Name, "time_control", tc.Name, "color", color)

	return game.CreateGameResponse{GameID: gameID, SessionID: sessionID, State: s.State()}, nil
}

// GetSession returns the in-memory session of an active game.
func (g *GameUseCase) GetSession(gameID string) (*Session, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.games[gameID]
	if !ok {
		return nil, errors.ErrGameNotFound
	}
	return s, nil
}

// activeSession reports ErrGameOver for games that already left memory.
func (g *GameUseCase) activeSession(ctx context.Context, gameID string) (*Session, error) {
	s, err := g.GetSession(gameID)
	if err == nil {
		return s, nil
	}
	if g.live != nil {
		if state, lerr := g.live.LoadLiveGame(ctx, gameID); lerr == nil && state.Status == game.StatusFinished {
			return nil, errors.ErrGameOver
		}
	}
	return nil, err
}

// GetGame serves active games from memory and finished ones from the live
// store.
func (g *GameUseCase) GetGame(ctx context.Context, gameID string) (game.GameState, error) {
	if s, err := g.GetSession(gameID); err == nil {
		return s.State(), nil
	}
	if g.live == nil {
		return game.GameState{}, errors.ErrGameNotFound
	}
	state, err := g.live.LoadLiveGame(ctx, gameID)
	if err != nil {
		return game.GameState{}, err
	}
	return state, nil
}

// Authorize checks that sessionID was issued for gameID.
func (g *GameUseCase) Authorize(ctx context.Context, gameID, sessionID string) error {
	if g.sessions == nil {
		return nil
	}
	if sessionID == "" {
		return errors.ErrSessionNotFound
	}
	bound, ok := g.sessions.GetGameIDBySession(ctx, sessionID)
	if !ok || bound != gameID {
		return errors.ErrSessionNotFound
	}
	return nil
}

func (g *GameUseCase) MakeMove(ctx context.Context, gameID, uci string) (game.GameState, error) {
	md, ok := game.ParseUCI(uci)
	if !ok {
		return game.GameState{}, fmt.Errorf("%w: %q", errors.ErrIllegalMove, uci)
	}
	s, err := g.activeSession(ctx, gameID)
	if err != nil {
		return game.GameState{}, err
	}
	return s.PlayerMove(md)
}

func (g *GameUseCase) Resign(ctx context.Context, gameID string) (game.GameState, error) {
	s, err := g.activeSession(ctx, gameID)
	if err != nil {
		return game.GameState{}, err
	}
	return s.Resign()
}

func (g *GameUseCase) Pause(ctx context.Context, gameID string) (game.GameState, error) {
	s, err := g.activeSession(ctx, gameID)
	if err != nil {
		return game.GameState{}, err
	}
	return s.Pause()
}

func (g *GameUseCase) Resume(ctx context.Context, gameID string) (game.GameState, error) {
	s, err := g.activeSession(ctx, gameID)
	if err != nil {
		return game.GameState{}, err
	}
	return s.Resume()
}

func (g *GameUseCase) GetArchive(ctx context.Context, limit int) ([]game.ArchivedGame, error) {
	if g.archive == nil {
		return []game.ArchivedGame{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return g.archive.RecentGames(ctx, limit)
}

// Shutdown stops every session's clock and drops pending engine replies.
func (g *GameUseCase) Shutdown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, s := range g.games {
		s.Close()
		delete(g.games, id)
	}
}

func (g *GameUseCase) pickColor(raw string) (game.Color, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "random":
		g.rndMu.Lock()
		defer g.rndMu.Unlock()
		if g.rnd.Intn(2) == 0 {
			return game.White, nil
		}
		return game.Black, nil
	}
	c, ok := game.ParseColor(raw)
	if !ok {
		return "", fmt.Errorf("%w: color %q", errors.ErrInvalidRequest, raw)
	}
	return c, nil
}

func (g *GameUseCase) saveLive(state game.GameState) {
	if g.live == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.StoreTimeout)
	defer cancel()
	if err := g.live.SaveLiveGame(ctx, state); err != nil {
		g.log.Errorw("failed to save live game", "game", state.ID, "error", err)
	}
}

func (g *GameUseCase) onFinished(state game.GameState) {
	g.saveLive(state)

	g.mu.Lock()
	delete(g.games, state.ID)
	g.mu.Unlock()

	if g.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.StoreTimeout)
	defer cancel()
	if err := g.archive.ArchiveGame(ctx, game.NewArchivedGame(state, time.Now())); err != nil {
		g.log.Errorw("failed to archive game", "game", state.ID, "error", err)
		return
	}
	g.log.Infow("game archived", "game", state.ID, "result", state.Result, "reason", state.Reason)
}
