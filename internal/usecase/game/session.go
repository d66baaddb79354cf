package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"persona_chess/internal/clock"
	"persona_chess/internal/domain/game"
	"persona_chess/internal/engine/persona"
	"persona_chess/internal/engine/selector"
	"persona_chess/internal/errors"
	"persona_chess/internal/oracle"
)

// Engine produces the persona's reply. *selector.Selector and the remote
// gRPC client both satisfy it.
type Engine interface {
	Think(ctx context.Context, state oracle.Position, side game.Color, profile persona.Profile) <-chan selector.Result
}

const subscriberBuffer = 32

// Session is one human-versus-persona game: the board, the clock and the
// engine reply in flight. All board and status changes happen under mu.
type Session struct {
	id          string
	profile     persona.Profile
	tc          clock.TimeControl
	playerColor game.Color
	createdAt   time.Time
	log         *zap.SugaredLogger
	engine      Engine

	ctx    context.Context
	cancel context.CancelFunc
	clock  *clock.Clock

	mu        sync.Mutex
	board     *oracle.Game
	plies     int
	gen       uint64
	status    game.Status
	result    string
	reason    string
	updatedAt time.Time
	// engine reply that arrived while the clock was paused
	held *heldReply

	subMu   sync.Mutex
	subs    map[int]chan game.Event
	nextSub int

	// persist and finished are called without mu held.
	persist  func(game.GameState)
	finished func(game.GameState)
}

type heldReply struct {
	gen uint64
	res selector.Result
}

type sessionParams struct {
	id          string
	profile     persona.Profile
	tc          clock.TimeControl
	playerColor game.Color
	board       *oracle.Game
	engine      Engine
	cadence     time.Duration
	log         *zap.SugaredLogger
	persist     func(game.GameState)
	finished    func(game.GameState)
}

func newSession(parent context.Context, p sessionParams) *Session {
	ctx, cancel := context.WithCancel(parent)
	now := time.Now()
	s := &Session{
		id:          p.id,
		profile:     p.profile,
		tc:          p.tc,
		playerColor: p.playerColor,
		createdAt:   now,
		updatedAt:   now,
		log:         p.log.With("game", p.id),
		engine:      p.engine,
		ctx:         ctx,
		cancel:      cancel,
		clock:       clock.New(clock.WithCadence(p.cadence)),
		board:       p.board,
		status:      game.StatusActive,
		result:      game.ResultOngoing,
		subs:        make(map[int]chan game.Event),
		persist:     p.persist,
		finished:    p.finished,
	}
	if s.persist == nil {
		s.persist = func(game.GameState) {}
	}
	if s.finished == nil {
		s.finished = func(game.GameState) {}
	}

	s.clock.Initialize(p.tc)
	s.clock.OnTick(s.onTick)
	s.clock.OnTimeout(s.onTimeout)
	return s
}

// begin starts the clock runner and, when the persona has the move, its
// first reply.
func (s *Session) begin() {
	go s.clock.Run(s.ctx)

	s.mu.Lock()
	if s.board.IsGameOver() {
		s.finishFromBoardLocked()
		state := s.stateLocked()
		s.mu.Unlock()
		s.afterFinish(state)
		return
	}
	if s.board.Turn() != s.playerColor {
		s.scheduleEngineLocked()
	}
	state := s.stateLocked()
	s.mu.Unlock()
	s.persist(state)
}

func (s *Session) State() game.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == game.StatusFinished
}

// PlayerMove applies the human's move and hands the turn to the persona.
func (s *Session) PlayerMove(md game.MoveDescriptor) (game.GameState, error) {
	s.mu.Lock()
	if s.status == game.StatusFinished {
		s.mu.Unlock()
		return game.GameState{}, errors.ErrGameOver
	}
	if s.clock.Snapshot().Paused {
		s.mu.Unlock()
		return game.GameState{}, errors.ErrGamePaused
	}
	if s.board.Turn() != s.playerColor {
		s.mu.Unlock()
		return game.GameState{}, errors.ErrNotYourTurn
	}
	if _, err := s.applyLocked(md); err != nil {
		s.mu.Unlock()
		return game.GameState{}, err
	}
	over := s.status == game.StatusFinished
	if !over {
		s.scheduleEngineLocked()
	}
	state := s.stateLocked()
	s.mu.Unlock()

	s.publish(game.Event{Type: game.EventState, State: &state})
	if over {
		s.afterFinish(state)
	} else {
		s.persist(state)
	}
	return state, nil
}

func (s *Session) Resign() (game.GameState, error) {
	s.mu.Lock()
	if s.status == game.StatusFinished {
		s.mu.Unlock()
		return game.GameState{}, errors.ErrGameOver
	}
	s.board.Resign(s.playerColor)
	s.finishLocked(game.WinFor(s.playerColor.Other()), game.ReasonResignation)
	state := s.stateLocked()
	s.mu.Unlock()

	s.afterFinish(state)
	return state, nil
}

func (s *Session) Pause() (game.GameState, error) {
	s.mu.Lock()
	if s.status == game.StatusFinished {
		s.mu.Unlock()
		return game.GameState{}, errors.ErrGameOver
	}
	s.clock.Pause()
	state := s.stateLocked()
	s.mu.Unlock()

	s.publish(game.Event{Type: game.EventState, State: &state})
	return state, nil
}

func (s *Session) Resume() (game.GameState, error) {
	s.mu.Lock()
	if s.status == game.StatusFinished {
		s.mu.Unlock()
		return game.GameState{}, errors.ErrGameOver
	}
	s.clock.Resume()
	held := s.held
	s.held = nil
	state := s.stateLocked()
	s.mu.Unlock()

	s.publish(game.Event{Type: game.EventState, State: &state})
	if held != nil {
		s.engineReply(held.gen, held.res)
	}
	return state, nil
}

// Subscribe returns a channel of game events and a func that detaches it.
// Slow subscribers lose events rather than stall the game.
func (s *Session) Subscribe() (<-chan game.Event, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan game.Event, subscriberBuffer)
	s.subs[id] = ch
	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Close stops the clock runner and drops any engine reply in flight.
func (s *Session) Close() {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()
	s.cancel()
}

func (s *Session) applyLocked(md game.MoveDescriptor) (oracle.Move, error) {
	played, err := s.board.Apply(md)
	if err != nil {
		return oracle.Move{}, fmt.Errorf("%w: %s", errors.ErrIllegalMove, md.UCI())
	}
	s.gen++
	s.plies++
	s.updatedAt = time.Now()

	// The clock starts on the first ply and switches on every one after it.
	if s.plies == 1 {
		s.clock.Start(s.clockSide(s.board.Turn()))
	} else {
		s.clock.SwitchActive()
	}

	if s.board.IsGameOver() {
		s.finishFromBoardLocked()
	}
	return played, nil
}

func (s *Session) scheduleEngineLocked() {
	probe, err := s.board.Copy()
	if err != nil {
		s.log.Errorw("failed to copy board for engine", "error", err)
		return
	}
	gen := s.gen
	side := s.playerColor.Other()
	results := s.engine.Think(s.ctx, probe, side, s.profile)
	go func() {
		for res := range results {
			s.engineReply(gen, res)
		}
	}()
}

func (s *Session) engineReply(gen uint64, res selector.Result) {
	s.mu.Lock()
	if gen != s.gen || s.status == game.StatusFinished {
		s.mu.Unlock()
		s.log.Debugw("discarding stale engine reply", "gen", gen)
		return
	}
	if res.Err != nil {
		s.mu.Unlock()
		if s.ctx.Err() == nil {
			s.log.Errorw("engine failed", "error", res.Err)
			s.publish(game.Event{Type: game.EventError, Error: res.Err.Error()})
		}
		return
	}
	if !res.OK {
		s.mu.Unlock()
		s.log.Warnw("engine found no legal move")
		return
	}
	if s.clock.Snapshot().Paused {
		s.held = &heldReply{gen: gen, res: res}
		s.mu.Unlock()
		s.log.Debugw("holding engine reply until resume", "move", res.Move.UCI())
		return
	}

	played, err := s.applyLocked(res.Move)
	if err != nil {
		s.mu.Unlock()
		s.log.Errorw("engine produced an illegal move", "move", res.Move.UCI(), "error", err)
		s.publish(game.Event{Type: game.EventError, Error: err.Error()})
		return
	}
	state := s.stateLocked()
	over := s.status == game.StatusFinished
	s.mu.Unlock()

	history := state.Moves
	em := &game.EngineMove{
		Move:    history[len(history)-1],
		Path:    string(res.Path),
		Score:   res.Score,
		ThinkMs: res.Delay.Milliseconds(),
	}
	s.log.Infow("engine moved", "move", played.SAN, "path", res.Path, "persona", s.profile.Name)
	s.publish(game.Event{Type: game.EventEngineMove, EngineMove: em})
	s.publish(game.Event{Type: game.EventState, State: &state})
	if over {
		s.afterFinish(state)
		return
	}
	s.persist(state)
}

func (s *Session) onTick(snap clock.Snapshot) {
	d := snap.Display()
	s.publish(game.Event{Type: game.EventClock, Clock: &d})
}

func (s *Session) onTimeout(side clock.Side) {
	s.mu.Lock()
	if s.status == game.StatusFinished {
		s.mu.Unlock()
		return
	}
	loser := s.playerColor
	if side == clock.SideOpponent {
		loser = s.playerColor.Other()
	}
	s.finishLocked(game.WinFor(loser.Other()), game.ReasonTimeout)
	state := s.stateLocked()
	s.mu.Unlock()

	s.afterFinish(state)
}

func (s *Session) finishFromBoardLocked() {
	result, method := s.board.Outcome()
	s.finishLocked(result, reasonFor(method))
}

func (s *Session) finishLocked(result, reason string) {
	s.status = game.StatusFinished
	s.result = result
	s.reason = reason
	s.updatedAt = time.Now()
	s.gen++
	s.held = nil
	s.clock.Stop()
	s.log.Infow("game finished", "result", result, "reason", reason)
}

func (s *Session) afterFinish(state game.GameState) {
	s.publish(game.Event{Type: game.EventGameOver, State: &state})
	s.cancel()
	s.finished(state)
}

func (s *Session) stateLocked() game.GameState {
	history := s.board.History()
	moves := make([]game.PlayedMove, 0, len(history))
	for i, m := range history {
		moves = append(moves, game.PlayedMove{
			Ply:   i + 1,
			Color: m.Color,
			Move:  m.Descriptor(),
			SAN:   m.SAN,
		})
	}
	return game.GameState{
		ID:          s.id,
		Persona:     s.profile.Name,
		TimeControl: s.tc.Name,
		PlayerColor: s.playerColor,
		StartFEN:    s.board.StartFEN(),
		FEN:         s.board.FEN(),
		PGN:         s.board.PGN(),
		Turn:        s.board.Turn(),
		InCheck:     s.board.InCheck(),
		Moves:       moves,
		Status:      s.status,
		Result:      s.result,
		Reason:      s.reason,
		Clock:       game.NewClockState(s.clock.Snapshot()),
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.updatedAt,
	}
}

func (s *Session) publish(ev game.Event) {
	ev.GameID = s.id
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Session) clockSide(c game.Color) clock.Side {
	if c == s.playerColor {
		return clock.SidePlayer
	}
	return clock.SideOpponent
}

func reasonFor(method string) string {
	switch strings.ToLower(method) {
	case "checkmate":
		return game.ReasonCheckmate
	case "stalemate":
		return game.ReasonStalemate
	case "threefoldrepetition", "fivefoldrepetition":
		return game.ReasonThreefold
	case "insufficientmaterial":
		return game.ReasonInsufficientMaterial
	}
	return game.ReasonDraw
}
