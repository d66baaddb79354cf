package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"persona_chess/internal/domain/game"
	"persona_chess/internal/engine/persona"
	"persona_chess/internal/engine/selector"
	"persona_chess/internal/errors"
	"persona_chess/internal/oracle"
)

type Thinker interface {
	Think(ctx context.Context, state oracle.Position, side game.Color, profile persona.Profile) <-chan selector.Result
}

// EngineUseCase answers stateless "what would this persona play here"
// requests for the HTTP endpoint and the gRPC service.
type EngineUseCase struct {
	thinker        Thinker
	defaultPersona string
}

func NewEngineUseCase(thinker Thinker, defaultPersona string) *EngineUseCase {
	return &EngineUseCase{thinker: thinker, defaultPersona: defaultPersona}
}

// PositionFromRequest replays req.Moves on top of req.FEN (standard start
// when empty).
func PositionFromRequest(req game.EngineMoveRequest) (*oracle.Game, error) {
	pos, err := oracle.FromMoves(strings.TrimSpace(req.FEN), req.Moves)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}
	return pos, nil
}

func (e *EngineUseCase) GenMove(ctx context.Context, req game.EngineMoveRequest) (game.EngineMoveResponse, error) {
	pos, err := PositionFromRequest(req)
	if err != nil {
		return game.EngineMoveResponse{}, err
	}
	if pos.IsGameOver() {
		return game.EngineMoveResponse{}, errors.ErrGameOver
	}

	name := req.Persona
	if name == "" {
		name = e.defaultPersona
	}
	profile := persona.Resolve(name)

	started := time.Now()
	res, ok := <-e.thinker.Think(ctx, pos, pos.Turn(), profile)
	if !ok {
		return game.EngineMoveResponse{}, errors.ErrInternal
	}
	if res.Err != nil {
		return game.EngineMoveResponse{}, res.Err
	}
	if !res.OK {
		return game.EngineMoveResponse{}, errors.ErrGameOver
	}

	thinkMs := res.Delay.Milliseconds()
	if thinkMs == 0 {
		thinkMs = time.Since(started).Milliseconds()
	}
	return game.EngineMoveResponse{
		Move:       res.Move,
		Path:       string(res.Path),
		Score:      res.Score,
		Candidates: res.Candidates,
		Persona:    profile.Name,
		ThinkMs:    thinkMs,
	}, nil
}
