package engine

import (
	"context"
	stderrors "errors"
	"math/rand"
	"testing"

	"persona_chess/internal/domain/game"
	"persona_chess/internal/engine/book"
	"persona_chess/internal/engine/selector"
	"persona_chess/internal/engine/style"
	"persona_chess/internal/errors"
)

func newUseCase() *EngineUseCase {
	sel := selector.New(book.Default(), style.NewScorer(),
		selector.WithRand(rand.New(rand.NewSource(1))),
		selector.WithDelay(selector.NoDelay),
	)
	return NewEngineUseCase(sel, "club")
}

func TestGenMoveFromMoves(t *testing.T) {
	resp, err := newUseCase().GenMove(context.Background(), game.EngineMoveRequest{Moves: []string{"e2e4"}, Persona: "legend"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Move.UCI() != "c7c5" || resp.Path != string(selector.PathBook) || resp.Persona != "legend" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestGenMoveDefaultsPersona(t *testing.T) {
	resp, err := newUseCase().GenMove(context.Background(), game.EngineMoveRequest{FEN: "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Persona != "club" || resp.Move.IsZero() {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestGenMoveErrors(t *testing.T) {
	cases := []struct {
		name string
		req  game.EngineMoveRequest
		want error
	}{
		{"illegal history", game.EngineMoveRequest{Moves: []string{"e2e5"}}, errors.ErrInvalidRequest},
		{"bad fen", game.EngineMoveRequest{FEN: "garbage"}, errors.ErrInvalidRequest},
		{"mated", game.EngineMoveRequest{Moves: []string{"f2f3", "e7e5", "g2g4", "d8h4"}}, errors.ErrGameOver},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := newUseCase().GenMove(context.Background(), tc.req); !stderrors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
