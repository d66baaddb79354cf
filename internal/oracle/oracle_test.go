package oracle

import (
	"errors"
	"testing"

	"persona_chess/internal/domain/game"
)

func mustMoves(t *testing.T, fen string, uci ...string) *Game {
	t.Helper()
	g, err := FromMoves(fen, uci)
	if err != nil {
		t.Fatalf("FromMoves(%q, %v): %v", fen, uci, err)
	}
	return g
}

func TestStartPosition(t *testing.T) {
	g := NewGame()
	if g.Turn() != game.White {
		t.Fatalf("turn = %s", g.Turn())
	}
	if n := len(g.LegalMoves()); n != 20 {
		t.Fatalf("legal moves = %d, want 20", n)
	}
	if g.FEN() != StartFEN {
		t.Fatalf("fen = %q", g.FEN())
	}
	if g.Ply() != 0 || g.InCheck() || g.IsGameOver() {
		t.Fatal("fresh game reports progress")
	}
}

func TestFromMovesErrors(t *testing.T) {
	if _, err := FromMoves("", []string{"e2e4", "e7e4"}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("illegal history err = %v", err)
	}
	if _, err := FromMoves("", []string{"e2"}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("malformed move err = %v", err)
	}
	if _, err := FromFEN("not a fen"); !errors.Is(err, ErrBadFEN) {
		t.Fatalf("bad fen err = %v", err)
	}
}

func TestApplyAnnotatesMove(t *testing.T) {
	g := mustMoves(t, "", "e2e4", "d7d5")
	m, err := g.Apply(game.MoveDescriptor{From: "e4", To: "d5"})
	if err != nil {
		t.Fatal(err)
	}
	if m.Piece != Pawn || m.Captured != Pawn || !m.IsCapture() || m.Color != game.White {
		t.Fatalf("move = %+v", m)
	}
	if m.SAN != "exd5" {
		t.Fatalf("san = %q", m.SAN)
	}
	if g.Ply() != 3 || len(g.History()) != 3 {
		t.Fatalf("ply = %d, history = %d", g.Ply(), len(g.History()))
	}
}

func TestPromotionDescriptor(t *testing.T) {
	g := mustMoves(t, "7k/P7/8/8/8/8/8/K7 w - - 0 1")
	if _, err := g.Apply(game.MoveDescriptor{From: "a7", To: "a8"}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("promotion without piece err = %v", err)
	}
	m, err := g.Apply(game.MoveDescriptor{From: "a7", To: "a8", Promotion: "q"})
	if err != nil {
		t.Fatal(err)
	}
	if m.Promotion != Queen || m.Descriptor().UCI() != "a7a8q" || !m.Check {
		t.Fatalf("move = %+v", m)
	}
}

func TestCheckmateOutcome(t *testing.T) {
	g := mustMoves(t, "", "f2f3", "e7e5", "g2g4", "d8h4")
	if !g.IsCheckmate() || !g.IsGameOver() || !g.InCheck() {
		t.Fatal("fool's mate not detected")
	}
	result, method := g.Outcome()
	if result != "0-1" || method != "Checkmate" {
		t.Fatalf("outcome = %s %s", result, method)
	}
	if len(g.LegalMoves()) != 0 {
		t.Fatal("mated side has moves")
	}
}

func TestStalemateFromFEN(t *testing.T) {
	g := mustMoves(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if !g.IsStalemate() || g.IsCheckmate() || g.InCheck() {
		t.Fatal("stalemate not detected")
	}
	if result, _ := g.Outcome(); result != "1/2-1/2" {
		t.Fatalf("result = %s", result)
	}
}

func TestInCheckWithoutHistory(t *testing.T) {
	g := mustMoves(t, "4k3/8/8/8/8/8/4R3/4K3 b - - 0 1")
	if !g.InCheck() {
		t.Fatal("rook check on open file missed")
	}
	quiet := mustMoves(t, "4k3/8/8/8/8/8/3R4/4K3 b - - 0 1")
	if quiet.InCheck() {
		t.Fatal("phantom check")
	}
}

func TestPlyFromFENCounters(t *testing.T) {
	g := mustMoves(t, "rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2")
	if g.Ply() != 3 {
		t.Fatalf("ply = %d, want 3", g.Ply())
	}
}

func TestThreefoldAndCopy(t *testing.T) {
	dance := []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}
	g := mustMoves(t, "", dance...)
	if !g.IsThreefold() {
		t.Fatal("threefold repetition missed")
	}

	cp, err := g.Copy()
	if err != nil {
		t.Fatal(err)
	}
	if !cp.IsThreefold() || cp.FEN() != g.FEN() {
		t.Fatal("copy lost repetition state")
	}
	probe, err := g.Probe()
	if err != nil {
		t.Fatal(err)
	}
	if probe.IsThreefold() {
		t.Fatal("probe from FEN should not see earlier repetitions")
	}

	if _, err := cp.Apply(game.MoveDescriptor{From: "e2", To: "e4"}); err != nil {
		t.Fatal(err)
	}
	if len(g.History()) != len(dance) {
		t.Fatal("copy shares state with the original")
	}
}

func TestCopyKeepsStartFEN(t *testing.T) {
	fen := "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"
	g := mustMoves(t, fen, "e2e4")
	cp, err := g.Copy()
	if err != nil {
		t.Fatal(err)
	}
	if cp.StartFEN() != fen || cp.FEN() != g.FEN() {
		t.Fatalf("copy start = %q fen = %q", cp.StartFEN(), cp.FEN())
	}
}

func TestKingSquare(t *testing.T) {
	g := NewGame()
	if sq, ok := g.KingSquare(game.Black); !ok || sq != "e8" {
		t.Fatalf("black king = %q %v", sq, ok)
	}
}
