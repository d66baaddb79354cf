package style

import (
	"math"
	"strings"
	"testing"

	"persona_chess/internal/domain/game"
	"persona_chess/internal/engine/persona"
	"persona_chess/internal/oracle"
)

func mustFEN(t *testing.T, fen string) *oracle.Game {
	t.Helper()
	g, err := oracle.FromFEN(fen)
	if err != nil {
		t.Fatalf("fen %q: %v", fen, err)
	}
	return g
}

func mustMoves(t *testing.T, moves ...string) *oracle.Game {
	t.Helper()
	g, err := oracle.FromMoves("", moves)
	if err != nil {
		t.Fatalf("replay %v: %v", moves, err)
	}
	return g
}

func findMove(t *testing.T, pos oracle.Position, uci string) oracle.Move {
	t.Helper()
	for _, m := range pos.LegalMoves() {
		if m.Descriptor().UCI() == uci {
			return m
		}
	}
	t.Fatalf("move %s not legal in %s", uci, pos.FEN())
	return oracle.Move{}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMateIsRankedFirst(t *testing.T) {
	// Ra8 is mate; Nxh5 wins the queen.
	pos := mustFEN(t, "6k1/5ppp/8/7q/8/6N1/1K6/R7 w - - 0 1")
	s := NewScorer()
	for _, name := range persona.Names() {
		profile := persona.Resolve(name)
		mate := s.Score(findMove(t, pos, "a1a8"), pos, profile)
		if mate < MateScore {
			t.Fatalf("%s: mate scored %.1f", name, mate)
		}
		for _, m := range pos.LegalMoves() {
			if m.Descriptor().UCI() == "a1a8" {
				continue
			}
			if other := s.Score(m, pos, profile); other >= mate {
				t.Fatalf("%s: %s scored %.1f, not below mate %.1f", name, m.Descriptor(), other, mate)
			}
		}
	}
}

func TestMateOverridesOtherTerms(t *testing.T) {
	pos := mustFEN(t, "6k1/5ppp/8/7q/8/6N1/1K6/R7 w - - 0 1")
	b := NewScorer().Breakdown(findMove(t, pos, "a1a8"), pos, persona.Resolve(persona.Legend))
	if b.Total != MateScore || b.Check != 0 || b.KingProximity != 0 {
		t.Fatalf("expected flat mate score, got %+v", b)
	}
}

func TestCaptureBonusIgnoresIntensity(t *testing.T) {
	pos := mustFEN(t, "6k1/5ppp/8/7q/8/6N1/1K6/R7 w - - 0 1")
	s := NewScorer()
	capture := findMove(t, pos, "g3h5")
	low := s.Breakdown(capture, pos, persona.Resolve(persona.Novice))
	high := s.Breakdown(capture, pos, persona.Resolve(persona.Legend))
	if !approx(low.Capture, 1350) || !approx(high.Capture, 1350) {
		t.Fatalf("expected queen capture worth 1350 for both, got %.1f / %.1f", low.Capture, high.Capture)
	}
}

func TestPawnTakesQueenHasNoContinuationBonus(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	b := NewScorer().Breakdown(findMove(t, pos, "e4d5"), pos, persona.Resolve(persona.Legend))
	if b.SacrificeContinuation != 0 {
		t.Fatalf("expected no continuation bonus, got %+v", b)
	}
	if b.Sacrifice != 0 {
		t.Fatalf("pawn taking a queen is not a sacrifice, got %+v", b)
	}
	if !approx(b.Capture, 1350) {
		t.Fatalf("expected capture 1350, got %.1f", b.Capture)
	}
}

func TestSacrificeThresholdDependsOnPersona(t *testing.T) {
	// Rxd5 gives up two pawns of material.
	pos := mustFEN(t, "4k3/8/8/3n4/8/8/8/3RK3 w - - 0 1")
	s := NewScorer()
	move := findMove(t, pos, "d1d5")

	club := s.Breakdown(move, pos, persona.Resolve(persona.Club))
	if !approx(club.Sacrifice, sacrificeAcceptBonus*0.6) {
		t.Fatalf("club should accept a 2 pawn deficit, got %+v", club)
	}
	legend := s.Breakdown(move, pos, persona.Resolve(persona.Legend))
	if legend.Sacrifice != 0 {
		t.Fatalf("legend threshold is 1 pawn, got %+v", legend)
	}
}

func TestSacrificeContinuationWhenRepliesAttack(t *testing.T) {
	// After Rxd5 black has several captures/checks available: Rxd5 by the
	// rook on d8, Qxd5, Qb1+ and friends.
	pos := mustFEN(t, "3rk3/8/8/3n4/8/8/1q6/3RK3 w - - 0 1")
	move := findMove(t, pos, "d1d5")
	b := NewScorer().Breakdown(move, pos, persona.Resolve(persona.Legend))
	want := 2 * sacrificeContinuationUnit * 1.0
	if !approx(b.SacrificeContinuation, want) {
		t.Fatalf("expected continuation %.1f, got %+v", want, b)
	}
}

func TestCenterAndDevelopment(t *testing.T) {
	pos := mustMoves(t)
	s := NewScorer()
	profile := persona.Resolve(persona.Legend)

	e4 := s.Breakdown(findMove(t, pos, "e2e4"), pos, profile)
	if !approx(e4.Center, centerBonus) || e4.Development != 0 {
		t.Fatalf("e4: expected centre bonus only, got %+v", e4)
	}
	nf3 := s.Breakdown(findMove(t, pos, "g1f3"), pos, profile)
	if !approx(nf3.Development, developmentBonus) || nf3.Center != 0 {
		t.Fatalf("Nf3: expected development bonus only, got %+v", nf3)
	}
}

func TestRepetitionAndRetreatPenalties(t *testing.T) {
	pos := mustMoves(t, "g1f3", "g8f6")
	s := NewScorer()
	profile := persona.Resolve(persona.Legend)

	back := s.Breakdown(findMove(t, pos, "f3g1"), pos, profile)
	if !approx(back.Repetition, -repetitionPenalty) {
		t.Fatalf("expected repetition penalty, got %+v", back)
	}
	if !approx(back.Retreat, -retreatPenalty) {
		t.Fatalf("expected retreat penalty, got %+v", back)
	}

	fresh := s.Breakdown(findMove(t, pos, "b1c3"), pos, profile)
	if fresh.Repetition != 0 || fresh.Retreat != 0 {
		t.Fatalf("fresh piece should not be penalised, got %+v", fresh)
	}
}

func TestRepetitionOnlyInOpening(t *testing.T) {
	// 12 plies of knight shuffling puts the game past the opening window.
	pos := mustMoves(t,
		"g1f3", "g8f6", "f3g1", "f6g8",
		"g1f3", "g8f6", "f3g1", "f6g8",
		"b1c3", "b8c6", "c3b1", "c6b8",
	)
	if pos.Ply() < openingPlies {
		t.Fatalf("expected ply >= %d, got %d", openingPlies, pos.Ply())
	}
	b := NewScorer().Breakdown(findMove(t, pos, "b1c3"), pos, persona.Resolve(persona.Legend))
	if b.Repetition != 0 {
		t.Fatalf("repetition penalty applied after the opening: %+v", b)
	}
}

func TestKingProximity(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	s := NewScorer()
	profile := persona.Resolve(persona.Legend)

	// a1 -> a7: distance to e8 goes from 11 to 5
	closer := s.Breakdown(findMove(t, pos, "a1a7"), pos, profile)
	if !approx(closer.KingProximity, 6*kingApproachUnit) {
		t.Fatalf("expected approach bonus only, got %+v", closer)
	}
	// a1 -> b1: 11 -> 10
	far := s.Breakdown(findMove(t, pos, "a1b1"), pos, profile)
	if !approx(far.KingProximity, kingApproachUnit) {
		t.Fatalf("expected one step of approach, got %+v", far)
	}
	near := mustFEN(t, "4k3/8/8/8/8/8/3R4/4K3 w - - 0 1")
	// d2 -> d6: 7 -> 3, inside the close radius
	b := s.Breakdown(findMove(t, near, "d2d6"), near, profile)
	if !approx(b.KingProximity, 4*kingApproachUnit+kingCloseBonus) {
		t.Fatalf("expected close bonus, got %+v", b)
	}
}

func TestCheckBonusScalesWithIntensity(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	s := NewScorer()
	move := findMove(t, pos, "a1a8")
	novice := s.Breakdown(move, pos, persona.Resolve(persona.Novice))
	legend := s.Breakdown(move, pos, persona.Resolve(persona.Legend))
	if !approx(novice.Check, checkBonus*0.2) || !approx(legend.Check, checkBonus) {
		t.Fatalf("unexpected check bonuses: novice %+v legend %+v", novice, legend)
	}
}

func TestScoringDoesNotMutateState(t *testing.T) {
	pos := mustMoves(t, "e2e4", "e7e5")
	before := pos.FEN()
	s := NewScorer()
	profile := persona.Resolve(persona.Club)
	for _, m := range pos.LegalMoves() {
		s.Score(m, pos, profile)
	}
	if pos.FEN() != before {
		t.Fatalf("state mutated: %s -> %s", before, pos.FEN())
	}
	if pos.Turn() != game.White {
		t.Fatalf("turn changed to %s", pos.Turn())
	}
}

func TestComplexityBonusWindow(t *testing.T) {
	// queen + rook + king: 43 legal moves; rook + king: 16
	const busy = "k7/8/8/8/3Q4/8/8/1R5K w - - 0 "
	const sparse = "k7/8/8/8/8/8/8/1R5K w - - 0 "
	profile := persona.Resolve(persona.Club)
	bonus := complexityBonus * profile.Intensity

	cases := []struct {
		name string
		fen  string
		want float64
	}{
		{"middlegame", busy + "14", bonus},
		{"first middlegame ply", busy + "11", bonus},
		{"last middlegame ply", busy + "31", bonus},
		{"opening", busy + "5", 0},
		{"one ply before window", busy + "10", 0},
		{"past the window", busy + "32", 0},
		{"few legal moves", sparse + "14", 0},
	}
	s := NewScorer()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			n := len(pos.LegalMoves())
			if strings.HasPrefix(tc.fen, busy) && n <= complexityMoveCount {
				t.Fatalf("busy position has only %d moves", n)
			}
			if strings.HasPrefix(tc.fen, sparse) && n > complexityMoveCount {
				t.Fatalf("sparse position has %d moves", n)
			}
			b := s.Breakdown(findMove(t, pos, "h1h2"), pos, profile)
			if math.Abs(b.Complexity-tc.want) > 1e-9 {
				t.Fatalf("ply %d, %d moves: complexity = %.2f, want %.2f", pos.Ply(), n, b.Complexity, tc.want)
			}
		})
	}
}
