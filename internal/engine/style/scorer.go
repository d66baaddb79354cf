// Package style scores candidate moves with material, tactical and
// persona-weighted stylistic terms.
package style

import (
	"persona_chess/internal/domain/game"
	"persona_chess/internal/engine/persona"
	"persona_chess/internal/oracle"
)

const (
	MateScore = 100000.0

	captureMultiplier = 1.5

	checkBonus = 50.0

	sacrificeAcceptBonus      = 60.0
	sacrificeContinuationUnit = 25.0 // per pawn of deficit
	continuationReplyLimit    = 2

	kingApproachUnit  = 10.0 // per step of Manhattan distance gained
	kingCloseBonus    = 20.0
	kingCloseDistance = 3

	centerBonus      = 20.0
	developmentBonus = 25.0

	repetitionPenalty = 35.0
	openingPlies      = 10

	retreatPenalty = 15.0

	complexityBonus     = 10.0
	complexityMoveCount = 30
	middlegameFirstPly  = 20
	middlegameLastPly   = 60
)

// centipawns
var pieceValues = map[oracle.Piece]float64{
	oracle.Pawn:   100,
	oracle.Knight: 300,
	oracle.Bishop: 300,
	oracle.Rook:   500,
	oracle.Queen:  900,
	oracle.King:   0,
}

var centerSquares = map[string]bool{
	"d3": true, "e3": true,
	"d4": true, "e4": true,
	"d5": true, "e5": true,
	"d6": true, "e6": true,
}

// Breakdown itemizes the terms that make up a move's score.
type Breakdown struct {
	Capture               float64 `json:"capture"`
	Mate                  float64 `json:"mate"`
	Check                 float64 `json:"check"`
	Sacrifice             float64 `json:"sacrifice"`
	SacrificeContinuation float64 `json:"sacrifice_continuation"`
	KingProximity         float64 `json:"king_proximity"`
	Center                float64 `json:"center"`
	Development           float64 `json:"development"`
	Repetition            float64 `json:"repetition"`
	Retreat               float64 `json:"retreat"`
	Complexity            float64 `json:"complexity"`
	Total                 float64 `json:"total"`
}

type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

func (s *Scorer) Score(move oracle.Move, state oracle.Position, profile persona.Profile) float64 {
	return s.Breakdown(move, state, profile).Total
}

func (s *Scorer) Breakdown(move oracle.Move, state oracle.Position, profile persona.Profile) Breakdown {
	var b Breakdown
	w := profile.Intensity

	if move.IsCapture() {
		b.Capture = pieceValues[move.Captured] * captureMultiplier
	}

	// post-move properties are read from a disposable probe
	var replies []oracle.Move
	if probe, err := state.Probe(); err == nil {
		if _, err := probe.Apply(move.Descriptor()); err == nil {
			if probe.IsCheckmate() {
				return Breakdown{Mate: MateScore, Total: MateScore}
			}
			if probe.InCheck() {
				b.Check = checkBonus * w
			}
			replies = probe.LegalMoves()
		}
	}

	if move.IsCapture() {
		moving, captured := pieceValues[move.Piece], pieceValues[move.Captured]
		if moving > captured {
			deficit := (moving - captured) / 100
			if deficit <= -profile.SacrificeThreshold {
				b.Sacrifice = sacrificeAcceptBonus * w
			}
			if attackingReplies(replies) > continuationReplyLimit {
				b.SacrificeContinuation = deficit * sacrificeContinuationUnit * w
			}
		}
	}

	if kingSq, ok := state.KingSquare(move.Color.Other()); ok {
		before := manhattan(move.From, kingSq)
		after := manhattan(move.To, kingSq)
		if after < before {
			b.KingProximity = float64(before-after) * kingApproachUnit * w
			if after <= kingCloseDistance {
				b.KingProximity += kingCloseBonus * w
			}
		}
	}

	if centerSquares[move.To] {
		b.Center = centerBonus * w
	}

	if move.Piece != oracle.King && rankOf(move.From) == backRank(move.Color) && rankOf(move.To) != backRank(move.Color) {
		b.Development = developmentBonus * w
	}

	if state.Ply() < openingPlies && movedBefore(state.History(), move.From) {
		b.Repetition = -repetitionPenalty * w
	}

	if !move.IsCapture() && towardBackRank(move) {
		b.Retreat = -retreatPenalty * w
	}

	ply := state.Ply()
	if len(state.LegalMoves()) > complexityMoveCount && ply >= middlegameFirstPly && ply <= middlegameLastPly {
		b.Complexity = complexityBonus * w
	}

	b.Total = b.Capture + b.Check + b.Sacrifice + b.SacrificeContinuation + b.KingProximity +
		b.Center + b.Development + b.Repetition + b.Retreat + b.Complexity
	return b
}

func attackingReplies(replies []oracle.Move) int {
	n := 0
	for _, r := range replies {
		if r.IsCapture() || r.Check {
			n++
		}
	}
	return n
}

// movedBefore reports whether the piece standing on from arrived there
// earlier in the game.
func movedBefore(history []oracle.Move, from string) bool {
	for _, h := range history {
		if h.To == from {
			return true
		}
	}
	return false
}

func towardBackRank(m oracle.Move) bool {
	if m.Color == game.White {
		return rankOf(m.To) < rankOf(m.From)
	}
	return rankOf(m.To) > rankOf(m.From)
}

func backRank(c game.Color) int {
	if c == game.White {
		return 1
	}
	return 8
}

func fileOf(sq string) int {
	return int(sq[0]-'a') + 1
}

func rankOf(sq string) int {
	return int(sq[1] - '0')
}

func manhattan(a, b string) int {
	return abs(fileOf(a)-fileOf(b)) + abs(rankOf(a)-rankOf(b))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
