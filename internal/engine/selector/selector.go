// Package selector picks the persona's move: opening book first, then the
// mistake roll, then the top of the style-scored legal moves.
package selector

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"persona_chess/internal/domain/game"
	"persona_chess/internal/engine/book"
	"persona_chess/internal/engine/persona"
	"persona_chess/internal/oracle"
)

type MoveScorer interface {
	Score(move oracle.Move, state oracle.Position, profile persona.Profile) float64
}

type Path string

const (
	PathBook    Path = "book"
	PathMistake Path = "mistake"
	PathScored  Path = "scored"
)

type Decision struct {
	Move       game.MoveDescriptor `json:"move"`
	Path       Path                `json:"path"`
	Score      float64             `json:"score"`
	Candidates int                 `json:"candidates"`
	Delay      time.Duration       `json:"delay"`
}

const thinkJitter = 0.15

type Selector struct {
	book   *book.Book
	scorer MoveScorer
	log    *zap.SugaredLogger
	delay  DelayFunc

	rndMu sync.Mutex
	rnd   *rand.Rand
}

type Option func(*Selector)

func WithRand(rnd *rand.Rand) Option {
	return func(s *Selector) { s.rnd = rnd }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Selector) { s.log = log }
}

func WithDelay(fn DelayFunc) Option {
	return func(s *Selector) { s.delay = fn }
}

func New(b *book.Book, scorer MoveScorer, opts ...Option) *Selector {
	s := &Selector{
		book:   b,
		scorer: scorer,
		log:    zap.NewNop().Sugar(),
		delay:  Sleep,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectMove returns false only when the position has no legal moves.
func (s *Selector) SelectMove(state oracle.Position, side game.Color, profile persona.Profile) (Decision, bool) {
	legal := state.LegalMoves()
	if len(legal) == 0 {
		return Decision{}, false
	}

	key := book.NormalizeFEN(state.FEN())
	s.rndMu.Lock()
	md, inBook := s.book.Pick(key, side, s.rnd)
	s.rndMu.Unlock()
	if inBook {
		if isLegal(legal, md) {
			s.log.Debugw("book move", "persona", profile.Name, "move", md.UCI())
			return Decision{Move: md, Path: PathBook, Candidates: len(s.book.Lookup(key, side))}, true
		}
		s.log.Warnw("book move is not legal, falling back", "key", key, "move", md.UCI())
	}

	if s.float64() < profile.MistakeRate {
		pick := legal[s.intn(len(legal))]
		s.log.Debugw("mistake move", "persona", profile.Name, "move", pick.Descriptor().UCI())
		return Decision{Move: pick.Descriptor(), Path: PathMistake, Candidates: len(legal)}, true
	}

	type scored struct {
		move  oracle.Move
		score float64
	}
	ranked := make([]scored, 0, len(legal))
	for _, m := range legal {
		ranked = append(ranked, scored{move: m, score: s.scorer.Score(m, state, profile)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	k := profile.CandidatePool()
	if k > len(ranked) {
		k = len(ranked)
	}
	pick := ranked[s.intn(k)]
	s.log.Debugw("scored move", "persona", profile.Name, "move", pick.move.Descriptor().UCI(), "score", pick.score, "pool", k)
	return Decision{Move: pick.move.Descriptor(), Path: PathScored, Score: pick.score, Candidates: k}, true
}

// ThinkDelay is the persona's think time with ±15% jitter.
func (s *Selector) ThinkDelay(profile persona.Profile) time.Duration {
	if profile.ThinkTime <= 0 {
		return 0
	}
	factor := 1 + (s.float64()*2-1)*thinkJitter
	return time.Duration(float64(profile.ThinkTime) * factor)
}

func (s *Selector) float64() float64 {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return s.rnd.Float64()
}

func (s *Selector) intn(n int) int {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return s.rnd.Intn(n)
}

func isLegal(legal []oracle.Move, md game.MoveDescriptor) bool {
	for _, m := range legal {
		if m.Descriptor() == md {
			return true
		}
	}
	return false
}
