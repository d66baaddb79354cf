// Package book holds the opening book: two ordered tables (one per side to
// move) mapping normalized position keys to candidate moves.
package book

import (
	"math/rand"
	"strings"

	"persona_chess/internal/domain/game"
)

// Key is a FEN reduced to piece placement, side to move and castling rights.
type Key string

type Entry struct {
	Key   Key                   `json:"key" mapstructure:"key"`
	Moves []game.MoveDescriptor `json:"moves" mapstructure:"moves"`
}

// Book is immutable once built.
type Book struct {
	white []Entry
	black []Entry
}

// NormalizeFEN strips the en-passant square and both move counters.
func NormalizeFEN(fen string) Key {
	fields := strings.Fields(fen)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return Key(strings.Join(fields, " "))
}

func New(white, black []Entry) *Book {
	return &Book{
		white: cloneEntries(white),
		black: cloneEntries(black),
	}
}

// Default returns the built-in tables.
func Default() *Book {
	return New(whiteEntries, blackEntries)
}

// Lookup walks the side's table in declaration order and returns the moves of
// the first entry whose key is a prefix of key. Earlier entries shadow later
// ones even when a later key is longer.
func (b *Book) Lookup(key Key, side game.Color) []game.MoveDescriptor {
	for _, e := range b.table(side) {
		if strings.HasPrefix(string(key), string(e.Key)) {
			out := make([]game.MoveDescriptor, len(e.Moves))
			copy(out, e.Moves)
			return out
		}
	}
	return nil
}

// Pick samples uniformly among the candidates of the matching entry.
func (b *Book) Pick(key Key, side game.Color, rnd *rand.Rand) (game.MoveDescriptor, bool) {
	moves := b.Lookup(key, side)
	if len(moves) == 0 {
		return game.MoveDescriptor{}, false
	}
	if len(moves) == 1 {
		return moves[0], true
	}
	return moves[rnd.Intn(len(moves))], true
}

func (b *Book) Len(side game.Color) int {
	return len(b.table(side))
}

func (b *Book) table(side game.Color) []Entry {
	if side == game.Black {
		return b.black
	}
	return b.white
}

func cloneEntries(in []Entry) []Entry {
	out := make([]Entry, 0, len(in))
	for _, e := range in {
		moves := make([]game.MoveDescriptor, len(e.Moves))
		copy(moves, e.Moves)
		out = append(out, Entry{Key: NormalizeFEN(string(e.Key)), Moves: moves})
	}
	return out
}
