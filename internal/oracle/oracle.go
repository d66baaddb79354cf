// Package oracle adapts github.com/notnil/chess to the narrow set of rule
// queries the engine and the game sessions need: legal moves, move
// application, check/mate/draw classification and disposable probe copies.
package oracle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"persona_chess/internal/domain/game"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrBadFEN      = errors.New("invalid FEN")
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type Piece uint8

const (
	NoPiece Piece = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (p Piece) String() string {
	switch p {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	}
	return ""
}

// Move is a legal move as enumerated by the oracle, annotated with what it
// moves and what it takes.
type Move struct {
	From      string
	To        string
	Piece     Piece
	Captured  Piece
	Promotion Piece
	Color     game.Color
	SAN       string
	Check     bool
}

func (m Move) Descriptor() game.MoveDescriptor {
	return game.MoveDescriptor{From: m.From, To: m.To, Promotion: m.Promotion.String()}
}

func (m Move) IsCapture() bool {
	return m.Captured != NoPiece
}

// Position is the rule surface consumed by the scorer, the selector and the
// game sessions.
type Position interface {
	FEN() string
	Turn() game.Color
	LegalMoves() []Move
	Apply(md game.MoveDescriptor) (Move, error)
	InCheck() bool
	IsCheckmate() bool
	IsStalemate() bool
	IsThreefold() bool
	IsInsufficientMaterial() bool
	IsGameOver() bool
	History() []Move
	Ply() int
	KingSquare(c game.Color) (string, bool)
	Probe() (Position, error)
}

// Game is the notnil/chess backed Position.
type Game struct {
	g     *chess.Game
	start string
}

var _ Position = (*Game)(nil)

func NewGame() *Game {
	return &Game{g: chess.NewGame()}
}

func FromFEN(fen string) (*Game, error) {
	opt, err := chess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFEN, err)
	}
	return &Game{g: chess.NewGame(opt), start: strings.TrimSpace(fen)}, nil
}

// FromMoves replays UCI moves on top of startFEN (standard start when empty).
func FromMoves(startFEN string, uci []string) (*Game, error) {
	var (
		g   *Game
		err error
	)
	if startFEN == "" {
		g = NewGame()
	} else if g, err = FromFEN(startFEN); err != nil {
		return nil, err
	}
	for i, s := range uci {
		md, ok := game.ParseUCI(s)
		if !ok {
			return nil, fmt.Errorf("move %d %q: %w", i+1, s, ErrIllegalMove)
		}
		if _, err := g.Apply(md); err != nil {
			return nil, fmt.Errorf("move %d %q: %w", i+1, s, err)
		}
	}
	return g, nil
}

func (o *Game) FEN() string {
	return o.g.Position().String()
}

func (o *Game) Turn() game.Color {
	return fromChessColor(o.g.Position().Turn())
}

func (o *Game) LegalMoves() []Move {
	pos := o.g.Position()
	valid := o.g.ValidMoves()
	out := make([]Move, 0, len(valid))
	for _, m := range valid {
		out = append(out, describe(pos, m))
	}
	return out
}

func (o *Game) Apply(md game.MoveDescriptor) (Move, error) {
	pos := o.g.Position()
	m := o.match(md)
	if m == nil {
		return Move{}, fmt.Errorf("%s: %w", md.UCI(), ErrIllegalMove)
	}
	played := describe(pos, m)
	if err := o.g.Move(m); err != nil {
		return Move{}, fmt.Errorf("%s: %w: %v", md.UCI(), ErrIllegalMove, err)
	}
	return played, nil
}

func (o *Game) match(md game.MoveDescriptor) *chess.Move {
	promo := toChessPromo(md.Promotion)
	for _, m := range o.g.ValidMoves() {
		if m.S1().String() != md.From || m.S2().String() != md.To {
			continue
		}
		if m.Promo() != promo {
			continue
		}
		return m
	}
	return nil
}

func (o *Game) InCheck() bool {
	moves := o.g.Moves()
	if len(moves) > 0 {
		return moves[len(moves)-1].HasTag(chess.Check)
	}
	// No history (position loaded from FEN): hand the move to the other side
	// and see whether it can take the king.
	return kingAttacked(o.g.Position())
}

func (o *Game) IsCheckmate() bool {
	return o.g.Method() == chess.Checkmate || o.g.Position().Status() == chess.Checkmate
}

func (o *Game) IsStalemate() bool {
	return o.g.Method() == chess.Stalemate || o.g.Position().Status() == chess.Stalemate
}

func (o *Game) IsThreefold() bool {
	if o.g.Method() == chess.ThreefoldRepetition || o.g.Method() == chess.FivefoldRepetition {
		return true
	}
	for _, m := range o.g.EligibleDraws() {
		if m == chess.ThreefoldRepetition {
			return true
		}
	}
	return false
}

func (o *Game) IsInsufficientMaterial() bool {
	return o.g.Method() == chess.InsufficientMaterial
}

func (o *Game) IsGameOver() bool {
	return o.g.Outcome() != chess.NoOutcome || o.IsCheckmate() || o.IsStalemate() || o.IsThreefold()
}

// Outcome returns the PGN result token ("1-0", "0-1", "1/2-1/2", "*") and
// the method name that produced it.
func (o *Game) Outcome() (string, string) {
	switch {
	case o.IsCheckmate():
		if o.Turn() == game.White {
			return string(chess.BlackWon), chess.Checkmate.String()
		}
		return string(chess.WhiteWon), chess.Checkmate.String()
	case o.IsStalemate():
		return string(chess.Draw), chess.Stalemate.String()
	case o.IsThreefold():
		return string(chess.Draw), chess.ThreefoldRepetition.String()
	}
	return string(o.g.Outcome()), o.g.Method().String()
}

func (o *Game) History() []Move {
	moves := o.g.Moves()
	positions := o.g.Positions()
	out := make([]Move, 0, len(moves))
	for i, m := range moves {
		if i >= len(positions) {
			break
		}
		out = append(out, describe(positions[i], m))
	}
	return out
}

// Ply counts half-moves from the start of the game using the FEN move
// counters, so positions loaded mid-game report their real ply.
func (o *Game) Ply() int {
	fields := strings.Fields(o.FEN())
	if len(fields) < 6 {
		return len(o.g.Moves())
	}
	full, err := strconv.Atoi(fields[5])
	if err != nil || full < 1 {
		return len(o.g.Moves())
	}
	ply := (full - 1) * 2
	if fields[1] == "b" {
		ply++
	}
	return ply
}

func (o *Game) KingSquare(c game.Color) (string, bool) {
	want := chess.WhiteKing
	if c == game.Black {
		want = chess.BlackKing
	}
	for sq, p := range o.g.Position().Board().SquareMap() {
		if p == want {
			return sq.String(), true
		}
	}
	return "", false
}

// Probe builds a disposable copy from the serialized position. Moves applied
// to the probe never reach the receiver.
func (o *Game) Probe() (Position, error) {
	return FromFEN(o.FEN())
}

// Copy replays the full move history into an independent game, keeping
// repetition state that a FEN probe would lose.
func (o *Game) Copy() (*Game, error) {
	moves := o.g.Moves()
	uci := make([]string, 0, len(moves))
	for _, m := range o.History() {
		uci = append(uci, m.Descriptor().UCI())
	}
	return FromMoves(o.start, uci)
}

// StartFEN is the position the game was created from, empty for the
// standard start.
func (o *Game) StartFEN() string {
	return o.start
}

func (o *Game) PGN() string {
	return o.g.String()
}

func (o *Game) Resign(c game.Color) {
	o.g.Resign(toChessColor(c))
}

func describe(pos *chess.Position, m *chess.Move) Move {
	board := pos.Board()
	mover := board.Piece(m.S1())
	out := Move{
		From:      m.S1().String(),
		To:        m.S2().String(),
		Piece:     fromChessPiece(mover.Type()),
		Promotion: fromChessPiece(m.Promo()),
		Color:     fromChessColor(mover.Color()),
		SAN:       chess.AlgebraicNotation{}.Encode(pos, m),
		Check:     m.HasTag(chess.Check),
	}
	if m.HasTag(chess.EnPassant) {
		out.Captured = Pawn
	} else if victim := board.Piece(m.S2()); victim != chess.NoPiece {
		out.Captured = fromChessPiece(victim.Type())
	}
	return out
}

func kingAttacked(pos *chess.Position) bool {
	fields := strings.Fields(pos.String())
	if len(fields) < 4 {
		return false
	}
	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	fields[3] = "-"
	opt, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		return false
	}
	flipped := chess.NewGame(opt)
	board := flipped.Position().Board()
	for _, m := range flipped.ValidMoves() {
		if board.Piece(m.S2()).Type() == chess.King {
			return true
		}
	}
	return false
}

func fromChessColor(c chess.Color) game.Color {
	if c == chess.Black {
		return game.Black
	}
	return game.White
}

func toChessColor(c game.Color) chess.Color {
	if c == game.Black {
		return chess.Black
	}
	return chess.White
}

func fromChessPiece(t chess.PieceType) Piece {
	switch t {
	case chess.Pawn:
		return Pawn
	case chess.Knight:
		return Knight
	case chess.Bishop:
		return Bishop
	case chess.Rook:
		return Rook
	case chess.Queen:
		return Queen
	case chess.King:
		return King
	}
	return NoPiece
}

func toChessPromo(s string) chess.PieceType {
	switch s {
	case "q":
		return chess.Queen
	case "r":
		return chess.Rook
	case "b":
		return chess.Bishop
	case "n":
		return chess.Knight
	}
	return chess.NoPieceType
}
