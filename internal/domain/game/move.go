package game

import "strings"

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	}
	return "", false
}

// @name MoveDescriptor
type MoveDescriptor struct {
	From      string `json:"from" bson:"from"`
	To        string `json:"to" bson:"to"`
	Promotion string `json:"promotion,omitempty" bson:"promotion,omitempty"`
}

// UCI renders the descriptor in long algebraic form, e.g. "e7e8q".
func (m MoveDescriptor) UCI() string {
	return m.From + m.To + m.Promotion
}

func (m MoveDescriptor) String() string {
	return m.UCI()
}

func (m MoveDescriptor) IsZero() bool {
	return m.From == "" && m.To == ""
}

// ParseUCI splits "e2e4" / "e7e8q" into a descriptor. It checks shape only,
// legality is the oracle's business.
func ParseUCI(s string) (MoveDescriptor, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return MoveDescriptor{}, false
	}
	if !validSquare(s[0:2]) || !validSquare(s[2:4]) {
		return MoveDescriptor{}, false
	}
	md := MoveDescriptor{From: s[0:2], To: s[2:4]}
	if len(s) == 5 {
		switch s[4] {
		case 'q', 'r', 'b', 'n':
			md.Promotion = s[4:5]
		default:
			return MoveDescriptor{}, false
		}
	}
	return md, true
}

func validSquare(sq string) bool {
	return len(sq) == 2 && sq[0] >= 'a' && sq[0] <= 'h' && sq[1] >= '1' && sq[1] <= '8'
}

// @name PlayedMove
type PlayedMove struct {
	Ply   int            `json:"ply" bson:"ply"`
	Color Color          `json:"color" bson:"color"`
	Move  MoveDescriptor `json:"move" bson:"move"`
	SAN   string         `json:"san" bson:"san"`
}

// @name EngineMoveRequest
type EngineMoveRequest struct {
	FEN     string   `json:"fen,omitempty"`
	Moves   []string `json:"moves,omitempty"`
	Persona string   `json:"persona"`
}

// @name EngineMoveResponse
type EngineMoveResponse struct {
	Move       MoveDescriptor `json:"move"`
	Path       string         `json:"path"`
	Score      float64        `json:"score"`
	Candidates int            `json:"candidates"`
	Persona    string         `json:"persona"`
	ThinkMs    int64          `json:"think_ms"`
}
