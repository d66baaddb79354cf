package game

import (
	"time"

	"persona_chess/internal/clock"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Finish reasons.
const (
	ReasonCheckmate            = "checkmate"
	ReasonStalemate            = "stalemate"
	ReasonThreefold            = "threefold_repetition"
	ReasonInsufficientMaterial = "insufficient_material"
	ReasonDraw                 = "draw"
	ReasonTimeout              = "timeout"
	ReasonResignation          = "resignation"
)

// Results in PGN notation.
const (
	ResultWhiteWon = "1-0"
	ResultBlackWon = "0-1"
	ResultDraw     = "1/2-1/2"
	ResultOngoing  = "*"
)

func WinFor(c Color) string {
	if c == White {
		return ResultWhiteWon
	}
	return ResultBlackWon
}

// @name CreateGameRequest
type CreateGameRequest struct {
	Persona     string `json:"persona"`
	TimeControl string `json:"time_control"`
	// Color is the human's colour: "white", "black" or "random"/empty.
	Color    string `json:"color"`
	StartFEN string `json:"start_fen,omitempty"`
}

// @name CreateGameResponse
type CreateGameResponse struct {
	GameID    string    `json:"game_id"`
	SessionID string    `json:"session_id"`
	State     GameState `json:"state"`
}

// @name MoveRequest
type MoveRequest struct {
	Move string `json:"move"`
}

type ClockState struct {
	PlayerMs    int64         `json:"player_ms" bson:"player_ms"`
	OpponentMs  int64         `json:"opponent_ms" bson:"opponent_ms"`
	IncrementMs int64         `json:"increment_ms" bson:"increment_ms"`
	Display     clock.Display `json:"display" bson:"display"`
}

func NewClockState(s clock.Snapshot) ClockState {
	return ClockState{
		PlayerMs:    s.PlayerRemaining.Milliseconds(),
		OpponentMs:  s.OpponentRemaining.Milliseconds(),
		IncrementMs: s.Increment.Milliseconds(),
		Display:     s.Display(),
	}
}

// @name GameState
type GameState struct {
	ID          string       `json:"id" bson:"_id"`
	Persona     string       `json:"persona" bson:"persona"`
	TimeControl string       `json:"time_control" bson:"time_control"`
	PlayerColor Color        `json:"player_color" bson:"player_color"`
	StartFEN    string       `json:"start_fen,omitempty" bson:"start_fen,omitempty"`
	FEN         string       `json:"fen" bson:"fen"`
	PGN         string       `json:"pgn" bson:"pgn"`
	Turn        Color        `json:"turn" bson:"turn"`
	InCheck     bool         `json:"in_check" bson:"in_check"`
	Moves       []PlayedMove `json:"moves" bson:"moves"`
	Status      Status       `json:"status" bson:"status"`
	Result      string       `json:"result" bson:"result"`
	Reason      string       `json:"reason,omitempty" bson:"reason,omitempty"`
	Clock       ClockState   `json:"clock" bson:"clock"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

// ArchivedGame is the record of a finished game.
type ArchivedGame struct {
	ID          string    `json:"id" bson:"_id"`
	Persona     string    `json:"persona" bson:"persona"`
	TimeControl string    `json:"time_control" bson:"time_control"`
	PlayerColor Color     `json:"player_color" bson:"player_color"`
	StartFEN    string    `json:"start_fen,omitempty" bson:"start_fen,omitempty"`
	Moves       []string  `json:"moves" bson:"moves"`
	PGN         string    `json:"pgn" bson:"pgn"`
	Result      string    `json:"result" bson:"result"`
	Reason      string    `json:"reason" bson:"reason"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	FinishedAt  time.Time `json:"finished_at" bson:"finished_at"`
}

func NewArchivedGame(s GameState, finishedAt time.Time) ArchivedGame {
	moves := make([]string, 0, len(s.Moves))
	for _, m := range s.Moves {
		moves = append(moves, m.Move.UCI())
	}
	return ArchivedGame{
		ID:          s.ID,
		Persona:     s.Persona,
		TimeControl: s.TimeControl,
		PlayerColor: s.PlayerColor,
		StartFEN:    s.StartFEN,
		Moves:       moves,
		PGN:         s.PGN,
		Result:      s.Result,
		Reason:      s.Reason,
		CreatedAt:   s.CreatedAt,
		FinishedAt:  finishedAt,
	}
}

type EventType string

const (
	EventState      EventType = "state"
	EventClock      EventType = "clock"
	EventEngineMove EventType = "engine_move"
	EventGameOver   EventType = "game_over"
	EventError      EventType = "error"
)

type EngineMove struct {
	Move    PlayedMove `json:"move"`
	Path    string     `json:"path"`
	Score   float64    `json:"score"`
	ThinkMs int64      `json:"think_ms"`
}

// Event is pushed to WebSocket subscribers of a game.
type Event struct {
	Type       EventType      `json:"type"`
	GameID     string         `json:"game_id"`
	State      *GameState     `json:"state,omitempty"`
	Clock      *clock.Display `json:"clock,omitempty"`
	EngineMove *EngineMove    `json:"engine_move,omitempty"`
	Error      string         `json:"error,omitempty"`
}
