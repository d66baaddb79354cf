package errors

import "errors"

var (
	ErrSessionNotFound    = errors.New("session was not found")
	ErrCreateGameFailed   = errors.New("create game failed")
	ErrGameNotFound       = errors.New("game not found")
	ErrGameOver           = errors.New("game is over")
	ErrIllegalMove        = errors.New("illegal move")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrGamePaused         = errors.New("game is paused")
	ErrUnknownTimeControl = errors.New("unknown time control")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInternal           = errors.New("internal error")
)
