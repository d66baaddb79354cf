package game

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"persona_chess/internal/domain/game"
)

const writeWait = 5 * time.Second

// HandleGameWS streams game events to the player and accepts moves as
// {"move": "e2e4"} messages.
func (g *GameHandler) HandleGameWS(w http.ResponseWriter, r *http.Request) {
	gameID, ok := g.authorize(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("upgrade error:", err)
		return
	}
	defer conn.Close()

	session, err := g.gameUC.GetSession(gameID)
	if err != nil {
		// Finished games get their final state and nothing else.
		if state, serr := g.gameUC.GetGame(ctx, gameID); serr == nil {
			_ = g.writeEvent(conn, game.Event{Type: game.EventGameOver, GameID: gameID, State: &state})
		}
		return
	}

	events, detach := session.Subscribe()
	defer detach()

	replies := make(chan game.Event, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg game.MoveRequest
			if err := conn.ReadJSON(&msg); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					g.log.Debugw("websocket read ended", "game", gameID, "error", err)
				}
				return
			}
			if _, err := g.gameUC.MakeMove(ctx, gameID, msg.Move); err != nil {
				select {
				case replies <- game.Event{Type: game.EventError, GameID: gameID, Error: err.Error()}:
				default:
				}
			}
		}
	}()

	state := session.State()
	if err := g.writeEvent(conn, game.Event{Type: game.EventState, GameID: gameID, State: &state}); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case ev := <-replies:
			if err := g.writeEvent(conn, ev); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := g.writeEvent(conn, ev); err != nil {
				return
			}
			if ev.Type == game.EventGameOver {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"),
					time.Now().Add(writeWait))
				return
			}
		}
	}
}

func (g *GameHandler) writeEvent(conn *websocket.Conn, ev game.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(ev); err != nil {
		g.log.Debugw("websocket write failed", "game", ev.GameID, "error", err)
		return err
	}
	return nil
}
