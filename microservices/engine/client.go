package engine

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"persona_chess/internal/domain/game"
	"persona_chess/internal/engine/persona"
	"persona_chess/internal/engine/selector"
	"persona_chess/internal/oracle"
)

// Client talks to a remote engine service. It satisfies the game sessions'
// Engine interface, so a server can swap the in-process selector for it.
type Client struct {
	conn *grpc.ClientConn
}

func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

func NewClientWithConn(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) GenerateMove(ctx context.Context, req game.EngineMoveRequest) (game.EngineMoveResponse, error) {
	in, err := toStruct(req)
	if err != nil {
		return game.EngineMoveResponse{}, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, generateMoveMethod, in, out); err != nil {
		return game.EngineMoveResponse{}, fmt.Errorf("generate move rpc: %w", err)
	}
	var resp game.EngineMoveResponse
	if err := fromStruct(out, &resp); err != nil {
		return game.EngineMoveResponse{}, err
	}
	return resp, nil
}

type historyPosition interface {
	StartFEN() string
}

// Think sends the game so far to the remote engine. The think delay is
// served remotely, so the result arrives when the persona has "thought".
func (c *Client) Think(ctx context.Context, state oracle.Position, _ game.Color, profile persona.Profile) <-chan selector.Result {
	req := requestFor(state, profile)
	out := make(chan selector.Result, 1)
	go func() {
		defer close(out)
		resp, err := c.GenerateMove(ctx, req)
		if err != nil {
			if status.Code(err) == codes.FailedPrecondition {
				out <- selector.Result{}
				return
			}
			out <- selector.Result{Err: err}
			return
		}
		out <- selector.Result{
			Decision: selector.Decision{
				Move:       resp.Move,
				Path:       selector.Path(resp.Path),
				Score:      resp.Score,
				Candidates: resp.Candidates,
				Delay:      time.Duration(resp.ThinkMs) * time.Millisecond,
			},
			OK: true,
		}
	}()
	return out
}

func requestFor(state oracle.Position, profile persona.Profile) game.EngineMoveRequest {
	req := game.EngineMoveRequest{Persona: profile.Name}
	hp, ok := state.(historyPosition)
	if !ok {
		req.FEN = state.FEN()
		return req
	}
	req.FEN = hp.StartFEN()
	for _, m := range state.History() {
		req.Moves = append(req.Moves, m.Descriptor().UCI())
	}
	return req
}
