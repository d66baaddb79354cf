package selector

import (
	"context"
	"time"

	"persona_chess/internal/domain/game"
	"persona_chess/internal/engine/persona"
	"persona_chess/internal/oracle"
)

type DelayFunc func(ctx context.Context, d time.Duration) error

// Result is delivered once per Think call. OK is false when the position had
// no legal moves; Err is set when ctx ended before the delay elapsed.
type Result struct {
	Decision
	OK  bool
	Err error
}

// Think runs SelectMove in the background and releases the decision after
// the persona's simulated think time. The state must not be mutated until
// the result arrives; callers that stop caring simply drop the channel.
func (s *Selector) Think(ctx context.Context, state oracle.Position, side game.Color, profile persona.Profile) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		decision, ok := s.SelectMove(state, side, profile)
		decision.Delay = s.ThinkDelay(profile)
		if err := s.delay(ctx, decision.Delay); err != nil {
			out <- Result{Err: err}
			return
		}
		out <- Result{Decision: decision, OK: ok}
	}()
	return out
}

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func NoDelay(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
