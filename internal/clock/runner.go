package clock

import (
	"context"
	"time"
)

// Run drives Tick on the clock's cadence until ctx ends.
func (c *Clock) Run(ctx context.Context) {
	ticker := time.NewTicker(c.cadence)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}
