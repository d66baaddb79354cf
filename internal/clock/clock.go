// Package clock implements the two-sided chess clock: named time controls,
// per-move increment, pause/resume and a single timeout notification when
// the side on move runs out.
package clock

import (
	"sync"
	"time"
)

type Side string

const (
	SideNone     Side = ""
	SidePlayer   Side = "player"
	SideOpponent Side = "opponent"
)

func (s Side) Other() Side {
	switch s {
	case SidePlayer:
		return SideOpponent
	case SideOpponent:
		return SidePlayer
	}
	return SideNone
}

type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseIdle          Phase = "idle"
	PhaseRunning       Phase = "running"
	PhaseExpired       Phase = "expired"
)

const DefaultCadence = 100 * time.Millisecond

type Clock struct {
	mu sync.Mutex

	cadence  time.Duration
	tc       TimeControl
	player   time.Duration
	opponent time.Duration
	active   Side
	paused   bool
	phase    Phase
	timedOut bool

	onTick    []func(Snapshot)
	onTimeout []func(Side)
}

type Option func(*Clock)

func WithCadence(d time.Duration) Option {
	return func(c *Clock) {
		if d > 0 {
			c.cadence = d
		}
	}
}

func New(opts ...Option) *Clock {
	c := &Clock{
		cadence: DefaultCadence,
		phase:   PhaseUninitialized,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Clock) Cadence() time.Duration {
	return c.cadence
}

// OnTick registers an observer called with the state after every
// non-expiring tick.
func (c *Clock) OnTick(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTick = append(c.onTick, fn)
}

// OnTimeout registers an observer called once per expiry with the side
// that ran out.
func (c *Clock) OnTimeout(fn func(Side)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTimeout = append(c.onTimeout, fn)
}

func (c *Clock) Initialize(tc TimeControl) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initLocked(tc)
}

func (c *Clock) initLocked(tc TimeControl) {
	c.tc = tc
	c.player = tc.Initial
	c.opponent = tc.Initial
	c.active = SideNone
	c.paused = false
	c.timedOut = false
	c.phase = PhaseIdle
}

// Reset re-initializes with the last time control. A clock that was never
// initialized stays uninitialized.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseUninitialized {
		return
	}
	c.initLocked(c.tc)
}

func (c *Clock) Start(side Side) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tc.Unlimited || side == SideNone {
		return
	}
	if c.phase == PhaseUninitialized || c.phase == PhaseExpired {
		return
	}
	c.active = side
	c.paused = false
	c.phase = PhaseRunning
}

// Pause keeps the active side; nothing decrements until Resume.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseRunning {
		return
	}
	c.paused = true
	c.phase = PhaseIdle
}

func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused || c.active == SideNone || c.tc.Unlimited {
		return
	}
	c.paused = false
	c.phase = PhaseRunning
}

// SwitchActive credits the increment to the side that just moved and hands
// the clock to the other side.
func (c *Clock) SwitchActive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tc.Unlimited || c.active == SideNone || c.phase == PhaseExpired {
		return
	}
	if c.active == SidePlayer {
		c.player += c.tc.Increment
	} else {
		c.opponent += c.tc.Increment
	}
	c.active = c.active.Other()
}

// Tick consumes one cadence interval from the running side.
func (c *Clock) Tick() {
	c.mu.Lock()
	if c.phase != PhaseRunning || c.tc.Unlimited {
		c.mu.Unlock()
		return
	}

	remaining := c.remainingPtr(c.active)
	*remaining -= c.cadence
	if *remaining <= 0 {
		*remaining = 0
		c.phase = PhaseExpired
		loser := c.active
		var observers []func(Side)
		if !c.timedOut {
			c.timedOut = true
			observers = append(observers, c.onTimeout...)
		}
		c.mu.Unlock()
		for _, fn := range observers {
			fn(loser)
		}
		return
	}

	snap := c.snapshotLocked()
	observers := append(make([]func(Snapshot), 0, len(c.onTick)), c.onTick...)
	c.mu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}
}

// Stop freezes the clock, used when the game ends on the board.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseRunning {
		c.phase = PhaseIdle
	}
	c.active = SideNone
	c.paused = false
}

// Decrementing reports the one side currently losing time, or SideNone.
func (c *Clock) Decrementing() Side {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseRunning || c.tc.Unlimited {
		return SideNone
	}
	return c.active
}

func (c *Clock) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Clock) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Clock) snapshotLocked() Snapshot {
	return Snapshot{
		PlayerRemaining:   c.player,
		OpponentRemaining: c.opponent,
		Increment:         c.tc.Increment,
		Active:            c.active,
		Paused:            c.paused,
		Phase:             c.phase,
		Preset:            c.tc.Name,
		Unlimited:         c.tc.Unlimited,
	}
}

func (c *Clock) remainingPtr(side Side) *time.Duration {
	if side == SidePlayer {
		return &c.player
	}
	return &c.opponent
}
