package clock

import (
	"context"
	"sync"
	"testing"
	"time"
)

func mustPreset(t *testing.T, name string) TimeControl {
	t.Helper()
	tc, ok := LookupPreset(name)
	if !ok {
		t.Fatalf("preset %q missing", name)
	}
	return tc
}

func TestBlitzTimeoutFiresOnce(t *testing.T) {
	c := New()
	c.Initialize(mustPreset(t, PresetBlitz))

	var timeouts []Side
	c.OnTimeout(func(s Side) { timeouts = append(timeouts, s) })
	c.Start(SidePlayer)

	ticks := int((301 * time.Second) / c.Cadence())
	for i := 0; i < ticks; i++ {
		c.Tick()
	}

	if len(timeouts) != 1 || timeouts[0] != SidePlayer {
		t.Fatalf("timeouts = %v, want exactly one for player", timeouts)
	}
	snap := c.Snapshot()
	if snap.PlayerRemaining != 0 {
		t.Fatalf("player remaining = %v, want 0", snap.PlayerRemaining)
	}
	if snap.OpponentRemaining != 300*time.Second {
		t.Fatalf("opponent remaining = %v", snap.OpponentRemaining)
	}
	if c.Phase() != PhaseExpired || c.Decrementing() != SideNone {
		t.Fatalf("phase = %s decrementing = %q", c.Phase(), c.Decrementing())
	}
}

func TestSingleDecrement(t *testing.T) {
	c := New()
	c.Initialize(mustPreset(t, PresetRapid))
	if c.Decrementing() != SideNone {
		t.Fatal("idle clock decrements")
	}

	c.Start(SideOpponent)
	before := c.Snapshot()
	c.Tick()
	after := c.Snapshot()
	if after.PlayerRemaining != before.PlayerRemaining {
		t.Fatal("inactive side lost time")
	}
	if after.OpponentRemaining != before.OpponentRemaining-c.Cadence() {
		t.Fatalf("opponent = %v, want %v", after.OpponentRemaining, before.OpponentRemaining-c.Cadence())
	}
	if c.Decrementing() != SideOpponent {
		t.Fatalf("decrementing = %q", c.Decrementing())
	}
}

func TestSwitchAddsIncrementToMover(t *testing.T) {
	c := New()
	c.Initialize(mustPreset(t, PresetBlitz32))
	c.Start(SidePlayer)
	c.Tick()
	c.SwitchActive()

	snap := c.Snapshot()
	want := 180*time.Second - c.Cadence() + 2*time.Second
	if snap.PlayerRemaining != want {
		t.Fatalf("player = %v, want %v", snap.PlayerRemaining, want)
	}
	if snap.OpponentRemaining != 180*time.Second {
		t.Fatalf("opponent = %v", snap.OpponentRemaining)
	}
	if snap.Active != SideOpponent {
		t.Fatalf("active = %q", snap.Active)
	}
}

func TestSwitchWithoutActiveSideIsNoop(t *testing.T) {
	c := New()
	c.Initialize(mustPreset(t, PresetRapid))
	before := c.Snapshot()
	c.SwitchActive()
	if c.Snapshot() != before {
		t.Fatal("switch changed an idle clock")
	}
}

func TestPauseIsIdempotent(t *testing.T) {
	once, twice := New(), New()
	for _, c := range []*Clock{once, twice} {
		c.Initialize(mustPreset(t, PresetBlitz))
		c.Start(SidePlayer)
		c.Tick()
	}
	once.Pause()
	twice.Pause()
	twice.Pause()

	if once.Snapshot() != twice.Snapshot() {
		t.Fatalf("pause twice = %+v, once = %+v", twice.Snapshot(), once.Snapshot())
	}
	before := twice.Snapshot()
	twice.Tick()
	if twice.Snapshot() != before {
		t.Fatal("paused clock ticked")
	}
	if twice.Decrementing() != SideNone {
		t.Fatal("paused clock reports a decrementing side")
	}

	twice.Resume()
	if twice.Decrementing() != SidePlayer {
		t.Fatalf("after resume decrementing = %q", twice.Decrementing())
	}
}

func TestUnlimitedIgnoresStartAndSwitch(t *testing.T) {
	c := New()
	c.Initialize(mustPreset(t, PresetUnlimited))
	c.Start(SidePlayer)
	for i := 0; i < 5; i++ {
		c.SwitchActive()
		c.Tick()
	}
	snap := c.Snapshot()
	if snap.Active != SideNone || snap.Phase != PhaseIdle {
		t.Fatalf("unlimited clock moved: %+v", snap)
	}
	if c.Decrementing() != SideNone {
		t.Fatal("unlimited clock decrements")
	}
	if got := FormatRemaining(snap.PlayerRemaining, snap.Unlimited); got != "∞" {
		t.Fatalf("format = %q", got)
	}
}

func TestResetRestoresTimeControl(t *testing.T) {
	c := New()
	c.Reset()
	if c.Phase() != PhaseUninitialized {
		t.Fatal("reset initialized a fresh clock")
	}

	c.Initialize(mustPreset(t, PresetBullet))
	c.Start(SidePlayer)
	for i := 0; i < 10; i++ {
		c.Tick()
	}
	c.Reset()
	snap := c.Snapshot()
	if snap.PlayerRemaining != 60*time.Second || snap.Active != SideNone || snap.Phase != PhaseIdle {
		t.Fatalf("after reset: %+v", snap)
	}
}

func TestTimeoutAgainAfterReset(t *testing.T) {
	c := New(WithCadence(time.Second))
	c.Initialize(TimeControl{Name: "tiny", Initial: 2 * time.Second})
	count := 0
	c.OnTimeout(func(Side) { count++ })

	for round := 0; round < 2; round++ {
		c.Start(SideOpponent)
		for i := 0; i < 5; i++ {
			c.Tick()
		}
		c.Reset()
	}
	if count != 2 {
		t.Fatalf("timeouts = %d, want one per expiry", count)
	}
}

func TestStartAfterExpiryIsNoop(t *testing.T) {
	c := New(WithCadence(time.Second))
	c.Initialize(TimeControl{Name: "tiny", Initial: time.Second})
	c.Start(SidePlayer)
	c.Tick()
	c.Start(SideOpponent)
	if c.Phase() != PhaseExpired {
		t.Fatalf("phase = %s", c.Phase())
	}
}

func TestTickObserverSeesState(t *testing.T) {
	c := New()
	c.Initialize(mustPreset(t, PresetBullet))
	var got []Snapshot
	c.OnTick(func(s Snapshot) { got = append(got, s) })
	c.Start(SidePlayer)
	c.Tick()
	c.Tick()
	if len(got) != 2 {
		t.Fatalf("ticks observed = %d", len(got))
	}
	if got[1].PlayerRemaining != 60*time.Second-2*c.Cadence() || got[1].Active != SidePlayer {
		t.Fatalf("last snapshot = %+v", got[1])
	}
}

func TestObserverMayCallBack(t *testing.T) {
	c := New(WithCadence(time.Second))
	c.Initialize(TimeControl{Name: "tiny", Initial: time.Second})
	done := make(chan Snapshot, 1)
	c.OnTimeout(func(Side) { done <- c.Snapshot() })
	c.Start(SidePlayer)
	c.Tick()
	select {
	case snap := <-done:
		if snap.Phase != PhaseExpired {
			t.Fatalf("phase = %s", snap.Phase)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout observer deadlocked")
	}
}

func TestRunTicksUntilCancel(t *testing.T) {
	c := New(WithCadence(5 * time.Millisecond))
	c.Initialize(TimeControl{Name: "short", Initial: 25 * time.Millisecond})

	var (
		mu   sync.Mutex
		lost Side
	)
	expired := make(chan struct{})
	c.OnTimeout(func(s Side) {
		mu.Lock()
		lost = s
		mu.Unlock()
		close(expired)
	})
	c.Start(SideOpponent)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		t.Fatal("Run never expired the clock")
	}
	mu.Lock()
	defer mu.Unlock()
	if lost != SideOpponent {
		t.Fatalf("lost = %q", lost)
	}
}

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{100 * time.Millisecond, "0:01"},
		{59 * time.Second, "0:59"},
		{5*time.Minute + 7*time.Second, "5:07"},
		{30 * time.Minute, "30:00"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tc := range cases {
		if got := FormatRemaining(tc.d, false); got != tc.want {
			t.Errorf("FormatRemaining(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestLowTimeFlags(t *testing.T) {
	s := Snapshot{PlayerRemaining: 25 * time.Second, OpponentRemaining: 9 * time.Second}
	if !s.LowTime(SidePlayer) || s.Critical(SidePlayer) {
		t.Fatal("player flags wrong")
	}
	if !s.LowTime(SideOpponent) || !s.Critical(SideOpponent) {
		t.Fatal("opponent flags wrong")
	}
	s.Unlimited = true
	if s.LowTime(SideOpponent) || s.Critical(SideOpponent) {
		t.Fatal("unlimited clock flagged")
	}
	d := Snapshot{PlayerRemaining: 25 * time.Second, OpponentRemaining: 9 * time.Second}.Display()
	if d.Player != "0:25" || d.Opponent != "0:09" || !d.OpponentCritical {
		t.Fatalf("display = %+v", d)
	}
}

func TestLookupPreset(t *testing.T) {
	tc, ok := LookupPreset(" Rapid ")
	if !ok || tc.Initial != 600*time.Second || tc.Increment != 5*time.Second {
		t.Fatalf("rapid = %+v ok=%v", tc, ok)
	}
	if _, ok := LookupPreset("hyperbullet"); ok {
		t.Fatal("unknown preset resolved")
	}
	if len(Presets()) != 6 {
		t.Fatalf("presets = %d", len(Presets()))
	}
}
