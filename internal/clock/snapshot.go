package clock

import (
	"fmt"
	"time"
)

const (
	LowTimeThreshold  = 30 * time.Second
	CriticalThreshold = 10 * time.Second
)

type Snapshot struct {
	PlayerRemaining   time.Duration `json:"player_remaining"`
	OpponentRemaining time.Duration `json:"opponent_remaining"`
	Increment         time.Duration `json:"increment"`
	Active            Side          `json:"active"`
	Paused            bool          `json:"paused"`
	Phase             Phase         `json:"phase"`
	Preset            string        `json:"preset"`
	Unlimited         bool          `json:"unlimited"`
}

func (s Snapshot) Remaining(side Side) time.Duration {
	if side == SideOpponent {
		return s.OpponentRemaining
	}
	return s.PlayerRemaining
}

func (s Snapshot) LowTime(side Side) bool {
	return !s.Unlimited && s.Remaining(side) <= LowTimeThreshold
}

func (s Snapshot) Critical(side Side) bool {
	return !s.Unlimited && s.Remaining(side) <= CriticalThreshold
}

// Display is the per-tick payload for a timer view.
type Display struct {
	Player           string `json:"player"`
	Opponent         string `json:"opponent"`
	Active           Side   `json:"active"`
	PlayerLowTime    bool   `json:"player_low_time"`
	PlayerCritical   bool   `json:"player_critical"`
	OpponentLowTime  bool   `json:"opponent_low_time"`
	OpponentCritical bool   `json:"opponent_critical"`
	Paused           bool   `json:"paused"`
	Phase            Phase  `json:"phase"`
}

func (s Snapshot) Display() Display {
	return Display{
		Player:           FormatRemaining(s.PlayerRemaining, s.Unlimited),
		Opponent:         FormatRemaining(s.OpponentRemaining, s.Unlimited),
		Active:           s.Active,
		PlayerLowTime:    s.LowTime(SidePlayer),
		PlayerCritical:   s.Critical(SidePlayer),
		OpponentLowTime:  s.LowTime(SideOpponent),
		OpponentCritical: s.Critical(SideOpponent),
		Paused:           s.Paused,
		Phase:            s.Phase,
	}
}

// FormatRemaining renders m:ss below an hour and h:mm:ss above. Partial
// seconds round up so 0:00 only shows once time is gone.
func FormatRemaining(d time.Duration, unlimited bool) string {
	if unlimited {
		return "∞"
	}
	if d < 0 {
		d = 0
	}
	secs := int64((d + time.Second - 1) / time.Second)
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
