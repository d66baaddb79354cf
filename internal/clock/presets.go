package clock

import (
	"strings"
	"time"
)

type TimeControl struct {
	Name      string        `json:"name"`
	Initial   time.Duration `json:"initial"`
	Increment time.Duration `json:"increment"`
	Unlimited bool          `json:"unlimited"`
}

const (
	PresetBullet    = "bullet"
	PresetBlitz     = "blitz"
	PresetBlitz32   = "blitz_3_2"
	PresetRapid     = "rapid"
	PresetClassical = "classical"
	PresetUnlimited = "unlimited"
)

var presets = []TimeControl{
	{Name: PresetBullet, Initial: 60 * time.Second},
	{Name: PresetBlitz, Initial: 300 * time.Second},
	{Name: PresetBlitz32, Initial: 180 * time.Second, Increment: 2 * time.Second},
	{Name: PresetRapid, Initial: 600 * time.Second, Increment: 5 * time.Second},
	{Name: PresetClassical, Initial: 1800 * time.Second, Increment: 10 * time.Second},
	{Name: PresetUnlimited, Unlimited: true},
}

func LookupPreset(name string) (TimeControl, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, tc := range presets {
		if tc.Name == name {
			return tc, true
		}
	}
	return TimeControl{}, false
}

func Presets() []TimeControl {
	out := make([]TimeControl, len(presets))
	copy(out, presets)
	return out
}
