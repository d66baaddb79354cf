// Package persona defines the five opponent tiers.
package persona

import (
	"strings"
	"time"
)

// Profile is an immutable bundle of difficulty and style parameters.
type Profile struct {
	Name               string        `json:"name"`
	RatingProxy        int           `json:"rating"`
	SearchDepthProxy   int           `json:"search_depth"`
	ThinkTime          time.Duration `json:"think_time"`
	Intensity          float64       `json:"intensity"`
	MistakeRate        float64       `json:"mistake_rate"`
	SacrificeThreshold float64       `json:"sacrifice_threshold"` // pawns, negative
}

const (
	Novice = "novice"
	Casual = "casual"
	Club   = "club"
	Master = "master"
	Legend = "legend"

	DefaultName = Club
)

var tiers = []Profile{
	{Name: Novice, RatingProxy: 800, SearchDepthProxy: 1, ThinkTime: 600 * time.Millisecond, Intensity: 0.2, MistakeRate: 0.30, SacrificeThreshold: -5},
	{Name: Casual, RatingProxy: 1200, SearchDepthProxy: 2, ThinkTime: 900 * time.Millisecond, Intensity: 0.4, MistakeRate: 0.20, SacrificeThreshold: -4},
	{Name: Club, RatingProxy: 1600, SearchDepthProxy: 3, ThinkTime: 1200 * time.Millisecond, Intensity: 0.6, MistakeRate: 0.10, SacrificeThreshold: -3},
	{Name: Master, RatingProxy: 2200, SearchDepthProxy: 4, ThinkTime: 1600 * time.Millisecond, Intensity: 0.8, MistakeRate: 0.04, SacrificeThreshold: -2},
	{Name: Legend, RatingProxy: 2700, SearchDepthProxy: 5, ThinkTime: 2000 * time.Millisecond, Intensity: 1.0, MistakeRate: 0, SacrificeThreshold: -1},
}

// Resolve returns the named tier; unknown names fall back to the default tier.
func Resolve(name string) Profile {
	p, ok := Lookup(name)
	if !ok {
		p, _ = Lookup(DefaultName)
	}
	return p
}

func Lookup(name string) (Profile, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range tiers {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

func All() []Profile {
	out := make([]Profile, len(tiers))
	copy(out, tiers)
	return out
}

func Names() []string {
	out := make([]string, 0, len(tiers))
	for _, p := range tiers {
		out = append(out, p.Name)
	}
	return out
}

// CandidatePool is how many top-scored moves the persona samples from:
// ceil(3 * (1 - intensity*0.5)).
func (p Profile) CandidatePool() int {
	n := 3 * (1 - p.Intensity*0.5)
	k := int(n)
	if float64(k) < n {
		k++
	}
	if k < 1 {
		k = 1
	}
	return k
}
