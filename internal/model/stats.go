package model

import "time"

// Mood is the capy's derived disposition, recomputed after every mutation
// that changes completion counts.
type Mood string

const (
	MoodSleepy  Mood = "sleepy"
	MoodFocused Mood = "focused"
	MoodProud   Mood = "proud"
)

// Stats is the persisted wallet and streak state. Coins never go negative;
// spends that would overdraw are rejected.
type Stats struct {
	Coins              int        `json:"coins"`
	Streak             int        `json:"streak"`
	LastCompletionDate *time.Time `json:"last_completion_date,omitempty"`
	LastResetDate      *time.Time `json:"last_reset_date,omitempty"`
	Mood               Mood       `json:"mood"`
}

const (
	CareStatMin = 0
	CareStatMax = 5
)

// CareStats tracks the capy's three care meters on a 0..5 scale.
type CareStats struct {
	Energy  int `json:"energy"`
	Hygiene int `json:"hygiene"`
	Mood    int `json:"mood"`
}

// Adjust moves one meter by delta, clamped to the valid range.
func (c *CareStats) Adjust(kind StatKind, delta int) {
	clamp := func(v int) int {
		if v < CareStatMin {
			return CareStatMin
		}
		if v > CareStatMax {
			return CareStatMax
		}
		return v
	}
	switch kind {
	case StatEnergy:
		c.Energy = clamp(c.Energy + delta)
	case StatHygiene:
		c.Hygiene = clamp(c.Hygiene + delta)
	case StatMood:
		c.Mood = clamp(c.Mood + delta)
	}
}
