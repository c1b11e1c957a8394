package model

import (
	"fmt"
	"strings"
	"time"
)

// StatKind names a capy care stat that a task or shop item can boost.
type StatKind string

const (
	StatEnergy  StatKind = "energy"
	StatHygiene StatKind = "hygiene"
	StatMood    StatKind = "mood"
)

func (s StatKind) IsValid() bool {
	switch s {
	case StatEnergy, StatHygiene, StatMood:
		return true
	default:
		return false
	}
}

func ParseStatKind(input string) (StatKind, error) {
	s := StatKind(strings.TrimSpace(strings.ToLower(input)))
	if !s.IsValid() {
		return "", fmt.Errorf("invalid stat: %q", input)
	}
	return s, nil
}

// Task is a single actionable item derived from a goal or added by hand.
// CompletedAt is set iff IsDone is true.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Tier        Tier       `json:"tier"`
	IsDone      bool       `json:"is_done"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CoinReward  int        `json:"coin_reward"`
	StatReward  *StatKind  `json:"stat_reward,omitempty"`
}
