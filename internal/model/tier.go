package model

import (
	"fmt"
	"strings"
)

// Tier is the horizon of a goal or task. The same closed set keys the
// reward tables and the task list filters.
type Tier string

const (
	TierDaily    Tier = "daily"
	TierWeekly   Tier = "weekly"
	TierMonthly  Tier = "monthly"
	TierYearly   Tier = "yearly"
	TierDecade   Tier = "decade"
	TierLongTerm Tier = "long_term"
)

// Tiers lists all tiers from shortest to longest horizon.
var Tiers = []Tier{TierDaily, TierWeekly, TierMonthly, TierYearly, TierDecade, TierLongTerm}

func (t Tier) IsValid() bool {
	switch t {
	case TierDaily, TierWeekly, TierMonthly, TierYearly, TierDecade, TierLongTerm:
		return true
	default:
		return false
	}
}

func ParseTier(input string) (Tier, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	t := Tier(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid tier: %q", input)
	}
	return t, nil
}
