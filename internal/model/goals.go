package model

// Goals is the six-tier goal hierarchy captured during onboarding, either
// extracted by the coach or entered by hand. Replaced wholesale, never
// edited in place.
type Goals struct {
	LongTerm []string `json:"long_term"`
	Decade   []string `json:"decade"`
	Yearly   []string `json:"yearly"`
	Monthly  []string `json:"monthly"`
	Weekly   []string `json:"weekly"`
	Daily    []string `json:"daily"`
}

// ByTier returns the goal strings for the given tier.
func (g Goals) ByTier(t Tier) []string {
	switch t {
	case TierDaily:
		return g.Daily
	case TierWeekly:
		return g.Weekly
	case TierMonthly:
		return g.Monthly
	case TierYearly:
		return g.Yearly
	case TierDecade:
		return g.Decade
	case TierLongTerm:
		return g.LongTerm
	default:
		return nil
	}
}

// IsEmpty reports whether no tier holds any goal.
func (g Goals) IsEmpty() bool {
	for _, t := range Tiers {
		if len(g.ByTier(t)) > 0 {
			return false
		}
	}
	return true
}
