// Package reward holds the two tier-keyed reward tables.
//
// The tables are intentionally distinct: the creation table is the sticker
// price attached to a task when it is created, the completion table is the
// smaller payout actually banked when it is checked off. Both are total
// over the tier set.
package reward

import "github.com/hodan/capyd/internal/model"

// Creation returns the coin value and optional care stat attached to a
// task at creation time.
func Creation(t model.Tier) (int, *model.StatKind) {
	stat := func(k model.StatKind) *model.StatKind { return &k }
	switch t {
	case model.TierDaily:
		return 10, stat(model.StatMood)
	case model.TierWeekly:
		return 30, stat(model.StatEnergy)
	case model.TierMonthly:
		return 50, stat(model.StatHygiene)
	case model.TierYearly:
		return 200, stat(model.StatMood)
	case model.TierDecade:
		return 500, stat(model.StatEnergy)
	case model.TierLongTerm:
		return 1000, stat(model.StatHygiene)
	default:
		return 10, stat(model.StatMood)
	}
}

// Completion returns the coins credited to the wallet when a task of the
// given tier is completed.
func Completion(t model.Tier) int {
	switch t {
	case model.TierDaily:
		return 5
	case model.TierWeekly:
		return 10
	case model.TierMonthly:
		return 20
	case model.TierYearly:
		return 40
	case model.TierDecade:
		return 60
	case model.TierLongTerm:
		return 30
	default:
		return 5
	}
}
