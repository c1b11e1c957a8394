// Package taskgen turns a goal hierarchy into a task list.
package taskgen

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hodan/capyd/internal/model"
	"github.com/hodan/capyd/internal/reward"
)

const fallbackTitle = "your goal"

// Generate maps every goal in every tier to one task with the tier's
// creation-table reward. The transformation is pure: the caller persists
// the result. An empty hierarchy yields an empty list.
func Generate(goals model.Goals, now time.Time) []model.Task {
	var tasks []model.Task
	for _, tier := range model.Tiers {
		for _, goal := range goals.ByTier(tier) {
			tasks = append(tasks, newTask(goal, tier, now))
		}
	}
	return tasks
}

func newTask(title string, tier model.Tier, now time.Time) model.Task {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		trimmed = fallbackTitle
	}
	coins, stat := reward.Creation(tier)
	return model.Task{
		ID:         uuid.NewString(),
		Title:      trimmed,
		Tier:       tier,
		CreatedAt:  now,
		CoinReward: coins,
		StatReward: stat,
	}
}
