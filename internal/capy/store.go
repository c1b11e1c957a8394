// Package capy owns the accountability state machine: profile, goal
// hierarchy, task list, wallet, streak, and the capy's mood. It is the only
// writer of that state and snapshots it to storage after every mutation.
package capy

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hodan/capyd/internal/model"
	"github.com/hodan/capyd/internal/reward"
	"github.com/hodan/capyd/internal/store"
	"github.com/hodan/capyd/internal/taskgen"
)

// Store is the single owner of accountability state. All operations are
// synchronous: mutate in memory, then write the full snapshot before
// returning. Persistence failures are logged, never surfaced to callers.
type Store struct {
	mu     sync.Mutex
	states *store.StateStore
	logger *slog.Logger
	now    func() time.Time

	profile model.Profile
	goals   *model.Goals
	tasks   []model.Task
	stats   model.Stats
	care    model.CareStats
}

// New loads the persisted snapshot (falling back to an empty default on a
// missing or corrupt blob) and applies the daily reset.
func New(states *store.StateStore, logger *slog.Logger) *Store {
	return NewWithClock(states, logger, time.Now)
}

// NewWithClock is New with an injectable time source.
func NewWithClock(states *store.StateStore, logger *slog.Logger, now func() time.Time) *Store {
	s := &Store{
		states: states,
		logger: logger,
		now:    now,
		stats:  model.Stats{Mood: model.MoodSleepy},
	}
	s.load()
	s.ResetDailyIfNeeded()
	return s
}

func (s *Store) load() {
	data, err := s.states.Get(store.StateKey)
	if err != nil {
		s.logger.Error("load state", "error", err)
		return
	}
	if data == nil {
		return
	}
	var state model.State
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Error("decode state, starting fresh", "error", err)
		return
	}
	s.profile = state.Profile
	s.goals = state.Goals
	s.tasks = state.Tasks
	s.stats = state.Stats
	s.care = state.Care
	if s.stats.Mood == "" {
		s.stats.Mood = model.MoodSleepy
	}
}

// save must be called with s.mu held.
func (s *Store) save() {
	state := model.State{
		Profile: s.profile,
		Goals:   s.goals,
		Tasks:   s.tasks,
		Stats:   s.stats,
		Care:    s.care,
	}
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("encode state", "error", err)
		return
	}
	if err := s.states.Set(store.StateKey, data); err != nil {
		s.logger.Error("save state", "error", err)
	}
}

// UpdateProfile replaces the profile.
func (s *Store) UpdateProfile(name, goalsText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = model.Profile{Name: name, GoalsText: goalsText}
	s.save()
}

// UpdateGoals replaces the goal hierarchy. A nil value clears it.
func (s *Store) UpdateGoals(goals *model.Goals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = goals
	s.save()
}

// SetTasks replaces the entire task list, used after bulk generation.
func (s *Store) SetTasks(tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	s.updateMood()
	s.save()
}

// ApplyGoals stores the hierarchy and regenerates the task list from it.
func (s *Store) ApplyGoals(goals model.Goals) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := goals
	s.goals = &g
	s.tasks = taskgen.Generate(goals, s.now())
	s.updateMood()
	s.save()
	return append([]model.Task(nil), s.tasks...)
}

// AddTask appends a new task with the tier's creation-table reward.
// Returns nil without mutating if the trimmed title is empty.
func (s *Store) AddTask(title string, tier model.Tier) *model.Task {
	trimmed := trimTitle(title)
	if trimmed == "" {
		return nil
	}
	if !tier.IsValid() {
		tier = model.TierDaily
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coins, stat := reward.Creation(tier)
	task := model.Task{
		ID:         uuid.NewString(),
		Title:      trimmed,
		Tier:       tier,
		CreatedAt:  s.now(),
		CoinReward: coins,
		StatReward: stat,
	}
	s.tasks = append(s.tasks, task)
	s.updateMood()
	s.save()
	return &task
}

// DeleteTask removes a task by id. Returns false if the id is unknown.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.updateMood()
	s.save()
	return true
}

// ToggleTask flips a task's completion state. Completing a task credits
// the completion-table payout and may advance the streak; unchecking
// clears the completion timestamp without reversing the credit. Returns
// the updated task, or nil if the id is unknown.
func (s *Store) ToggleTask(id string) *model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	task := &s.tasks[idx]
	task.IsDone = !task.IsDone
	if task.IsDone {
		now := s.now()
		task.CompletedAt = &now
		s.stats.Coins += reward.Completion(task.Tier)
		if task.StatReward != nil {
			s.care.Adjust(*task.StatReward, 1)
		}
		s.recordDailyCompletionIfNeeded()
	} else {
		task.CompletedAt = nil
		if task.StatReward != nil {
			s.care.Adjust(*task.StatReward, -1)
		}
	}
	s.updateMood()
	s.save()

	out := *task
	return &out
}

// SpendCoins debits the wallet. Returns false, without mutating, if the
// amount is non-positive or exceeds the balance.
func (s *Store) SpendCoins(amount int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 || s.stats.Coins < amount {
		return false
	}
	s.stats.Coins -= amount
	s.save()
	return true
}

// AdjustCare bumps one care meter, used by shop purchases.
func (s *Store) AdjustCare(kind model.StatKind, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.care.Adjust(kind, delta)
	s.save()
}

// ResetDailyIfNeeded clears completion state on daily-tier tasks once per
// calendar day and decays the streak after a missed day. Longer-horizon
// tasks persist until completed or deleted. Returns true if a reset ran.
func (s *Store) ResetDailyIfNeeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	today := startOfDay(now)
	if s.stats.LastResetDate != nil && sameDay(*s.stats.LastResetDate, today) {
		return false
	}

	for i := range s.tasks {
		if s.tasks[i].Tier == model.TierDaily {
			s.tasks[i].IsDone = false
			s.tasks[i].CompletedAt = nil
		}
	}

	s.stats.LastResetDate = &now
	if s.stats.LastCompletionDate != nil {
		lastDay := startOfDay(*s.stats.LastCompletionDate)
		yesterday := today.AddDate(0, 0, -1)
		if lastDay.Before(yesterday) {
			s.stats.Streak = 0
		}
	}
	s.updateMood()
	s.save()
	return true
}

// recordDailyCompletionIfNeeded must be called with s.mu held. It runs the
// streak evaluation when every daily task has just been completed.
func (s *Store) recordDailyCompletionIfNeeded() {
	if !s.allDailyComplete() {
		return
	}
	now := s.now()
	today := startOfDay(now)

	if s.stats.LastCompletionDate != nil {
		lastDay := startOfDay(*s.stats.LastCompletionDate)
		if sameDay(lastDay, today) {
			return // already counted today
		}
		if sameDay(lastDay.AddDate(0, 0, 1), today) {
			s.stats.Streak++
		} else {
			s.stats.Streak = 1
		}
	} else {
		s.stats.Streak = 1
	}

	s.stats.LastCompletionDate = &now
}

// updateMood must be called with s.mu held.
func (s *Store) updateMood() {
	ratio := s.dailyCompletionRatio()
	if all := s.completionRatio(); all > ratio {
		ratio = all
	}
	switch {
	case ratio < 0.34:
		s.stats.Mood = model.MoodSleepy
	case ratio < 0.67:
		s.stats.Mood = model.MoodFocused
	default:
		s.stats.Mood = model.MoodProud
	}
}

// CompletionRatio is done/total over all tasks, 0 when the list is empty.
func (s *Store) CompletionRatio() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completionRatio()
}

func (s *Store) completionRatio() float64 {
	if len(s.tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range s.tasks {
		if t.IsDone {
			done++
		}
	}
	return float64(done) / float64(len(s.tasks))
}

// DailyCompletionRatio is done/total over daily-tier tasks only.
func (s *Store) DailyCompletionRatio() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyCompletionRatio()
}

func (s *Store) dailyCompletionRatio() float64 {
	total, done := 0, 0
	for _, t := range s.tasks {
		if t.Tier != model.TierDaily {
			continue
		}
		total++
		if t.IsDone {
			done++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// AllDailyComplete is true iff at least one daily task exists and all of
// them are done.
func (s *Store) AllDailyComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allDailyComplete()
}

func (s *Store) allDailyComplete() bool {
	found := false
	for _, t := range s.tasks {
		if t.Tier != model.TierDaily {
			continue
		}
		if !t.IsDone {
			return false
		}
		found = true
	}
	return found
}

// Snapshot returns a copy of the full state.
func (s *Store) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.State{
		Profile: s.profile,
		Goals:   s.goals,
		Tasks:   append([]model.Task(nil), s.tasks...),
		Stats:   s.stats,
		Care:    s.care,
	}
}

// Tasks returns a copy of the task list.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Task(nil), s.tasks...)
}

// Stats returns the current wallet and streak state.
func (s *Store) Stats() model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func trimTitle(title string) string {
	return strings.TrimSpace(title)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
