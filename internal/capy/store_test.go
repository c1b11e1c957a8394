package capy

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hodan/capyd/internal/database"
	"github.com/hodan/capyd/internal/model"
	"github.com/hodan/capyd/internal/store"
)

func setupTestStore(t *testing.T) (*Store, *store.StateStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	states := store.NewStateStore(db)
	return New(states, slog.Default()), states
}

// setClock pins the store's clock to a fixed instant.
func setClock(s *Store, at time.Time) {
	s.now = func() time.Time { return at }
}

func TestAddToggleEndToEnd(t *testing.T) {
	s, _ := setupTestStore(t)

	task := s.AddTask("Run 5k", model.TierDaily)
	if task == nil {
		t.Fatal("add task returned nil")
	}
	if len(s.Tasks()) != 1 {
		t.Fatalf("task list length = %d, want 1", len(s.Tasks()))
	}
	if task.CoinReward != 10 {
		t.Errorf("coin reward = %d, want 10 (creation table)", task.CoinReward)
	}
	if task.StatReward == nil || *task.StatReward != model.StatMood {
		t.Errorf("stat reward = %v, want mood", task.StatReward)
	}

	toggled := s.ToggleTask(task.ID)
	if toggled == nil || !toggled.IsDone {
		t.Fatal("toggle did not complete the task")
	}
	if toggled.CompletedAt == nil {
		t.Error("completed task missing completion timestamp")
	}
	if got := s.Stats().Coins; got != 5 {
		t.Errorf("coins = %d, want 5 (completion table)", got)
	}
	if !s.AllDailyComplete() {
		t.Error("expected all daily complete")
	}
	if got := s.Stats().Streak; got != 1 {
		t.Errorf("streak = %d, want 1", got)
	}

	back := s.ToggleTask(task.ID)
	if back == nil || back.IsDone {
		t.Fatal("second toggle did not uncheck the task")
	}
	if back.CompletedAt != nil {
		t.Error("unchecked task still has completion timestamp")
	}
}

func TestAddTaskRejectsBlankTitle(t *testing.T) {
	s, _ := setupTestStore(t)

	if task := s.AddTask("   \n ", model.TierDaily); task != nil {
		t.Fatalf("expected nil for blank title, got %+v", task)
	}
	if len(s.Tasks()) != 0 {
		t.Error("blank add mutated the task list")
	}
}

func TestToggleUnknownIDIsNoop(t *testing.T) {
	s, _ := setupTestStore(t)

	if got := s.ToggleTask(uuid.NewString()); got != nil {
		t.Errorf("toggle unknown id = %+v, want nil", got)
	}
	if s.DeleteTask("nope") {
		t.Error("delete unknown id reported success")
	}
}

func TestNoDoubleCreditBeyondOnTransitions(t *testing.T) {
	s, _ := setupTestStore(t)

	task := s.AddTask("Stretch", model.TierDaily)

	s.ToggleTask(task.ID) // on: +5
	if got := s.Stats().Coins; got != 5 {
		t.Fatalf("after first completion coins = %d, want 5", got)
	}
	s.ToggleTask(task.ID) // off: credit kept, not reversed
	if got := s.Stats().Coins; got != 5 {
		t.Fatalf("after uncheck coins = %d, want 5", got)
	}
	s.ToggleTask(task.ID) // on again: one more credit
	if got := s.Stats().Coins; got != 10 {
		t.Fatalf("after re-completion coins = %d, want 10", got)
	}
}

func TestSpendCoinsNeverNegative(t *testing.T) {
	s, _ := setupTestStore(t)

	task := s.AddTask("Journal", model.TierWeekly)
	s.ToggleTask(task.ID) // +10

	if s.SpendCoins(0) {
		t.Error("zero spend accepted")
	}
	if s.SpendCoins(-3) {
		t.Error("negative spend accepted")
	}
	if s.SpendCoins(11) {
		t.Error("overdraw accepted")
	}
	if got := s.Stats().Coins; got != 10 {
		t.Errorf("failed spends mutated balance: %d", got)
	}

	if !s.SpendCoins(10) {
		t.Error("exact spend rejected")
	}
	if got := s.Stats().Coins; got != 0 {
		t.Errorf("coins = %d, want 0", got)
	}
	if s.SpendCoins(1) {
		t.Error("spend from empty wallet accepted")
	}
}

func TestResetDailyIdempotent(t *testing.T) {
	s, _ := setupTestStore(t)
	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	setClock(s, day1)

	daily := s.AddTask("Walk", model.TierDaily)
	weekly := s.AddTask("Review week", model.TierWeekly)
	s.ToggleTask(daily.ID)
	s.ToggleTask(weekly.ID)

	setClock(s, day1.AddDate(0, 0, 1))
	if !s.ResetDailyIfNeeded() {
		t.Fatal("expected reset on new day")
	}
	if s.ResetDailyIfNeeded() {
		t.Error("second reset on the same day should be a no-op")
	}

	for _, task := range s.Tasks() {
		switch task.Tier {
		case model.TierDaily:
			if task.IsDone || task.CompletedAt != nil {
				t.Error("daily task not cleared by reset")
			}
		case model.TierWeekly:
			if !task.IsDone {
				t.Error("weekly task must survive the daily reset")
			}
		}
	}
}

func TestStreakSequence(t *testing.T) {
	s, _ := setupTestStore(t)
	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 20, 0, 0, 0, time.Local)
	}

	setClock(s, day(1))
	task := s.AddTask("Meditate", model.TierDaily)

	s.ToggleTask(task.ID)
	if got := s.Stats().Streak; got != 1 {
		t.Fatalf("day 1 streak = %d, want 1", got)
	}

	setClock(s, day(2))
	s.ResetDailyIfNeeded()
	s.ToggleTask(task.ID)
	if got := s.Stats().Streak; got != 2 {
		t.Fatalf("day 2 streak = %d, want 2", got)
	}

	// Skip day 3 entirely.
	setClock(s, day(4))
	s.ResetDailyIfNeeded()
	if got := s.Stats().Streak; got != 0 {
		t.Fatalf("streak after missed day = %d, want 0", got)
	}
	s.ToggleTask(task.ID)
	if got := s.Stats().Streak; got != 1 {
		t.Fatalf("day 4 streak = %d, want 1 (fresh start)", got)
	}
}

func TestStreakSameDayCountedOnce(t *testing.T) {
	s, _ := setupTestStore(t)
	setClock(s, time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local))

	a := s.AddTask("A", model.TierDaily)
	b := s.AddTask("B", model.TierDaily)

	s.ToggleTask(a.ID)
	if got := s.Stats().Streak; got != 0 {
		t.Fatalf("streak with pending daily = %d, want 0", got)
	}
	s.ToggleTask(b.ID)
	if got := s.Stats().Streak; got != 1 {
		t.Fatalf("streak = %d, want 1", got)
	}

	// Untoggle and retoggle within the same day: already counted.
	s.ToggleTask(b.ID)
	s.ToggleTask(b.ID)
	if got := s.Stats().Streak; got != 1 {
		t.Errorf("same-day recompletion changed streak to %d", got)
	}
}

func TestMoodBoundaries(t *testing.T) {
	cases := []struct {
		done, total int
		want        model.Mood
	}{
		{33, 100, model.MoodSleepy},
		{34, 100, model.MoodFocused},
		{66, 100, model.MoodFocused},
		{67, 100, model.MoodProud},
		{0, 0, model.MoodSleepy},
	}

	for _, tc := range cases {
		s, _ := setupTestStore(t)
		tasks := make([]model.Task, tc.total)
		for i := range tasks {
			tasks[i] = model.Task{
				ID:        uuid.NewString(),
				Title:     "t",
				Tier:      model.TierWeekly,
				IsDone:    i < tc.done,
				CreatedAt: time.Now(),
			}
		}
		s.SetTasks(tasks)
		if got := s.Stats().Mood; got != tc.want {
			t.Errorf("%d/%d done: mood = %s, want %s", tc.done, tc.total, got, tc.want)
		}
	}
}

func TestSnapshotRestoredAcrossRestart(t *testing.T) {
	s, states := setupTestStore(t)

	s.UpdateProfile("Yazide", "ship the app, run 5k")
	task := s.AddTask("Run 5k", model.TierDaily)
	s.ToggleTask(task.ID)

	reloaded := New(states, slog.Default())
	snap := reloaded.Snapshot()
	if snap.Profile.Name != "Yazide" {
		t.Errorf("profile name = %q", snap.Profile.Name)
	}
	if len(snap.Tasks) != 1 || snap.Tasks[0].Title != "Run 5k" {
		t.Fatalf("tasks not restored: %+v", snap.Tasks)
	}
	if snap.Stats.Coins != 5 || snap.Stats.Streak != 1 {
		t.Errorf("stats not restored: %+v", snap.Stats)
	}
}

func TestCorruptSnapshotFallsBackToDefaults(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	states := store.NewStateStore(db)
	if err := states.Set(store.StateKey, []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	s := New(states, slog.Default())
	snap := s.Snapshot()
	if len(snap.Tasks) != 0 || snap.Stats.Coins != 0 {
		t.Errorf("expected empty defaults, got %+v", snap)
	}
	if snap.Stats.Mood != model.MoodSleepy {
		t.Errorf("default mood = %s, want sleepy", snap.Stats.Mood)
	}
}

func TestCareStatsFollowToggle(t *testing.T) {
	s, _ := setupTestStore(t)

	task := s.AddTask("Shower", model.TierMonthly) // hygiene
	s.ToggleTask(task.ID)
	if got := s.Snapshot().Care.Hygiene; got != 1 {
		t.Errorf("hygiene after completion = %d, want 1", got)
	}
	s.ToggleTask(task.ID)
	if got := s.Snapshot().Care.Hygiene; got != 0 {
		t.Errorf("hygiene after uncheck = %d, want 0", got)
	}

	// Meters clamp at the top of the range.
	for i := 0; i < 10; i++ {
		s.AdjustCare(model.StatEnergy, 1)
	}
	if got := s.Snapshot().Care.Energy; got != model.CareStatMax {
		t.Errorf("energy = %d, want clamp at %d", got, model.CareStatMax)
	}
}
