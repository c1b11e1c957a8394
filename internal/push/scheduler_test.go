package push

import (
	"log/slog"
	"testing"
	"time"

	"github.com/hodan/capyd/internal/capy"
	"github.com/hodan/capyd/internal/database"
	"github.com/hodan/capyd/internal/model"
	"github.com/hodan/capyd/internal/shop"
	"github.com/hodan/capyd/internal/store"
)

func setupScheduler(t *testing.T, reminderHour int, onReset func(), clock *time.Time) (*Scheduler, *capy.Store) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	states := store.NewStateStore(db)
	accountStore := capy.NewWithClock(states, slog.Default(), func() time.Time { return *clock })
	rotation := shop.NewRotation(states, accountStore, slog.Default())
	sched := NewScheduler(nil, store.NewPushStore(db), accountStore, rotation, reminderHour, onReset, slog.Default())
	return sched, accountStore
}

func TestTickAppliesDailyReset(t *testing.T) {
	resets := 0
	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	clock := day1
	sched, accountStore := setupScheduler(t, -1, func() { resets++ }, &clock)

	task := accountStore.AddTask("Walk", model.TierDaily)
	accountStore.ToggleTask(task.ID)

	// Same day: nothing to do.
	sched.tick(day1)
	if resets != 0 {
		t.Fatalf("reset fired on same day")
	}

	day2 := day1.AddDate(0, 0, 1)
	clock = day2
	sched.tick(day2)
	if resets != 1 {
		t.Fatalf("resets = %d, want 1", resets)
	}
	for _, task := range accountStore.Tasks() {
		if task.IsDone {
			t.Error("daily task survived reset")
		}
	}

	// Second tick on the new day is a no-op.
	sched.tick(day2.Add(time.Minute))
	if resets != 1 {
		t.Errorf("resets = %d after repeat tick, want 1", resets)
	}
}

func TestReminderOncePerDayAfterHour(t *testing.T) {
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	sched, accountStore := setupScheduler(t, 18, nil, &clock)
	accountStore.AddTask("Stretch", model.TierDaily)

	morning := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	sched.maybeRemind(morning)
	if sched.lastReminderDay != "" {
		t.Error("reminder fired before the configured hour")
	}

	evening := time.Date(2026, 3, 1, 19, 0, 0, 0, time.Local)
	sched.maybeRemind(evening)
	if sched.lastReminderDay != "2026-03-01" {
		t.Errorf("lastReminderDay = %q", sched.lastReminderDay)
	}

	// Marked for today even with nil service; must not re-fire.
	sched.maybeRemind(evening.Add(time.Hour))
	if sched.lastReminderDay != "2026-03-01" {
		t.Error("reminder day changed on repeat")
	}
}

func TestReminderDisabled(t *testing.T) {
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	sched, accountStore := setupScheduler(t, -1, nil, &clock)
	accountStore.AddTask("Stretch", model.TierDaily)

	sched.maybeRemind(time.Date(2026, 3, 1, 23, 0, 0, 0, time.Local))
	if sched.lastReminderDay != "" {
		t.Error("disabled reminder still fired")
	}
}
