package push

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hodan/capyd/internal/capy"
	"github.com/hodan/capyd/internal/model"
	"github.com/hodan/capyd/internal/shop"
	"github.com/hodan/capyd/internal/store"
)

// Scheduler drives the daily cycle: it applies the midnight reset (the
// server-side stand-in for the app coming to the foreground), rolls the
// shop day, and nudges subscribed devices once per evening while daily
// tasks are still open.
type Scheduler struct {
	mu           sync.RWMutex
	service      *Service
	subs         *store.PushStore
	accountStore *capy.Store
	rotation     *shop.Rotation
	logger       *slog.Logger
	interval     time.Duration
	reminderHour int
	onReset      func()

	lastReminderDay string
	cancel          context.CancelFunc
	done            chan struct{}
}

// NewScheduler creates the daily-cycle scheduler. onReset is invoked after
// each successful reset (the server broadcasts fresh status there); it may
// be nil. service may be nil when push is unconfigured; the reset logic
// still runs.
func NewScheduler(svc *Service, subs *store.PushStore, accountStore *capy.Store, rotation *shop.Rotation, reminderHour int, onReset func(), logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service:      svc,
		subs:         subs,
		accountStore: accountStore,
		rotation:     rotation,
		logger:       logger,
		interval:     60 * time.Second,
		reminderHour: reminderHour,
		onReset:      onReset,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(time.Now())
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick(now time.Time) {
	if s.accountStore.ResetDailyIfNeeded() {
		s.logger.Info("daily reset applied")
		// Roll the shop onto the new day key so the first request of the
		// morning already sees the fresh offering.
		s.rotation.Today()
		if s.onReset != nil {
			s.onReset()
		}
		s.notifyAll(Payload{
			Title: "A new capy day",
			Body:  "Fresh daily tasks and a new shop are waiting.",
			Tag:   model.NotifTagShopRefresh,
		})
	}

	s.maybeRemind(now)
}

// maybeRemind sends at most one reminder per day, after the configured
// hour, while daily tasks remain open.
func (s *Scheduler) maybeRemind(now time.Time) {
	if s.reminderHour < 0 {
		return
	}
	if now.Hour() < s.reminderHour {
		return
	}

	dayKey := shop.DayKey(now)
	s.mu.Lock()
	if s.lastReminderDay == dayKey {
		s.mu.Unlock()
		return
	}
	s.lastReminderDay = dayKey
	s.mu.Unlock()

	if !s.hasOpenDailyTasks() {
		return
	}

	s.notifyAll(Payload{
		Title: "Capy check-in",
		Body:  "A few daily tasks are still open. One small step?",
		Tag:   model.NotifTagDailyReminder,
	})
}

func (s *Scheduler) hasOpenDailyTasks() bool {
	for _, task := range s.accountStore.Tasks() {
		if task.Tier == model.TierDaily && !task.IsDone {
			return true
		}
	}
	return false
}

func (s *Scheduler) notifyAll(payload Payload) {
	if s.service == nil {
		return
	}

	subs, err := s.subs.List()
	if err != nil {
		s.logger.Error("list push subscriptions", "error", err)
		return
	}

	for i := range subs {
		sub := subs[i]
		if err := s.service.Send(&sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				s.logger.Info("removing expired subscription", "id", sub.ID)
				if err := s.subs.DeleteSubscription(sub.ID); err != nil {
					s.logger.Error("delete expired subscription", "error", err)
				}
				continue
			}
			s.logger.Warn("send push", "id", sub.ID, "error", err)
		}
	}
}
