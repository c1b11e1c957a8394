package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hodan/capyd/internal/capy"
	"github.com/hodan/capyd/internal/coach"
	"github.com/hodan/capyd/internal/handler"
	"github.com/hodan/capyd/internal/middleware"
	"github.com/hodan/capyd/internal/push"
	"github.com/hodan/capyd/internal/shop"
	"github.com/hodan/capyd/internal/store"
	ws "github.com/hodan/capyd/internal/websocket"
)

// Config carries everything the server wires together at startup.
type Config struct {
	CoachConfig coach.Config
	PushConfig  push.Config
	// AccessKeyHash is the bcrypt hash of the shared access key; empty
	// means open mode.
	AccessKeyHash []byte
	// ReminderHour is the local hour after which the evening check-in
	// reminder may fire. Negative disables it.
	ReminderHour int
}

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	accountStore  *capy.Store
	rotation      *shop.Rotation
	taskH         *handler.TaskHandler
	goalsH        *handler.GoalsHandler
	profileH      *handler.ProfileHandler
	stateH        *handler.StateHandler
	shopH         *handler.ShopHandler
	coachH        *handler.CoachHandler
	pushH         *handler.PushHandler
	pushStore     *store.PushStore
	pushService   *push.Service
	pushScheduler *push.Scheduler
	rateLimiter   *middleware.RateLimiter
	accessKeyHash []byte
	logger        *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	states := store.NewStateStore(db)
	pushSt := store.NewPushStore(db)

	accountStore := capy.New(states, logger.With("component", "capy"))
	rotation := shop.NewRotation(states, accountStore, logger.With("component", "shop"))

	coachClient := coach.NewClient(cfg.CoachConfig, logger.With("component", "coach"))

	pushLogger := logger.With("component", "push")
	var pushSvc *push.Service
	var pushH *handler.PushHandler
	if cfg.PushConfig.VAPIDPublicKey != "" && cfg.PushConfig.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.PushConfig.VAPIDPublicKey, cfg.PushConfig.VAPIDPrivateKey)
		pushH = handler.NewPushHandler(pushSt, pushSvc, pushLogger)
	}

	// The scheduler runs even without push keys: it still drives the
	// daily reset and the shop rotation, just without notifications.
	pushSched := push.NewScheduler(pushSvc, pushSt, accountStore, rotation, cfg.ReminderHour, func() {
		hub.Broadcast(ws.NewMessage("state", "daily_reset", "", nil))
	}, pushLogger)

	return &Server{
		db:            db,
		hub:           hub,
		accountStore:  accountStore,
		rotation:      rotation,
		taskH:         handler.NewTaskHandler(accountStore, hub),
		goalsH:        handler.NewGoalsHandler(accountStore, hub),
		profileH:      handler.NewProfileHandler(accountStore),
		stateH:        handler.NewStateHandler(accountStore, hub),
		shopH:         handler.NewShopHandler(rotation, accountStore, hub),
		coachH:        handler.NewCoachHandler(coachClient, accountStore, hub),
		pushH:         pushH,
		pushStore:     pushSt,
		pushService:   pushSvc,
		pushScheduler: pushSched,
		rateLimiter:   middleware.NewRateLimiter(),
		accessKeyHash: cfg.AccessKeyHash,
		logger:        logger,
	}
}

// PushScheduler returns the daily-cycle scheduler for lifecycle management.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no key required)
	outerMux.HandleFunc("GET /health", s.healthHandler)

	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	keyMiddleware := middleware.RequireKey(s.accessKeyHash)
	outerMux.Handle("/", keyMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// State and profile
	mux.HandleFunc("GET /api/state", s.stateH.Get)
	mux.HandleFunc("GET /api/stats", s.stateH.Stats)
	mux.HandleFunc("POST /api/reset", s.stateH.Reset)
	mux.HandleFunc("POST /api/coins/spend", s.stateH.SpendCoins)
	mux.HandleFunc("POST /api/care/adjust", s.stateH.AdjustCare)
	mux.HandleFunc("GET /api/profile", s.profileH.Get)
	mux.HandleFunc("PUT /api/profile", s.profileH.Update)

	// Goals
	mux.HandleFunc("GET /api/goals", s.goalsH.Get)
	mux.HandleFunc("PUT /api/goals", s.goalsH.Apply)

	// Tasks
	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.taskH.Toggle)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)

	// Shop
	mux.HandleFunc("GET /api/shop", s.shopH.Today)
	mux.HandleFunc("POST /api/shop/buy", s.shopH.Buy)

	// Coach routes are rate limited; the upstream model is slow and metered
	mux.HandleFunc("POST /api/coach/chat", s.rateLimitedHandler(s.coachH.Chat))
	mux.HandleFunc("POST /api/coach/goals", s.rateLimitedHandler(s.coachH.ExtractGoals))

	// Push notifications
	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
		mux.HandleFunc("POST /api/push/test", s.pushH.TestNotification)
	}

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
