package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hodan/capyd/internal/coach"
	"github.com/hodan/capyd/internal/database"
	"github.com/hodan/capyd/internal/logging"
	"github.com/hodan/capyd/internal/push"
	"github.com/hodan/capyd/internal/server"
)

func main() {
	port := os.Getenv("CAPYD_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("CAPYD_DB_PATH")
	if dbPath == "" {
		dbPath = "capyd.db"
	}

	logger := logging.Setup(os.Getenv("CAPYD_LOG_LEVEL"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	cfg := server.Config{
		CoachConfig: coach.Config{
			BaseURL: os.Getenv("CAPYD_COACH_URL"),
			APIKey:  os.Getenv("CAPYD_COACH_API_KEY"),
			Model:   os.Getenv("CAPYD_COACH_MODEL"),
		},
		PushConfig: push.Config{
			VAPIDPublicKey:  os.Getenv("CAPYD_VAPID_PUBLIC_KEY"),
			VAPIDPrivateKey: os.Getenv("CAPYD_VAPID_PRIVATE_KEY"),
		},
		ReminderHour: reminderHour(os.Getenv("CAPYD_REMINDER_HOUR")),
	}

	if key := os.Getenv("CAPYD_ACCESS_KEY"); key != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash access key: %v", err)
		}
		cfg.AccessKeyHash = hash
	}

	srv := server.New(db, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	srv.PushScheduler().Start(ctx)

	// Background cleanup goroutine
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 150 * time.Second, // coach requests can sit on a slow model
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("capyd running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	srv.PushScheduler().Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

// reminderHour parses the evening reminder hour; 21 by default, and any
// non-numeric or out-of-range value disables the reminder.
func reminderHour(s string) int {
	if s == "" {
		return 21
	}
	h, err := strconv.Atoi(s)
	if err != nil || h < 0 || h > 23 {
		return -1
	}
	return h
}
