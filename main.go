package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/quizdeck/internal/auth"
	"github.com/example/quizdeck/internal/config"
	"github.com/example/quizdeck/internal/database"
	"github.com/example/quizdeck/internal/notify"
	"github.com/example/quizdeck/internal/scheduler"
	"github.com/example/quizdeck/internal/server"
	"github.com/example/quizdeck/internal/session"
)

func main() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	authService := auth.NewService(store, cfg.JWTSecret, cfg.TokenTTL, cfg.AdminEmails)

	catalog := session.NewStoreAdapter(store)
	sessions := session.NewManager(catalog, catalog)

	handler := server.New(store, authService, sessions, cfg)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Hourly revision reminders are optional: they need a Telegram token
	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled && cfg.TelegramToken != "" {
		notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken)
		if err != nil {
			log.Fatalf("Failed to create Telegram notifier: %v", err)
		}
		sched = scheduler.New(store, notifier, cfg.ReminderStartHour, cfg.ReminderEndHour)
		sched.Start()
		log.Println("Reminder scheduler started")
	}

	go func() {
		log.Printf("Server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sig := <-sigChan
	log.Printf("Received signal: %v", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if sched != nil {
		sched.Stop()
	}
	sessions.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped successfully")
}
