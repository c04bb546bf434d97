package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rosterforge/roster-engine/internal/roster/events"
	"github.com/rosterforge/roster-engine/internal/roster/handler"
	"github.com/rosterforge/roster-engine/internal/roster/orchestrator"
	"github.com/rosterforge/roster-engine/internal/roster/reader"
	"github.com/rosterforge/roster-engine/internal/roster/repository"
	"github.com/rosterforge/roster-engine/internal/roster/snapshot"
	"github.com/rosterforge/roster-engine/internal/roster/writer"
	"github.com/rosterforge/roster-engine/pkg/config"
	"github.com/rosterforge/roster-engine/pkg/database"
	"github.com/rosterforge/roster-engine/pkg/httputil"
	"github.com/rosterforge/roster-engine/pkg/logger"
	"github.com/rosterforge/roster-engine/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("roster-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("roster-service", cfg.Server.Environment)
	log.Info().Msg("starting Roster Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher
	publisher, err := events.NewRosterEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	workerRepo := repository.NewWorkerRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	skillMixRepo := repository.NewSkillMixRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	timeslotRepo := repository.NewTimeSlotRepository(db)
	staffRequestRepo := repository.NewStaffRequestRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)

	// The horizon length N is the count of Day entities in the store
	// (§3); it is fixed by the CRUD layer's setup, not by this service.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	days, err := shiftRepo.ListDays(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load horizon days")
	}
	horizonDays := len(days)
	if horizonDays == 0 {
		log.Fatal().Msg("no Day entities configured; cannot determine roster horizon")
	}
	log.Info().Int("horizon_days", horizonDays).Msg("resolved roster horizon")

	// Wire the generation pipeline (C2 -> C3 -> C4 -> C5, orchestrated by C6)
	loader := snapshot.NewLoader(db, workerRepo, shiftRepo, skillMixRepo, sequenceRepo, timeslotRepo, staffRequestRepo, leaveRepo)
	rosterWriter := writer.NewWriter(db, timeslotRepo)
	orchCfg := orchestrator.Config{
		SolverTimeBudgetSeconds: cfg.Solver.TimeBudgetSeconds,
		MaxConcurrentPerSession: cfg.Solver.MaxConcurrentPerSession,
		SolverWorkers:           cfg.Solver.Workers,
	}
	orch := orchestrator.New(orchCfg, loader, rosterWriter, publisher, log)

	// C7: roster reader for CSV export
	rosterReader := reader.NewReader(workerRepo, roleRepo, shiftRepo, timeslotRepo, leaveRepo)

	rosterHandler := handler.New(orch, rosterReader, horizonDays, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "roster-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		rosterHandler.Routes(r)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
