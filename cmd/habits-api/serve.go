package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/metaember/habitsv2/internal/config"
	"github.com/metaember/habitsv2/internal/db"
	"github.com/metaember/habitsv2/internal/handlers"
	"github.com/metaember/habitsv2/internal/logger"
	"github.com/metaember/habitsv2/internal/middleware"
	"github.com/metaember/habitsv2/internal/repository"
	"github.com/metaember/habitsv2/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	logger.SetDefault(logger.NewSlogLogger(cfg.LoggerConfig()))
	logger.Info("starting habits API server",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := db.RunMigrations(cfg.Database.URL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	householdRepo := repository.NewHouseholdRepository(pool)
	habitRepo := repository.NewHabitRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	idempotencyRepo := repository.NewIdempotencyRepository(pool)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.Auth.Secret, cfg.Auth.TokenTTL)
	habitService := service.NewHabitService(habitRepo, userRepo)
	eventService := service.NewEventService(eventRepo, habitService)
	statsService := service.NewStatsService(eventRepo, userRepo, habitService)
	calendarService := service.NewCalendarService(eventRepo, userRepo, habitService)
	householdService := service.NewHouseholdService(householdRepo, userRepo)
	transferService := service.NewTransferService(habitRepo, eventRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	habitHandler := handlers.NewHabitHandler(habitService)
	eventHandler := handlers.NewEventHandler(eventService)
	statsHandler := handlers.NewStatsHandler(statsService, calendarService)
	householdHandler := handlers.NewHouseholdHandler(householdService)
	transferHandler := handlers.NewTransferHandler(transferService)
	healthHandler := handlers.NewHealthHandler(pool, cfg.Server.Env)

	// Set Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimit())

	// Health check
	router.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimitAuth(), authHandler.Register)
			auth.POST("/login", middleware.RateLimitAuth(), authHandler.Login)
			auth.GET("/me", middleware.Auth(authService), authHandler.Me)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.Auth(authService))
		protected.Use(middleware.Idempotency(idempotencyRepo))
		{
			// Habit routes
			protected.GET("/habits", habitHandler.ListHabits)
			protected.POST("/habits", habitHandler.CreateHabit)
			protected.GET("/habits/:id", habitHandler.GetHabit)
			protected.PATCH("/habits/:id", habitHandler.UpdateHabit)

			// Event routes
			protected.GET("/habits/:id/events", eventHandler.ListEvents)
			protected.POST("/habits/:id/events", eventHandler.CreateEvent)
			protected.POST("/events/:id/void", eventHandler.VoidEvent)

			// Stats routes
			protected.GET("/habits/:id/stats", statsHandler.GetHabitStats)
			protected.GET("/calendar", statsHandler.GetCalendar)

			// Household routes
			protected.GET("/households", householdHandler.GetHousehold)
			protected.POST("/households", householdHandler.CreateHousehold)
			protected.POST("/households/join", householdHandler.JoinHousehold)
			protected.POST("/households/members", householdHandler.AddMember)
			protected.DELETE("/households/members", householdHandler.RemoveMember)

			// Data interchange routes
			protected.GET("/export.jsonl", transferHandler.Export)
			protected.POST("/import.jsonl", transferHandler.Import)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server",
		logger.Duration("timeout", cfg.Server.ShutdownTimeout),
	)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
