package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/circle360/api/internal/config"
	"github.com/circle360/api/internal/database"
	"github.com/circle360/api/internal/handler"
	"github.com/circle360/api/internal/middleware"
	"github.com/circle360/api/internal/repository"
	"github.com/circle360/api/internal/service"
	"github.com/circle360/api/pkg/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	logging.Setup(cfg.Server.Env)

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo)
	groupService := service.NewGroupService(groupRepo)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	userHandler := handler.NewUserHandler(userService)
	groupHandler := handler.NewGroupHandler(groupService)

	// Set up routing
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", healthHandler.Root)
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// User endpoints
	mux.HandleFunc("GET /user/all/{limit}", userHandler.ListUsers)
	mux.HandleFunc("GET /user/many", userHandler.GetManyUsers)
	mux.HandleFunc("GET /user", userHandler.GetUser)
	mux.HandleFunc("POST /user", userHandler.CreateUser)
	mux.HandleFunc("PUT /user", userHandler.UpdateUser)
	mux.HandleFunc("DELETE /user", userHandler.DeleteUser)
	mux.HandleFunc("PUT /user/upsert", userHandler.UpsertUser)

	// User-side membership mirror endpoints
	mux.HandleFunc("GET /user/group/all", userHandler.GetMyGroups)
	mux.HandleFunc("GET /user/group/{groupID}", userHandler.GetGroupRef)
	mux.HandleFunc("POST /user/group/{groupID}", userHandler.AddGroupRef)
	mux.HandleFunc("PUT /user/group/{groupID}", userHandler.UpdateGroupRef)
	mux.HandleFunc("DELETE /user/group/{groupID}", userHandler.RemoveGroupRef)

	// Group endpoints
	mux.HandleFunc("GET /group/all/{limit}", groupHandler.ListGroups)
	mux.HandleFunc("POST /group", groupHandler.CreateGroup)
	mux.HandleFunc("GET /group/{groupCode}", groupHandler.GetGroup)
	mux.HandleFunc("PUT /group/{groupCode}", groupHandler.UpdateGroup)
	mux.HandleFunc("DELETE /group/{groupCode}", groupHandler.DeleteGroup)

	// Group roster endpoints
	mux.HandleFunc("POST /group/user/{groupCode}", groupHandler.AddMember)
	mux.HandleFunc("PUT /group/user/{groupCode}", groupHandler.ResolveMember)
	mux.HandleFunc("DELETE /group/user/{groupCode}", groupHandler.RemoveMember)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Metrics,
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
