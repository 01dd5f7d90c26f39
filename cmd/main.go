package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/matchday-system/config"
	"github.com/Dosada05/matchday-system/db"
	"github.com/Dosada05/matchday-system/handlers"
	"github.com/Dosada05/matchday-system/live"
	"github.com/Dosada05/matchday-system/repositories"
	api "github.com/Dosada05/matchday-system/routes"
	"github.com/Dosada05/matchday-system/services"
	"github.com/Dosada05/matchday-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("WebSocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	fixtureRepo := repositories.NewPostgresFixtureRepository(dbConn)
	lineupRepo := repositories.NewPostgresLineupRepository(dbConn)
	playerStatsRepo := repositories.NewPostgresPlayerStatsRepository(dbConn)
	ptsRepo := repositories.NewPostgresPlayerTournamentStatsRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	leaderboardRepo := repositories.NewPostgresLeaderboardRepository(dbConn)
	eventRepo := repositories.NewPostgresMatchEventRepository(dbConn)
	postRepo := repositories.NewPostgresPostRepository(dbConn)
	logger.Info("repositories initialized")

	engine := services.NewStatsEngine(fixtureRepo, playerStatsRepo, leaderboardRepo, ptsRepo, userRepo, cfg.CountAllPenaltyAttempts)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, uploader)
	teamService := services.NewTeamService(dbConn, teamRepo, userRepo, uploader)
	tournamentService := services.NewTournamentService(
		dbConn,
		tournamentRepo,
		teamRepo,
		fixtureRepo,
		lineupRepo,
		playerStatsRepo,
		ptsRepo,
		standingRepo,
		leaderboardRepo,
		eventRepo,
		postRepo,
		uploader,
	)
	standingService := services.NewStandingService(
		standingRepo,
		fixtureRepo,
		playerStatsRepo,
		ptsRepo,
		leaderboardRepo,
		userRepo,
		teamRepo,
		uploader,
	)
	fixtureService := services.NewFixtureService(
		dbConn,
		engine,
		fixtureRepo,
		tournamentRepo,
		teamRepo,
		eventRepo,
		lineupRepo,
		playerStatsRepo,
		standingService,
		uploader,
		hub,
	)
	lineupService := services.NewLineupService(
		dbConn,
		lineupRepo,
		playerStatsRepo,
		ptsRepo,
		fixtureRepo,
		tournamentRepo,
		userRepo,
		uploader,
	)
	matchEventService := services.NewMatchEventService(
		dbConn,
		engine,
		eventRepo,
		fixtureRepo,
		tournamentRepo,
		playerStatsRepo,
		userRepo,
		hub,
	)
	leaderboardService := services.NewLeaderboardService(leaderboardRepo, userRepo, teamRepo, uploader)
	postService := services.NewPostService(postRepo, tournamentRepo, userRepo, uploader)
	logger.Info("services initialized")

	router := chi.NewRouter()
	api.SetupRoutes(router, cfg.JWTSecretKey, api.Handlers{
		Auth:        handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		User:        handlers.NewUserHandler(userService),
		Team:        handlers.NewTeamHandler(teamService),
		Tournament:  handlers.NewTournamentHandler(tournamentService),
		Fixture:     handlers.NewFixtureHandler(fixtureService, standingService),
		Lineup:      handlers.NewLineupHandler(lineupService),
		MatchEvent:  handlers.NewMatchEventHandler(matchEventService),
		Leaderboard: handlers.NewLeaderboardHandler(leaderboardService),
		Post:        handlers.NewPostHandler(postService),
		WebSocket:   handlers.NewWebSocketHandler(hub),
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
