package main

import (
	"context"
	"fmt"
	"os"

	"campusvibe/internal/adapter/ai"
	"campusvibe/internal/adapter/repository/postgres"
	"campusvibe/internal/delivery/http/handler"
	"campusvibe/internal/delivery/http/middleware"
	"campusvibe/internal/usecase/auth"
	"campusvibe/internal/usecase/chat"
	"campusvibe/internal/usecase/notes"
	"campusvibe/pkg/config"
	"campusvibe/pkg/database"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	// connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	log.Info().Msg("connected to database")

	// AI clients: the embedder must match the one the index was built with
	aiCfg := &ai.Config{
		Provider:        ai.Provider(cfg.AI.Provider),
		APIKey:          cfg.AI.APIKey,
		EmbedModel:      cfg.AI.EmbedModel,
		CompletionModel: cfg.AI.CompletionModel,
		Dim:             cfg.AI.Dim,
		Timeout:         cfg.AI.Timeout,
	}
	embedder, err := ai.NewEmbedder(aiCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build embedding client")
	}
	completer, err := ai.NewCompleter(aiCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build completion client")
	}

	engine, err := chat.NewEngine(cfg.RAG.StorageDir, embedder, completer, cfg.RAG.TopK, cfg.AI.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("chat engine misconfigured")
	}
	if !engine.Available() {
		log.Warn().Msg("note index not loaded; chat will answer as unavailable")
	}

	// initialize repositories and usecases
	userRepo := postgres.NewUserRepository(db)
	noteRepo := postgres.NewNoteRepository(db)

	authUsecase := auth.NewAuthUsecase(userRepo, cfg.JWTSecret, cfg.JWTExpiration)
	notesUsecase := notes.NewNotesUsecase(noteRepo)

	authHandler := handler.NewAuthHandler(authUsecase)
	noteHandler := handler.NewNoteHandler(notesUsecase)
	chatHandler := handler.NewChatHandler(engine)

	app := fiber.New()
	app.Use(fiberlogger.New())

	// Public routes
	api := app.Group("/api")
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/notes/trending", noteHandler.Trending)

	// Protected routes
	protected := api.Group("", middleware.JWTAuth(cfg.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	protected.Get("/notes", noteHandler.List)
	protected.Get("/notes/:id", noteHandler.GetByID)
	protected.Post("/notes/:id/download", noteHandler.Download)
	protected.Post("/notes/:id/feedback", noteHandler.Feedback)

	protected.Post("/chat", chatHandler.Ask)

	log.Info().Int("port", cfg.Port).Msg("server starting")
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
