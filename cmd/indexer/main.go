package main

import (
	"context"
	"errors"
	"os"

	"campusvibe/internal/adapter/ai"
	"campusvibe/internal/usecase/ingest"
	"campusvibe/pkg/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	fs := pflag.NewFlagSet("campusvibe-indexer", pflag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config file")
	dataDir := fs.String("data-dir", "", "directory of source documents (overrides config)")
	storageDir := fs.String("storage-dir", "", "directory to persist the index to (overrides config)")
	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("failed to parse flags")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *dataDir != "" {
		cfg.RAG.DataDir = *dataDir
	}
	if *storageDir != "" {
		cfg.RAG.StorageDir = *storageDir
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	embedder, err := ai.NewEmbedder(&ai.Config{
		Provider:   ai.Provider(cfg.AI.Provider),
		APIKey:     cfg.AI.APIKey,
		EmbedModel: cfg.AI.EmbedModel,
		Dim:        cfg.AI.Dim,
		Timeout:    cfg.AI.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build embedding client")
	}

	chunker, err := ingest.NewChunker(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid chunking configuration")
	}

	pipeline := ingest.NewPipeline(cfg.RAG.DataDir, cfg.RAG.StorageDir, chunker, embedder)

	log.Info().
		Str("data", cfg.RAG.DataDir).
		Str("storage", cfg.RAG.StorageDir).
		Str("model", cfg.AI.EmbedModel).
		Msg("building index")

	if err := pipeline.Run(context.Background()); err != nil {
		if errors.Is(err, ingest.ErrNoData) {
			log.Fatal().Err(err).Msg("nothing to index; existing storage left untouched")
		}
		log.Fatal().Err(err).Msg("ingestion failed")
	}
	log.Info().Msg("index built successfully")
}
