package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "CAMPUSVIBE"

type Config struct {
	Port          int           `yaml:"port" split_words:"true"`
	DatabaseURL   string        `yaml:"databaseURL" envconfig:"DATABASE_URL"`
	JWTSecret     string        `yaml:"jwtSecret" envconfig:"JWT_SECRET"`
	JWTExpiration time.Duration `yaml:"jwtExpiration" envconfig:"JWT_EXPIRATION"`
	LogLevel      string        `yaml:"logLevel" split_words:"true"`

	AI  AIConfig  `yaml:"ai"`
	RAG RAGConfig `yaml:"rag"`
}

type AIConfig struct {
	Provider        string        `yaml:"provider"`
	APIKey          string        `yaml:"apiKey" envconfig:"API_KEY"`
	EmbedModel      string        `yaml:"embedModel" split_words:"true"`
	CompletionModel string        `yaml:"completionModel" split_words:"true"`
	Dim             int           `yaml:"dim"`
	Timeout         time.Duration `yaml:"timeout"`
}

type RAGConfig struct {
	DataDir      string `yaml:"dataDir" split_words:"true"`
	StorageDir   string `yaml:"storageDir" split_words:"true"`
	ChunkSize    int    `yaml:"chunkSize" split_words:"true"`
	ChunkOverlap int    `yaml:"chunkOverlap" split_words:"true"`
	TopK         int    `yaml:"topK" envconfig:"TOP_K"`
}

// Load resolves configuration as defaults < YAML file < environment.
// configPath may be ""; then CAMPUSVIBE_CONFIG or ./campusvibe.yaml is tried.
func Load(configPath string) (*Config, error) {
	godotenv.Load()

	cfg := defaults()

	path := configPath
	if path == "" {
		if v := os.Getenv(envPrefix + "_CONFIG"); v != "" {
			path = v
		} else if fileExists("campusvibe.yaml") {
			path = "campusvibe.yaml"
		}
	}
	if path != "" {
		if !fileExists(path) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("load yaml %s: %w", path, err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("env override: %w", err)
	}

	if cfg.RAG.ChunkOverlap < 0 || cfg.RAG.ChunkOverlap >= cfg.RAG.ChunkSize {
		return nil, fmt.Errorf("chunk overlap must satisfy 0 <= overlap < size, got size=%d overlap=%d",
			cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:          8080,
		JWTExpiration: 168 * time.Hour,
		LogLevel:      "info",
		AI: AIConfig{
			Provider:        "huggingface",
			EmbedModel:      "sentence-transformers/all-MiniLM-L6-v2",
			CompletionModel: "HuggingFaceH4/zephyr-7b-beta",
			Dim:             384,
			Timeout:         60 * time.Second,
		},
		RAG: RAGConfig{
			DataDir:      "./notes_data",
			StorageDir:   "./storage",
			ChunkSize:    256,
			ChunkOverlap: 20,
			TopK:         2,
		},
	}
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}
