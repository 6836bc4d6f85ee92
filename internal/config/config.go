// Package config loads service configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the service. Retrieval knobs (TopK,
// MinScore) are configuration rather than hard-coded constants.
type Config struct {
	ServerAddr string `yaml:"server_addr"`

	// OpenAI-compatible endpoint (hosted OpenAI, LM Studio, Ollama).
	LLMBaseURL string `yaml:"llm_base_url"`
	APIKey     string `yaml:"api_key"`
	ChatModel  string `yaml:"chat_model"`
	EmbedModel string `yaml:"embed_model"`

	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`

	TopK     int     `yaml:"top_k"`
	MinScore float64 `yaml:"min_score"`

	ChallengeCount  int `yaml:"challenge_count"`
	SummaryMaxWords int `yaml:"summary_max_words"`

	RateRPS   float64 `yaml:"rate_rps"`
	RateBurst int     `yaml:"rate_burst"`
}

// Load builds the config from defaults, an optional YAML file named by
// CONFIG_PATH, and finally environment variable overrides.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerAddr:      ":8080",
		LLMBaseURL:      "http://localhost:1234/v1",
		APIKey:          "not-needed",
		ChatModel:       "google/gemma-3n-e4b",
		EmbedModel:      "text-embedding-nomic-embed-text-v1.5",
		ChunkSize:       220,
		ChunkOverlap:    40,
		TopK:            5,
		MinScore:        0.35,
		ChallengeCount:  3,
		SummaryMaxWords: 150,
		RateRPS:         4,
		RateBurst:       8,
	}
}

func applyEnv(cfg *Config) {
	cfg.ServerAddr = getenv("SERVER_ADDR", cfg.ServerAddr)
	cfg.LLMBaseURL = getenv("LLM_BASE_URL", cfg.LLMBaseURL)
	cfg.APIKey = getenv("OPENAI_API_KEY", cfg.APIKey)
	cfg.ChatModel = getenv("LLM_MODEL", cfg.ChatModel)
	cfg.EmbedModel = getenv("EMBED_MODEL", cfg.EmbedModel)
	cfg.ChunkSize = getenvInt("CHUNK_SIZE", cfg.ChunkSize)
	cfg.ChunkOverlap = getenvInt("CHUNK_OVERLAP", cfg.ChunkOverlap)
	cfg.TopK = getenvInt("TOP_K", cfg.TopK)
	cfg.MinScore = getenvFloat("MIN_SCORE", cfg.MinScore)
	cfg.ChallengeCount = getenvInt("CHALLENGE_COUNT", cfg.ChallengeCount)
	cfg.SummaryMaxWords = getenvInt("SUMMARY_MAX_WORDS", cfg.SummaryMaxWords)
	cfg.RateRPS = getenvFloat("RATE_RPS", cfg.RateRPS)
	cfg.RateBurst = getenvInt("RATE_BURST", cfg.RateBurst)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
