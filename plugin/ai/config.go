package ai

import (
	"errors"

	"github.com/careerlens/careerlens/internal/profile"
)

// Config represents AI configuration.
type Config struct {
	Enabled bool

	Embedding  EmbeddingConfig
	Generation GenerationConfig
}

// EmbeddingConfig represents vector embedding configuration.
type EmbeddingConfig struct {
	Provider   string // openai or any OpenAI-compatible endpoint
	Model      string // text-embedding-3-small
	Dimensions int    // 1536
	APIKey     string
	BaseURL    string
}

// GenerationConfig represents text generation configuration.
type GenerationConfig struct {
	Provider    string
	Model       string // gpt-4o-mini
	APIKey      string
	BaseURL     string
	MaxTokens   int     // default: 2048
	Temperature float32 // default: 0.7
}

// NewConfigFromProfile creates AI config from profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := &Config{
		Enabled: p.AIEnabled,
	}

	if !cfg.Enabled {
		return cfg
	}

	cfg.Embedding = EmbeddingConfig{
		Provider:   p.AIProvider,
		Model:      p.AIEmbeddingModel,
		Dimensions: p.AIEmbeddingDim,
		APIKey:     p.AIAPIKey,
		BaseURL:    p.AIBaseURL,
	}

	cfg.Generation = GenerationConfig{
		Provider:    p.AIProvider,
		Model:       p.AIGenerationModel,
		APIKey:      p.AIAPIKey,
		BaseURL:     p.AIBaseURL,
		MaxTokens:   2048,
		Temperature: 0.7,
	}

	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Embedding.Provider == "" {
		return errors.New("embedding provider is required")
	}

	if c.Embedding.APIKey == "" {
		return errors.New("embedding API key is required")
	}

	if c.Embedding.Dimensions <= 0 {
		return errors.New("embedding dimensions must be positive")
	}

	if c.Generation.Provider == "" {
		return errors.New("generation provider is required")
	}

	return nil
}
