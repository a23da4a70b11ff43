package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory; index artifacts live under Data/index
	Data string
	// DSN points to where careerlens stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// Secret signs access tokens
	Secret string

	// AI Configuration
	AIEnabled         bool   // CAREERLENS_AI_ENABLED
	AIProvider        string // CAREERLENS_AI_PROVIDER (default: openai)
	AIAPIKey          string // CAREERLENS_AI_API_KEY
	AIBaseURL         string // CAREERLENS_AI_BASE_URL (default: https://api.openai.com/v1)
	AIEmbeddingModel  string // CAREERLENS_AI_EMBEDDING_MODEL (default: text-embedding-3-small)
	AIEmbeddingDim    int    // CAREERLENS_AI_EMBEDDING_DIM (default: 1536)
	AIGenerationModel string // CAREERLENS_AI_GENERATION_MODEL (default: gpt-4o-mini)

	// RAG Configuration
	ChunkMaxChars     int // CAREERLENS_RAG_CHUNK_MAX_CHARS (default: 1200)
	ChunkOverlapChars int // CAREERLENS_RAG_CHUNK_OVERLAP_CHARS (default: 200)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and an API key or base URL is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && (p.AIAPIKey != "" || p.AIBaseURL != "")
}

// IndexDir returns the directory holding persisted vector index artifacts.
func (p *Profile) IndexDir() string {
	return filepath.Join(p.Data, "index")
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable parsed as an int, or the default
// value when unset or unparseable.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// FromEnv loads AI and RAG configuration from CAREERLENS_* environment variables.
func (p *Profile) FromEnv() {
	p.AIEnabled = os.Getenv("CAREERLENS_AI_ENABLED") == "true"
	p.AIProvider = getEnvOrDefault("CAREERLENS_AI_PROVIDER", "openai")
	p.AIAPIKey = os.Getenv("CAREERLENS_AI_API_KEY")
	p.AIBaseURL = getEnvOrDefault("CAREERLENS_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIEmbeddingModel = getEnvOrDefault("CAREERLENS_AI_EMBEDDING_MODEL", "text-embedding-3-small")
	p.AIGenerationModel = getEnvOrDefault("CAREERLENS_AI_GENERATION_MODEL", "gpt-4o-mini")

	if p.AIEmbeddingDim == 0 {
		p.AIEmbeddingDim = getEnvInt("CAREERLENS_AI_EMBEDDING_DIM", 1536)
	}
	if p.ChunkMaxChars == 0 {
		p.ChunkMaxChars = getEnvInt("CAREERLENS_RAG_CHUNK_MAX_CHARS", 1200)
	}
	if p.ChunkOverlapChars == 0 {
		p.ChunkOverlapChars = getEnvInt("CAREERLENS_RAG_CHUNK_OVERLAP_CHARS", 200)
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "careerlens")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/careerlens"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("careerlens_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if err := os.MkdirAll(p.IndexDir(), 0770); err != nil {
		return errors.Wrap(err, "failed to create index directory")
	}

	if p.ChunkOverlapChars >= p.ChunkMaxChars {
		return errors.Errorf("chunk overlap %d must be smaller than chunk size %d", p.ChunkOverlapChars, p.ChunkMaxChars)
	}

	return nil
}
