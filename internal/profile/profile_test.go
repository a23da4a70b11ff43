package profile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaultsMode(t *testing.T) {
	p := &Profile{
		Mode:   "bogus",
		Data:   t.TempDir(),
		Driver: "sqlite",
	}
	p.FromEnv()
	require.NoError(t, p.Validate())
	require.Equal(t, "demo", p.Mode)
	require.NotEmpty(t, p.DSN, "sqlite DSN should default to a file under the data dir")
}

func TestValidateRejectsOversizedOverlap(t *testing.T) {
	p := &Profile{
		Mode:              "dev",
		Data:              t.TempDir(),
		Driver:            "sqlite",
		ChunkMaxChars:     100,
		ChunkOverlapChars: 100,
	}
	require.Error(t, p.Validate())
}

func TestFromEnvDefaults(t *testing.T) {
	p := &Profile{}
	p.FromEnv()
	require.Equal(t, "openai", p.AIProvider)
	require.Equal(t, "text-embedding-3-small", p.AIEmbeddingModel)
	require.Equal(t, 1536, p.AIEmbeddingDim)
	require.Equal(t, 1200, p.ChunkMaxChars)
	require.Equal(t, 200, p.ChunkOverlapChars)
}

func TestFromEnvReadsChunkConfig(t *testing.T) {
	t.Setenv("CAREERLENS_RAG_CHUNK_MAX_CHARS", "800")
	t.Setenv("CAREERLENS_RAG_CHUNK_OVERLAP_CHARS", "120")
	t.Setenv("CAREERLENS_AI_EMBEDDING_DIM", "768")

	p := &Profile{}
	p.FromEnv()
	require.Equal(t, 800, p.ChunkMaxChars)
	require.Equal(t, 120, p.ChunkOverlapChars)
	require.Equal(t, 768, p.AIEmbeddingDim)

	// Explicit values win over the environment.
	p = &Profile{ChunkMaxChars: 500}
	p.FromEnv()
	require.Equal(t, 500, p.ChunkMaxChars)
}

func TestIsAIEnabled(t *testing.T) {
	p := &Profile{AIEnabled: true}
	require.False(t, p.IsAIEnabled())

	p.AIAPIKey = "key"
	require.True(t, p.IsAIEnabled())
}
