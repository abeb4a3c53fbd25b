package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
llm:
  base_url: http://ollama.internal:11434
  model: mxbai-embed-large
  vector_dim: 1024
  batch_size: 16
  rate_limit: 2.5

extractor:
  min_fragment_chars: 80

engine:
  top_k: 10
  max_words: 300

database:
  url: postgres://localhost:5432/doclens
  table_name: runs

server:
  addr: ":9090"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://ollama.internal:11434", cfg.LLM.BaseURL)
	assert.Equal(t, "mxbai-embed-large", cfg.LLM.Model)
	assert.Equal(t, 1024, cfg.LLM.VectorDim)
	assert.Equal(t, 16, cfg.LLM.BatchSize)
	assert.Equal(t, 2.5, cfg.LLM.RateLimit)
	assert.Equal(t, 80, cfg.Extractor.MinFragmentChars)
	assert.Equal(t, 10, cfg.Engine.TopK)
	assert.Equal(t, 300, cfg.Engine.MaxWords)
	assert.Equal(t, "postgres://localhost:5432/doclens", cfg.Database.URL)
	assert.Equal(t, "runs", cfg.Database.TableName)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434", cfg.LLM.BaseURL)
	assert.Equal(t, "nomic-embed-text:latest", cfg.LLM.Model)
	assert.Equal(t, 768, cfg.LLM.VectorDim)
	assert.Equal(t, 32, cfg.LLM.BatchSize)
	assert.Equal(t, 50, cfg.Extractor.MinFragmentChars)
	assert.Equal(t, "pdftotext", cfg.Extractor.PDFTextCommand)
	assert.Equal(t, 5, cfg.Engine.TopK)
	assert.Equal(t, 500, cfg.Engine.MaxWords)
	assert.Equal(t, "fragment_runs", cfg.Database.TableName)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")
	t.Setenv("DATABASE_URL", "postgres://env-host:5432/doclens")

	path := writeConfigFile(t, `
llm:
  base_url: http://file-host:11434
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://gpu-box:11434", cfg.LLM.BaseURL)
	assert.Equal(t, "postgres://env-host:5432/doclens", cfg.Database.URL)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "llm: [not: valid")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidateDefaultsPass(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Empty(t, cfg.Validate())
}

func TestValidateCatchesBadValues(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.LLM.VectorDim = 0
	cfg.LLM.RateLimit = -1
	cfg.Engine.MaxWords = 0

	errs := cfg.Validate()
	require.Len(t, errs, 3)

	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	assert.Contains(t, fields, "llm.vector_dim")
	assert.Contains(t, fields, "llm.rate_limit")
	assert.Contains(t, fields, "engine.max_words")
}
