package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithConfigDefaults(t *testing.T) {
	e := NewWithConfig(EmbedderConfig{})

	assert.Equal(t, "nomic-embed-text:latest", e.ModelName())
	assert.Equal(t, 768, e.Dimensions())
	assert.Equal(t, "http://localhost:11434", e.config.BaseURL)
	assert.Equal(t, 32, e.config.BatchSize)
	assert.Nil(t, e.limiter)
}

func TestNewWithConfigOverrides(t *testing.T) {
	e := NewWithConfig(EmbedderConfig{
		Model:     "mxbai-embed-large",
		VectorDim: 1024,
		RateLimit: 5,
	})

	assert.Equal(t, "mxbai-embed-large", e.ModelName())
	assert.Equal(t, 1024, e.Dimensions())
	assert.NotNil(t, e.limiter)
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	// No texts means no backend traffic, so this works without a server.
	e := NewWithConfig(EmbedderConfig{BaseURL: "http://127.0.0.1:1"})

	out, err := e.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestEmbedBatchBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewWithConfig(EmbedderConfig{BaseURL: srv.URL})

	_, err := e.EmbedBatch(context.Background(), []string{"some text"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelUnavailable))
}
