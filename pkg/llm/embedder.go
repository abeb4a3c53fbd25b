package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms/ollama"
	"golang.org/x/time/rate"
)

// ErrModelUnavailable marks a fatal embedding-backend failure. Callers must
// surface it rather than substitute partial results.
var ErrModelUnavailable = errors.New("embedding model unavailable")

type EmbedderConfig struct {
	Model      string
	BaseURL    string // Ollama server URL
	VectorDim  int
	BatchSize  int
	RateLimit  float64         // embed requests per second, 0 = unlimited
	OnProgress func(texts int) // called after each embedded batch
}

// Embedder generates embeddings through a local Ollama server. The
// underlying model handle is expensive, so it is initialized once on first
// use and shared read-only across runs.
type Embedder struct {
	config  EmbedderConfig
	once    sync.Once
	initErr error
	llm     *ollama.LLM
	limiter *rate.Limiter
}

func NewWithConfig(config EmbedderConfig) *Embedder {
	if config.Model == "" {
		config.Model = "nomic-embed-text:latest"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768
	}
	if config.BatchSize == 0 {
		config.BatchSize = 32
	}

	e := &Embedder{config: config}
	if config.RateLimit > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}
	return e
}

func (e *Embedder) init() error {
	e.once.Do(func() {
		llm, err := ollama.New(
			ollama.WithModel(e.config.Model),
			ollama.WithServerURL(e.config.BaseURL),
		)
		if err != nil {
			e.initErr = fmt.Errorf("%w: %v", ErrModelUnavailable, err)
			return
		}
		e.llm = llm
	})
	return e.initErr
}

// EmbedBatch embeds all texts, splitting the request into configured batch
// sizes. An empty input returns nil without touching the backend.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := e.init(); err != nil {
		return nil, err
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.config.BatchSize {
		end := start + e.config.BatchSize
		if end > len(texts) {
			end = len(texts)
		}

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		embeddings, err := e.llm.CreateEmbedding(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}
		if len(embeddings) != end-start {
			return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
				ErrModelUnavailable, len(embeddings), end-start)
		}
		out = append(out, embeddings...)

		if e.config.OnProgress != nil {
			e.config.OnProgress(end - start)
		}
	}
	return out, nil
}

func (e *Embedder) Dimensions() int {
	return e.config.VectorDim
}

func (e *Embedder) ModelName() string {
	return e.config.Model
}
