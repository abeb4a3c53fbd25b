package types

import (
	"context"

	"github.com/doclens/doclens/internal/models"
)

// Core interfaces

// Embedder converts text into fixed-length vectors. Implementations must be
// batch-capable: embedding N texts is one call, not N.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelName() string
}

// Splitter detects sentence boundaries in a fragment of text.
type Splitter interface {
	Split(text string) []string
}

// Extractor produces ordered fragments from a document collection.
// Implementations pre-trim text and drop fragments below the minimum length,
// so an empty result is a valid state rather than an error.
type Extractor interface {
	Extract(ctx context.Context, dir string) ([]models.Fragment, error)
}
