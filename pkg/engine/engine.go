// Package engine ranks document fragments by semantic relevance to an
// intent, selects a diverse top set across source documents, refines
// fragments to their most relevant sentences, and assembles a word-budgeted
// cohesive summary. All operations are deterministic for identical inputs
// and recover locally from empty input and degenerate vectors; only
// embedding-backend failures propagate.
package engine

import (
	"context"
	"fmt"

	"github.com/doclens/doclens/internal/models"
	"github.com/doclens/doclens/internal/types"
)

type Engine struct {
	embedder types.Embedder
	splitter types.Splitter
}

func New(embedder types.Embedder, splitter types.Splitter) *Engine {
	return &Engine{embedder: embedder, splitter: splitter}
}

// candidate is a scored fragment tagged with its extraction position, the
// final tie-breaker for every ordering decision.
type candidate struct {
	frag models.Fragment
	sim  float64
	idx  int
}

// Score computes the cosine similarity of every fragment against the intent.
// Fragment embeddings are computed in one batched call and assigned in
// place, so repeated calls over the same slice embed each fragment once.
func (e *Engine) Score(ctx context.Context, fragments []models.Fragment, intent models.Intent) ([]models.ScoredFragment, error) {
	if len(fragments) == 0 {
		return nil, nil
	}

	intentVec, err := e.embedIntent(ctx, intent)
	if err != nil {
		return nil, err
	}
	if err := e.ensureEmbeddings(ctx, fragments); err != nil {
		return nil, err
	}

	scored := make([]models.ScoredFragment, len(fragments))
	for i, f := range fragments {
		scored[i] = models.ScoredFragment{Fragment: f, Similarity: cosine(f.Embedding, intentVec)}
	}
	return scored, nil
}

// RankAndRefine selects up to k fragments under the diversity policy and
// reduces each to its most relevant sentences. Entries come back in
// selection order with 1-based ranks. Empty input or k <= 0 yields an empty
// selection.
func (e *Engine) RankAndRefine(ctx context.Context, fragments []models.Fragment, intent models.Intent, k int) ([]models.RefinedSection, error) {
	if len(fragments) == 0 || k <= 0 {
		return nil, nil
	}

	intentVec, cands, err := e.scoreCandidates(ctx, fragments, intent)
	if err != nil {
		return nil, err
	}
	selected := selectDiverse(cands, k)

	// One batched embed call covers every sentence of every selected
	// fragment.
	sentences := make([][]string, len(selected))
	var flat []string
	for i, c := range selected {
		sentences[i] = e.splitter.Split(c.frag.Text)
		flat = append(flat, sentences[i]...)
	}
	scores, err := e.scoreTexts(ctx, flat, intentVec)
	if err != nil {
		return nil, err
	}

	sections := make([]models.RefinedSection, 0, len(selected))
	offset := 0
	for i, c := range selected {
		sentScores := scores[offset : offset+len(sentences[i])]
		offset += len(sentences[i])

		text, relevance := refineFragment(c.frag.Text, sentences[i], sentScores, rankedSentenceCount(len(sentences[i])))
		if len(sentences[i]) == 0 {
			relevance = c.sim
		}

		sections = append(sections, models.RefinedSection{
			SourceID:    c.frag.SourceID,
			Page:        c.frag.Page,
			Rank:        i + 1,
			Title:       deriveTitle(c.frag.Text),
			RefinedText: text,
			Similarity:  c.sim,
			Relevance:   relevance,
		})
	}
	return sections, nil
}

// AssembleSummary builds one cohesive string of at most maxWords words,
// visiting documents in extraction order. Empty input yields the zero-value
// sentinel.
func (e *Engine) AssembleSummary(ctx context.Context, fragments []models.Fragment, intent models.Intent, maxWords int) (models.Summary, error) {
	if len(fragments) == 0 || maxWords <= 0 {
		return models.Summary{}, nil
	}

	intentVec, cands, err := e.scoreCandidates(ctx, fragments, intent)
	if err != nil {
		return models.Summary{}, err
	}
	return e.assemble(ctx, cands, intentVec, maxWords)
}

func (e *Engine) scoreCandidates(ctx context.Context, fragments []models.Fragment, intent models.Intent) ([]float32, []candidate, error) {
	intentVec, err := e.embedIntent(ctx, intent)
	if err != nil {
		return nil, nil, err
	}
	if err := e.ensureEmbeddings(ctx, fragments); err != nil {
		return nil, nil, err
	}

	cands := make([]candidate, len(fragments))
	for i, f := range fragments {
		cands[i] = candidate{frag: f, sim: cosine(f.Embedding, intentVec), idx: i}
	}
	return intentVec, cands, nil
}

func (e *Engine) embedIntent(ctx context.Context, intent models.Intent) ([]float32, error) {
	vecs, err := e.embedder.EmbedBatch(ctx, []string{intent.Query()})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for the intent query", len(vecs))
	}
	return vecs[0], nil
}

// ensureEmbeddings fills in missing fragment embeddings with one batched
// call. Fragments that already carry an embedding keep it untouched.
func (e *Engine) ensureEmbeddings(ctx context.Context, fragments []models.Fragment) error {
	var texts []string
	var missing []int
	for i := range fragments {
		if fragments[i].Embedding == nil {
			texts = append(texts, fragments[i].Text)
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	vecs, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	if len(vecs) != len(missing) {
		return fmt.Errorf("embedder returned %d vectors for %d fragments", len(vecs), len(missing))
	}
	for j, i := range missing {
		fragments[i].Embedding = vecs[j]
	}
	return nil
}

// scoreTexts embeds texts in one batch and scores each against the intent.
func (e *Engine) scoreTexts(ctx context.Context, texts []string, intentVec []float32) ([]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(texts))
	}
	scores := make([]float64, len(vecs))
	for i, v := range vecs {
		scores[i] = cosine(v, intentVec)
	}
	return scores, nil
}
