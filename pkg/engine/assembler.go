package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/doclens/doclens/internal/models"
)

const (
	// minPartialWords is the smallest budget remainder worth filling with a
	// truncated fragment; anything shorter reads as noise.
	minPartialWords = 20

	// summarySentenceLimit is tighter than the ranked-section budget because
	// summary space is scarcer.
	summarySentenceLimit = 3
)

// assemble walks source documents in extraction order and greedily appends
// refined fragment text until maxWords is exhausted. Within a document,
// fragments go page ascending then similarity descending, so the summary
// follows the narrative of the collection instead of jumping by score.
// Assembly is a single pass with early exit.
func (e *Engine) assemble(ctx context.Context, cands []candidate, intentVec []float32, maxWords int) (models.Summary, error) {
	var sources []string
	groups := make(map[string][]candidate)
	for _, c := range cands {
		if _, seen := groups[c.frag.SourceID]; !seen {
			sources = append(sources, c.frag.SourceID)
		}
		groups[c.frag.SourceID] = append(groups[c.frag.SourceID], c)
	}
	for _, id := range sources {
		sortByPage(groups[id])
	}

	var parts []string
	words := 0

assembly:
	for _, id := range sources {
		for _, c := range groups[id] {
			if words >= maxWords {
				break assembly
			}

			text, err := e.condense(ctx, c.frag.Text, intentVec)
			if err != nil {
				return models.Summary{}, err
			}
			fields := strings.Fields(text)
			if len(fields) == 0 {
				continue
			}

			switch remaining := maxWords - words; {
			case len(fields) <= remaining:
				parts = append(parts, text)
				words += len(fields)
			case remaining >= minPartialWords:
				// Word-boundary prefix that exactly fills the budget.
				parts = append(parts, strings.Join(fields[:remaining], " "))
				words = maxWords
				break assembly
			default:
				break assembly
			}
		}
	}

	out := strings.Join(parts, " ")
	truncated := words >= maxWords && len(parts) > 1
	if truncated {
		out = strings.TrimRight(out, " ") + truncationMarker
	}
	return models.Summary{Text: out, WordCount: words, Truncated: truncated}, nil
}

// condense applies sentence refinement with the summary's tighter bound.
// Each visited fragment's sentences go to the embedder as one batch.
func (e *Engine) condense(ctx context.Context, text string, intentVec []float32) (string, error) {
	sentences := e.splitter.Split(text)
	if len(sentences) <= 1 {
		return strings.TrimSpace(text), nil
	}

	count := summarySentenceLimit
	if count > len(sentences) {
		count = len(sentences)
	}
	scores, err := e.scoreTexts(ctx, sentences, intentVec)
	if err != nil {
		return "", err
	}
	refined, _ := refineFragment(text, sentences, scores, count)
	return refined, nil
}

func sortByPage(cands []candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].frag.Page != cands[j].frag.Page {
			return cands[i].frag.Page < cands[j].frag.Page
		}
		if cands[i].sim != cands[j].sim {
			return cands[i].sim > cands[j].sim
		}
		return cands[i].idx < cands[j].idx
	})
}
