package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclens/doclens/internal/models"
)

func cand(source string, page int, sim float64, idx int) candidate {
	return candidate{
		frag: models.Fragment{Text: "text", SourceID: source, Page: page},
		sim:  sim,
		idx:  idx,
	}
}

func TestSelectDiverseEmpty(t *testing.T) {
	assert.Nil(t, selectDiverse(nil, 5))
	assert.Nil(t, selectDiverse([]candidate{cand("a", 1, 0.5, 0)}, 0))
}

func TestSelectDiversePassOneCoverage(t *testing.T) {
	cands := []candidate{
		cand("a", 1, 0.9, 0),
		cand("a", 2, 0.8, 1),
		cand("b", 1, 0.85, 2),
	}

	selected := selectDiverse(cands, 2)
	require.Len(t, selected, 2)
	assert.Equal(t, "a", selected[0].frag.SourceID)
	assert.Equal(t, 0.9, selected[0].sim)
	assert.Equal(t, "b", selected[1].frag.SourceID)
	assert.Equal(t, 0.85, selected[1].sim)
}

func TestSelectDiversePassTwoFillsBySimilarity(t *testing.T) {
	cands := []candidate{
		cand("a", 1, 0.9, 0),
		cand("a", 2, 0.8, 1),
		cand("b", 1, 0.3, 2),
		cand("b", 2, 0.7, 3),
	}

	selected := selectDiverse(cands, 3)
	require.Len(t, selected, 3)

	// Pass 1: best of a, best of b. Pass 2: a's second beats b's second.
	assert.Equal(t, 0.9, selected[0].sim)
	assert.Equal(t, 0.7, selected[1].sim)
	assert.Equal(t, 0.8, selected[2].sim)
	assert.Equal(t, "a", selected[2].frag.SourceID)
}

func TestSelectDiverseTieBreaks(t *testing.T) {
	// Equal similarity within one document: lower page wins, then
	// extraction order.
	cands := []candidate{
		cand("a", 2, 0.8, 0),
		cand("a", 1, 0.8, 1),
		cand("a", 1, 0.8, 2),
	}

	selected := selectDiverse(cands, 3)
	require.Len(t, selected, 3)
	assert.Equal(t, 1, selected[0].idx)
	assert.Equal(t, 2, selected[1].idx)
	assert.Equal(t, 0, selected[2].idx)
}

func TestSelectDiverseKExceedsPool(t *testing.T) {
	cands := []candidate{
		cand("a", 1, 0.2, 0),
		cand("b", 1, 0.9, 1),
	}

	selected := selectDiverse(cands, 10)
	require.Len(t, selected, 2)
	// Pass 1 order is extraction order of sources, not score order.
	assert.Equal(t, "a", selected[0].frag.SourceID)
	assert.Equal(t, "b", selected[1].frag.SourceID)
}

func TestSelectDiverseNoDuplicates(t *testing.T) {
	cands := []candidate{
		cand("a", 1, 0.9, 0),
		cand("b", 1, 0.8, 1),
		cand("c", 1, 0.7, 2),
	}

	selected := selectDiverse(cands, 3)
	require.Len(t, selected, 3)
	seen := make(map[int]bool)
	for _, c := range selected {
		assert.False(t, seen[c.idx], "fragment selected twice")
		seen[c.idx] = true
	}
}
