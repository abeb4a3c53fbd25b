package engine

import "sort"

// selectDiverse picks up to k fragments in two passes. Pass 1 walks source
// documents in the order they were first extracted and takes the best
// fragment of each, so no document gets a second entry before every
// document has one. Pass 2 fills any remaining slots by global descending
// similarity. A naive global top-k can collapse onto a single document when
// its content dominates the intent; pass 1 prevents that starvation.
//
// Ordering within a document and across the pass-2 pool is similarity
// descending, then page ascending, then extraction order.
func selectDiverse(cands []candidate, k int) []candidate {
	if len(cands) == 0 || k <= 0 {
		return nil
	}

	var sources []string
	groups := make(map[string][]candidate)
	for _, c := range cands {
		if _, seen := groups[c.frag.SourceID]; !seen {
			sources = append(sources, c.frag.SourceID)
		}
		groups[c.frag.SourceID] = append(groups[c.frag.SourceID], c)
	}
	for _, id := range sources {
		sortByRelevance(groups[id])
	}

	selected := make([]candidate, 0, k)
	taken := make(map[int]bool, k)

	// Pass 1: coverage.
	for _, id := range sources {
		if len(selected) == k {
			break
		}
		best := groups[id][0]
		selected = append(selected, best)
		taken[best.idx] = true
	}

	// Pass 2: fill by global similarity, second picks allowed.
	if len(selected) < k {
		var pool []candidate
		for _, c := range cands {
			if !taken[c.idx] {
				pool = append(pool, c)
			}
		}
		sortByRelevance(pool)
		for _, c := range pool {
			if len(selected) == k {
				break
			}
			selected = append(selected, c)
		}
	}

	return selected
}

func sortByRelevance(cands []candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].sim != cands[j].sim {
			return cands[i].sim > cands[j].sim
		}
		if cands[i].frag.Page != cands[j].frag.Page {
			return cands[i].frag.Page < cands[j].frag.Page
		}
		return cands[i].idx < cands[j].idx
	})
}
