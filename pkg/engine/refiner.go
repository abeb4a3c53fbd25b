package engine

import (
	"sort"
	"strings"
)

const (
	titleMaxChars    = 80
	titleMinLineLen  = 10
	titleScanLines   = 3
	titleLeadWords   = 10
	minRefineCount   = 3
	maxRefineCount   = 5
	truncationMarker = "..."
)

// rankedSentenceCount is the sentence budget for ranked-section refinement:
// a third of the fragment, but never fewer than 3 or more than 5.
func rankedSentenceCount(total int) int {
	count := total / 3
	if count < minRefineCount {
		count = minRefineCount
	}
	if count > maxRefineCount {
		count = maxRefineCount
	}
	return count
}

// refineFragment keeps the count highest-scoring sentences of a fragment in
// their original order and reports the maximum sentence score as the
// fragment relevance. Fragments of one sentence or fewer pass through
// unchanged; filtering them gains nothing and risks empty output.
func refineFragment(fragText string, sentences []string, scores []float64, count int) (string, float64) {
	if len(sentences) <= 1 {
		return fragText, maxScore(scores)
	}
	if count > len(sentences) {
		count = len(sentences)
	}

	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	keep := append([]int(nil), order[:count]...)
	// Restore source order; reordering by score destroys coherence.
	sort.Ints(keep)

	parts := make([]string, len(keep))
	for i, idx := range keep {
		parts[i] = sentences[idx]
	}
	return strings.Join(parts, " "), maxScore(scores)
}

func maxScore(scores []float64) float64 {
	var max float64
	for i, s := range scores {
		if i == 0 || s > max {
			max = s
		}
	}
	return max
}

// deriveTitle picks a display title for a fragment: the first non-bullet
// line longer than 10 characters among the first three lines, else the
// fragment's first ten words. Titles are advisory, not authoritative.
func deriveTitle(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > titleScanLines {
		lines = lines[:titleScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) > titleMinLineLen && !isBulletLine(line) {
			return truncateTitle(line)
		}
	}

	words := strings.Fields(text)
	if len(words) > titleLeadWords {
		words = words[:titleLeadWords]
	}
	return truncateTitle(strings.Join(words, " "))
}

func isBulletLine(line string) bool {
	return strings.HasPrefix(line, "•") ||
		strings.HasPrefix(line, "-") ||
		strings.HasPrefix(line, "*")
}

func truncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= titleMaxChars {
		return s
	}
	return string(runes[:titleMaxChars-len(truncationMarker)]) + truncationMarker
}
