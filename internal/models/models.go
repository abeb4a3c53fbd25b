package models

import "strings"

// Fragment is a contiguous unit of text extracted from one source document.
// Source and page are fixed at extraction time; the embedding is assigned
// once by the engine and never recomputed for the same fragment.
type Fragment struct {
	Text      string
	SourceID  string
	Page      int
	Embedding []float32
}

// ScoredFragment pairs a fragment with its cosine similarity to the intent
// embedding for the current run.
type ScoredFragment struct {
	Fragment
	Similarity float64
}

// Intent is the relevance target: who is reading and what they need done.
type Intent struct {
	Persona string
	Task    string
}

// Query returns the text that gets embedded as the intent vector.
func (i Intent) Query() string {
	return "Role: " + strings.TrimSpace(i.Persona) + "\nTask: " + strings.TrimSpace(i.Task)
}

// RefinedSection is one ranked selection entry reduced to its most relevant
// sentences. RefinedText keeps the original sentence order of the fragment.
type RefinedSection struct {
	SourceID    string
	Page        int
	Rank        int
	Title       string
	RefinedText string
	Similarity  float64
	Relevance   float64
}

// Summary is the budgeted assembly result. The zero value is the documented
// empty-result sentinel.
type Summary struct {
	Text      string
	WordCount int
	Truncated bool
}
