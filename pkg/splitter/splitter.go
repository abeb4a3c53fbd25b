// Package splitter provides sentence boundary detection for fragment text.
package splitter

import (
	"regexp"
	"strings"
)

// Sentence splits text on terminal punctuation. Abbreviation handling is
// intentionally out of scope; ranked refinement tolerates the occasional
// over-split.
type Sentence struct {
	re *regexp.Regexp
}

func New() *Sentence {
	return &Sentence{
		re: regexp.MustCompile(`[^.!?]+[.!?]+`),
	}
}

// Split returns the sentences of text in order. Text without any terminal
// punctuation comes back as a single sentence; blank text yields nothing.
func (s *Sentence) Split(text string) []string {
	var sentences []string

	locs := s.re.FindAllStringIndex(text, -1)
	last := 0
	for _, loc := range locs {
		sentence := strings.TrimSpace(text[loc[0]:loc[1]])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		last = loc[1]
	}

	// Trailing text without a terminator still counts as a sentence.
	if tail := strings.TrimSpace(text[last:]); tail != "" {
		sentences = append(sentences, tail)
	}

	return sentences
}
