package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	s := New()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			"basic sentences",
			"First sentence. Second sentence! Third sentence?",
			[]string{"First sentence.", "Second sentence!", "Third sentence?"},
		},
		{
			"no terminator",
			"just a heading with no punctuation",
			[]string{"just a heading with no punctuation"},
		},
		{
			"trailing tail kept",
			"Complete sentence. And a dangling tail",
			[]string{"Complete sentence.", "And a dangling tail"},
		},
		{
			"repeated punctuation",
			"Really?! Yes... definitely.",
			[]string{"Really?!", "Yes...", "definitely."},
		},
		{
			"multiline",
			"Line one.\nLine two.",
			[]string{"Line one.", "Line two."},
		},
		{"empty", "", nil},
		{"whitespace only", "   \n\t  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Split(tt.text))
		})
	}
}
