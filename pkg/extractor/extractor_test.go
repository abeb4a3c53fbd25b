package extractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestExtractPlainText(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "report.txt",
		"The first paragraph has enough length to survive the filter.\n\n"+
			"too short\n\n"+
			"The second paragraph also clears the minimum length easily.")

	x := NewWithConfig(Config{MinFragmentChars: 20})
	fragments, err := x.Extract(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, fragments, 2)

	assert.Equal(t, "report.txt", fragments[0].SourceID)
	assert.Equal(t, 1, fragments[0].Page)
	assert.Contains(t, fragments[0].Text, "first paragraph")
	assert.Contains(t, fragments[1].Text, "second paragraph")
}

func TestExtractFormFeedPages(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "paged.txt",
		"Page one content that is long enough to keep around.\f"+
			"Page two content that is also long enough to keep.")

	x := NewWithConfig(Config{MinFragmentChars: 20})
	fragments, err := x.Extract(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, fragments, 2)

	assert.Equal(t, 1, fragments[0].Page)
	assert.Equal(t, 2, fragments[1].Page)
}

func TestExtractHTML(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "page.html", `<html><head>
<script>var tracking = "should never appear in output";</script>
<style>.hidden { display: none; }</style>
</head><body>
<h1>Annual Report Highlights</h1>
<p>Revenue grew substantially across all operating segments this year.</p>
<li>Operating margin improved by two hundred basis points overall.</li>
</body></html>`)

	x := NewWithConfig(Config{MinFragmentChars: 20})
	fragments, err := x.Extract(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, fragments, 3)

	assert.Equal(t, "Annual Report Highlights", fragments[0].Text)
	assert.Contains(t, fragments[1].Text, "Revenue grew")
	for _, f := range fragments {
		assert.NotContains(t, f.Text, "tracking")
		assert.NotContains(t, f.Text, "display: none")
	}
}

func TestExtractSkipsUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "image.png", "\x89PNG not a text document at all")
	writeDoc(t, dir, "notes.txt", "A perfectly good paragraph that should still be extracted.")

	x := NewWithConfig(Config{MinFragmentChars: 20})
	fragments, err := x.Extract(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.Equal(t, "notes.txt", fragments[0].SourceID)
}

func TestExtractFilenameOrder(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "b.txt", "Content from the second document in filename order.")
	writeDoc(t, dir, "a.txt", "Content from the first document in filename order.")

	var visited []string
	x := NewWithConfig(Config{
		MinFragmentChars: 20,
		OnProgress:       func(file string) { visited = append(visited, file) },
	})
	fragments, err := x.Extract(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, fragments, 2)

	assert.Equal(t, "a.txt", fragments[0].SourceID)
	assert.Equal(t, "b.txt", fragments[1].SourceID)
	assert.Equal(t, []string{"a.txt", "b.txt"}, visited)
}

func TestExtractEmptyDirectory(t *testing.T) {
	x := NewWithConfig(Config{})
	fragments, err := x.Extract(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, fragments)
}

func TestExtractMissingDirectory(t *testing.T) {
	x := NewWithConfig(Config{})
	_, err := x.Extract(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
