// Package extractor turns a directory of documents into ordered text
// fragments with source and page metadata. Plain text and markdown are read
// directly, HTML goes through goquery, and PDFs are converted with the
// pdftotext utility. Files that fail to parse are skipped so one bad
// document cannot sink a whole corpus.
package extractor

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/doclens/doclens/internal/models"
)

var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

type Config struct {
	MinFragmentChars int
	PDFTextCommand   string
	OnProgress       func(file string)
}

type Extractor struct {
	config Config
}

func NewWithConfig(config Config) *Extractor {
	if config.MinFragmentChars == 0 {
		config.MinFragmentChars = 50
	}
	if config.PDFTextCommand == "" {
		config.PDFTextCommand = "pdftotext"
	}
	return &Extractor{config: config}
}

// Extract walks dir in filename order and returns one fragment per
// sufficiently long paragraph. An empty directory yields an empty slice,
// not an error.
func (x *Extractor) Extract(ctx context.Context, dir string) ([]models.Fragment, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read document directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var fragments []models.Fragment
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, name)
		pages, err := x.readPages(ctx, path)
		if err != nil {
			log.Printf("skipping %s: %v", name, err)
			continue
		}

		for pageNum, page := range pages {
			fragments = append(fragments, x.fragmentPage(page, name, pageNum+1)...)
		}

		if x.config.OnProgress != nil {
			x.config.OnProgress(name)
		}
	}
	return fragments, nil
}

// readPages returns the text of each page of the file. Formats without page
// structure come back as a single page; form feeds mark page breaks.
func (x *Extractor) readPages(ctx context.Context, path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return splitPages(string(data)), nil
	case ".html", ".htm":
		text, err := extractHTML(path)
		if err != nil {
			return nil, err
		}
		return []string{text}, nil
	case ".pdf":
		return x.extractPDF(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

func (x *Extractor) fragmentPage(text, sourceID string, page int) []models.Fragment {
	var fragments []models.Fragment
	for _, para := range paragraphSplit.Split(text, -1) {
		clean := strings.TrimSpace(para)
		if len(clean) > x.config.MinFragmentChars {
			fragments = append(fragments, models.Fragment{
				Text:     clean,
				SourceID: sourceID,
				Page:     page,
			})
		}
	}
	return fragments
}

func extractHTML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript").Remove()

	// Block-level elements become paragraphs so fragmenting works the same
	// way it does for plain text.
	var blocks []string
	doc.Find("p, li, h1, h2, h3, h4, h5, h6, td, pre").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		return strings.TrimSpace(doc.Text()), nil
	}
	return strings.Join(blocks, "\n\n"), nil
}

// extractPDF shells out to pdftotext, which separates pages with form feeds.
func (x *Extractor) extractPDF(ctx context.Context, path string) ([]string, error) {
	out, err := exec.CommandContext(ctx, x.config.PDFTextCommand, "-layout", path, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", x.config.PDFTextCommand, err)
	}
	return splitPages(string(out)), nil
}

func splitPages(text string) []string {
	if !strings.Contains(text, "\f") {
		return []string{text}
	}
	var pages []string
	for _, page := range strings.Split(text, "\f") {
		if strings.TrimSpace(page) != "" {
			pages = append(pages, page)
		}
	}
	return pages
}
