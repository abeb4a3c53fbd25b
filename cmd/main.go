package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/doclens/doclens/internal/models"
	cfgPkg "github.com/doclens/doclens/pkg/config"
	"github.com/doclens/doclens/pkg/engine"
	"github.com/doclens/doclens/pkg/extractor"
	"github.com/doclens/doclens/pkg/llm"
	"github.com/doclens/doclens/pkg/splitter"
	"github.com/doclens/doclens/pkg/store"
	"github.com/doclens/doclens/server"
)

type Options struct {
	DocsDir  string
	Persona  string
	Job      string
	TopK     int
	MaxWords int
	Cohesive bool
	Output   string
	Serve    bool
	Archive  bool
}

func main() {
	_ = godotenv.Load()

	opts, cfg := parseFlags()

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %v", e)
		}
		os.Exit(1)
	}

	if err := run(opts, cfg); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() (Options, *cfgPkg.Config) {
	var opts Options
	var configPath string

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&opts.DocsDir, "docs-dir", "", "Directory containing documents to process")
	flag.StringVar(&opts.Persona, "persona", "", "Target persona (e.g. \"Investment Analyst\")")
	flag.StringVar(&opts.Job, "job", "", "Job to be done (e.g. \"Analyze revenue trends\")")
	flag.IntVar(&opts.TopK, "k", 0, "Number of top sections to select")
	flag.IntVar(&opts.MaxWords, "max-words", 0, "Maximum words in cohesive summary")
	flag.BoolVar(&opts.Cohesive, "cohesive", false, "Generate a cohesive summary instead of structured analysis")
	flag.StringVar(&opts.Output, "output", "output.json", "Output JSON file path")
	flag.BoolVar(&opts.Serve, "serve", false, "Run the HTTP API instead of a one-shot analysis")
	flag.BoolVar(&opts.Archive, "archive", false, "Archive scored fragments to the configured database")
	flag.Parse()

	cfg, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if opts.TopK == 0 {
		opts.TopK = cfg.Engine.TopK
	}
	if opts.MaxWords == 0 {
		opts.MaxWords = cfg.Engine.MaxWords
	}

	return opts, cfg
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("texts"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(opts Options, cfg *cfgPkg.Config) error {
	embeddingBar := getProgressBar(-1, "Embedding...")

	embedder := llm.NewWithConfig(llm.EmbedderConfig{
		Model:     cfg.LLM.Model,
		BaseURL:   cfg.LLM.BaseURL,
		VectorDim: cfg.LLM.VectorDim,
		BatchSize: cfg.LLM.BatchSize,
		RateLimit: cfg.LLM.RateLimit,
		OnProgress: func(texts int) {
			_ = embeddingBar.Add(texts)
		},
	})

	ext := extractor.NewWithConfig(extractor.Config{
		MinFragmentChars: cfg.Extractor.MinFragmentChars,
		PDFTextCommand:   cfg.Extractor.PDFTextCommand,
	})

	eng := engine.New(embedder, splitter.New())

	if opts.Serve {
		if opts.DocsDir == "" {
			return fmt.Errorf("-docs-dir is required with -serve")
		}
		srv := server.New(server.Config{
			Addr:            cfg.Server.Addr,
			DocsDir:         opts.DocsDir,
			DefaultTopK:     opts.TopK,
			DefaultMaxWords: opts.MaxWords,
		}, eng, ext)
		return srv.ListenAndServe()
	}

	if opts.DocsDir == "" || opts.Persona == "" || opts.Job == "" {
		flag.Usage()
		return fmt.Errorf("-docs-dir, -persona and -job are required")
	}

	ctx := context.Background()
	intent := models.Intent{Persona: opts.Persona, Task: opts.Job}
	start := time.Now()

	extractSpinner := getSpinner("Extracting documents...")
	fragments, err := ext.Extract(ctx, opts.DocsDir)
	_ = extractSpinner.Finish()
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	color.Green("\n✓ Extracted %d fragments", len(fragments))

	var report any
	if opts.Cohesive {
		color.Blue("Generating cohesive summary for persona: %s", opts.Persona)
		summary, err := eng.AssembleSummary(ctx, fragments, intent, opts.MaxWords)
		if err != nil {
			return err
		}
		_ = embeddingBar.Finish()
		color.Green("\n✓ Assembled summary: %d words", summary.WordCount)
		report = engine.BuildSummaryReport(intent, fragments, summary, time.Since(start))
	} else {
		color.Blue("Ranking fragments for persona: %s", opts.Persona)
		sections, err := eng.RankAndRefine(ctx, fragments, intent, opts.TopK)
		if err != nil {
			return err
		}
		_ = embeddingBar.Finish()
		color.Green("\n✓ Selected %d sections", len(sections))
		printSections(sections)
		report = engine.BuildAnalysisReport(intent, fragments, sections, time.Since(start))
	}

	if opts.Archive && cfg.Database.URL != "" {
		if err := archiveRun(ctx, eng, cfg, fragments, intent); err != nil {
			color.Red("archive failed: %v", err)
		} else {
			color.Green("✓ Run archived")
		}
	}

	if err := writeReport(opts.Output, report); err != nil {
		return err
	}
	color.Cyan("Results saved to %s", opts.Output)
	return nil
}

func printSections(sections []models.RefinedSection) {
	for _, s := range sections {
		fmt.Printf("  Rank %d: %s (page %d)\n", s.Rank, s.SourceID, s.Page)
		fmt.Printf("    %s\n", s.Title)
	}
}

func archiveRun(ctx context.Context, eng *engine.Engine, cfg *cfgPkg.Config, fragments []models.Fragment, intent models.Intent) error {
	archive, err := store.NewWithConfig(store.ArchiveConfig{
		ConnString: cfg.Database.URL,
		TableName:  cfg.Database.TableName,
		VectorDim:  cfg.LLM.VectorDim,
		BatchSize:  cfg.Database.BatchSize,
	})
	if err != nil {
		return err
	}
	defer archive.Close()

	// Embeddings are already assigned, so scoring here costs one intent
	// embed and no fragment embeds.
	scored, err := eng.Score(ctx, fragments, intent)
	if err != nil {
		return err
	}
	runID := time.Now().UTC().Format("20060102T150405Z")
	return archive.SaveRun(ctx, runID, scored)
}

func writeReport(path string, report any) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
