package engine

import (
	"math"
	"time"

	"github.com/doclens/doclens/internal/models"
)

// emptySummaryText replaces the engine's empty-string sentinel in reports.
const emptySummaryText = "No relevant content found in the provided documents."

// BuildAnalysisReport shapes ranked sections into the structured-analysis
// output format.
func BuildAnalysisReport(intent models.Intent, fragments []models.Fragment, sections []models.RefinedSection, elapsed time.Duration) models.AnalysisReport {
	report := models.AnalysisReport{
		Metadata:           buildMetadata(intent, fragments, elapsed),
		ExtractedSections:  []models.ExtractedSection{},
		SubsectionAnalysis: []models.Subsection{},
	}
	report.Metadata.SelectedFragments = len(sections)

	for _, s := range sections {
		report.ExtractedSections = append(report.ExtractedSections, models.ExtractedSection{
			Document:       s.SourceID,
			SectionTitle:   s.Title,
			ImportanceRank: s.Rank,
			PageNumber:     s.Page,
		})
		report.SubsectionAnalysis = append(report.SubsectionAnalysis, models.Subsection{
			Document:       s.SourceID,
			SectionTitle:   s.Title,
			RefinedText:    s.RefinedText,
			RelevanceScore: s.Relevance,
			PageNumber:     s.Page,
		})
	}
	return report
}

// BuildSummaryReport shapes an assembled summary into the cohesive-summary
// output format. The engine's empty sentinel becomes a readable placeholder.
func BuildSummaryReport(intent models.Intent, fragments []models.Fragment, summary models.Summary, elapsed time.Duration) models.SummaryReport {
	report := models.SummaryReport{
		Metadata:        buildMetadata(intent, fragments, elapsed),
		CohesiveSummary: summary.Text,
	}
	report.Metadata.SummaryWordCount = summary.WordCount
	if summary.Text == "" {
		report.CohesiveSummary = emptySummaryText
	}
	return report
}

func buildMetadata(intent models.Intent, fragments []models.Fragment, elapsed time.Duration) models.Metadata {
	return models.Metadata{
		InputDocuments:        documentNames(fragments),
		Persona:               intent.Persona,
		JobToBeDone:           intent.Task,
		ProcessingTimestamp:   time.Now().UTC().Format(time.RFC3339),
		ProcessingTimeSeconds: math.Round(elapsed.Seconds()*100) / 100,
		TotalFragments:        len(fragments),
	}
}

// documentNames returns the distinct source documents in extraction order.
func documentNames(fragments []models.Fragment) []string {
	names := []string{}
	seen := make(map[string]bool)
	for _, f := range fragments {
		if !seen[f.SourceID] {
			seen[f.SourceID] = true
			names = append(names, f.SourceID)
		}
	}
	return names
}
