package models

// Metadata describes one processing run in the output reports.
type Metadata struct {
	InputDocuments        []string `json:"input_documents"`
	Persona               string   `json:"persona"`
	JobToBeDone           string   `json:"job_to_be_done"`
	ProcessingTimestamp   string   `json:"processing_timestamp"`
	ProcessingTimeSeconds float64  `json:"processing_time_seconds"`
	TotalFragments        int      `json:"total_fragments"`
	SelectedFragments     int      `json:"selected_fragments,omitempty"`
	SummaryWordCount      int      `json:"summary_word_count,omitempty"`
}

// ExtractedSection is the ranked-sections view of one selected fragment.
type ExtractedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

// Subsection carries the refined text for one selected fragment.
type Subsection struct {
	Document       string  `json:"document"`
	SectionTitle   string  `json:"section_title"`
	RefinedText    string  `json:"refined_text"`
	RelevanceScore float64 `json:"relevance_score"`
	PageNumber     int     `json:"page_number"`
}

// AnalysisReport is the structured-analysis output mode.
type AnalysisReport struct {
	Metadata           Metadata           `json:"metadata"`
	ExtractedSections  []ExtractedSection `json:"extracted_sections"`
	SubsectionAnalysis []Subsection       `json:"subsection_analysis"`
}

// SummaryReport is the cohesive-summary output mode.
type SummaryReport struct {
	Metadata        Metadata `json:"metadata"`
	CohesiveSummary string   `json:"cohesive_summary"`
}
