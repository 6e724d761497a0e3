package domain

import (
	"time"

	"github.com/google/uuid"
)

// ParsedResponse is the structured decomposition of one title-generation response.
// GeneratedAttributeKeys and GeneratedAttributeValues are always index-aligned.
type ParsedResponse struct {
	OriginalAttributeKeys    []string        `json:"original_attribute_keys"`
	Category                 string          `json:"category"`
	GeneratedAttributeKeys   []string        `json:"generated_attribute_keys"`
	GeneratedAttributeValues []string        `json:"generated_attribute_values"`
	ReplacedKeys             map[string]bool `json:"replaced_keys,omitempty"`
	GeneratedTitleText       string          `json:"generated_title_text,omitempty"`
	HasGeneratedTitle        bool            `json:"has_generated_title"`
	Strategy                 string          `json:"strategy"`
}

// IsReplaced reports whether the model flagged key as an override. Keys are compared lowercase.
func (p *ParsedResponse) IsReplaced(key string) bool {
	if p.ReplacedKeys == nil {
		return false
	}
	return p.ReplacedKeys[normalizeKey(key)]
}

// ParsedDescription is the structured decomposition of one description-generation response.
type ParsedDescription struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Evaluation  string  `json:"evaluation"`
}

// AttributeClassification is the reconciliation verdict for one generated attribute.
type AttributeClassification struct {
	Key            string        `json:"key"`
	Kind           AttributeKind `json:"kind"`
	GeneratedValue string        `json:"generated_value"`
	OriginalValue  string        `json:"original_value"`
	ResolvedValue  string        `json:"resolved_value"`
	Replaced       bool          `json:"replaced"`
}

// GenerationResult is one row's final output. It is the only entity persisted
// between runs; ItemID is used to detect already-processed items.
type GenerationResult struct {
	Approved             bool             `json:"approved"`
	Status               GenerationStatus `json:"status"`
	ItemID               string           `json:"item_id"`
	OriginalTitle        string           `json:"original_title"`
	GeneratedTitle       string           `json:"generated_title"`
	OriginalDescription  string           `json:"original_description"`
	GeneratedDescription string           `json:"generated_description"`
	Category             string           `json:"category"`
	OriginalTemplate     string           `json:"original_template"`
	GeneratedTemplate    string           `json:"generated_template"`
	Score                float64          `json:"score"`
	DescriptionScore     float64          `json:"description_score"`
	DescriptionReasoning string           `json:"description_reasoning"`
	TitleChanged         bool             `json:"title_changed"`
	AddedAttributes      []string         `json:"added_attributes"`
	RemovedAttributes    []string         `json:"removed_attributes"`
	NewWordsAdded        []string         `json:"new_words_added"`
	WordsRemoved         []string         `json:"words_removed"`
	GapAttributes        AttributeMap     `json:"gap_attributes"`
	Diagnostic           string           `json:"diagnostic"`
	Input                InputRecord      `json:"input"`
	ProcessedAt          time.Time        `json:"processed_at"`
}

// Failed reports whether the row could not be generated at all.
func (r *GenerationResult) Failed() bool {
	return r.Status == GenerationStatusFailed
}

// ExportSchema is the data-dependent column layout of the export table.
type ExportSchema struct {
	Columns      []string `json:"columns"`
	GapKeys      []string `json:"gap_keys"`
	InventedKeys []string `json:"invented_keys"`
}

// RunSummary reports the outcome of one generation run.
type RunSummary struct {
	Total        int `json:"total"`
	Skipped      int `json:"skipped"`
	Processed    int `json:"processed"`
	Succeeded    int `json:"succeeded"`
	NonCompliant int `json:"non_compliant"`
	Failed       int `json:"failed"`
	AutoApproved int `json:"auto_approved"`
}

// Add folds a single row result into the summary.
func (s *RunSummary) Add(r *GenerationResult) {
	s.Processed++
	switch r.Status {
	case GenerationStatusSuccess:
		s.Succeeded++
	case GenerationStatusNonCompliant:
		s.NonCompliant++
	case GenerationStatusFailed:
		s.Failed++
	}
	if r.Approved {
		s.AutoApproved++
	}
}

// Run tracks an asynchronous generation run started through the API.
type Run struct {
	ID         uuid.UUID   `json:"id"`
	Status     RunStatus   `json:"status"`
	Summary    *RunSummary `json:"summary,omitempty"`
	Error      string      `json:"error,omitempty"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

// ExportResult describes a completed export.
type ExportResult struct {
	Schema     ExportSchema `json:"schema"`
	RowCount   int          `json:"row_count"`
	Location   string       `json:"location,omitempty"`
	ExportedAt time.Time    `json:"exported_at"`
}
