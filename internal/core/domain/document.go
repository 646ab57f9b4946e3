package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// DocumentClass is the classification verdict for a document. The two
// literals are part of the external contract; downstream consumers branch
// on them and they must not change.
type DocumentClass string

const (
	ClassInvoice       DocumentClass = "FACTURA"
	ClassInformational DocumentClass = "INFORMACIÓN"
)

// MatchedKeywords holds the literal keyword texts that contributed evidence,
// grouped by weight tier, one element per occurrence in first-seen order.
type MatchedKeywords struct {
	Critical  []string `json:"critical"`
	Important []string `json:"important"`
	Secondary []string `json:"secondary"`
}

// ClassificationResult is what one classification run produces. It is
// immutable once returned; the classifier keeps no state between calls.
type ClassificationResult struct {
	Label           DocumentClass   `json:"label"`
	FiredRule       int             `json:"fired_rule"`
	Score           int             `json:"score"`
	MatchedKeywords MatchedKeywords `json:"matched_keywords"`
}

type Document struct {
	ID              string          `json:"id"`
	Filename        string          `json:"filename"`
	MimeType        string          `json:"mime_type"`
	StoragePath     string          `json:"storage_path"`
	Classification  DocumentClass   `json:"classification,omitempty"`
	FiredRule       int             `json:"fired_rule,omitempty"`
	Score           int             `json:"score,omitempty"`
	MatchedKeywords MatchedKeywords `json:"matched_keywords"`
	Description     string          `json:"description,omitempty"`
	Summary         string          `json:"summary,omitempty"`
	Status          DocumentStatus  `json:"status"`
	Error           string          `json:"error,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
