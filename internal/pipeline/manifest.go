package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// ParserFailure records one parser that could not contribute to a run.
type ParserFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Manifest is the per-run bookkeeping record. It is the only place a
// skipped or failed parser is visible, so it is required for diagnosing
// silent data loss in a multi-vendor pipeline.
type Manifest struct {
	RunID          string          `json:"run_id"`
	AssetID        string          `json:"asset_id"`
	ParsersRun     []string        `json:"parsers_run"`
	ParsersSkipped []string        `json:"parsers_skipped"`
	ParsersFailed  []ParserFailure `json:"parsers_failed"`
	// UnparsedKeys lists available result keys no registered parser
	// declares. Not fatal, but a hint that an extractor is unhandled.
	UnparsedKeys []string  `json:"unparsed_keys,omitempty"`
	TagCount     int       `json:"tag_count"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// NewManifest creates an empty manifest for one asset run.
func NewManifest(assetID string) *Manifest {
	return &Manifest{
		RunID:          uuid.NewString(),
		AssetID:        assetID,
		ParsersRun:     []string{},
		ParsersSkipped: []string{},
		ParsersFailed:  []ParserFailure{},
		GeneratedAt:    time.Now().UTC(),
	}
}
