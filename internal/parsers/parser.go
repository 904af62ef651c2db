// Package parsers translates vendor-specific extractor results into the
// canonical timed-tag schema. One parser per extractor; all of them are pure
// functions of their input payload.
package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// Parser converts one extractor's raw JSON result into timed tags.
//
// Parse must be deterministic and side-effect free: the aggregator's
// de-duplication relies on identical input producing identical output. A
// well-formed payload with zero detections returns an empty slice and nil
// error; a payload missing the parser's required top-level keys returns a
// *timedtag.SchemaMismatchError so the driver can skip this parser without
// aborting the run.
type Parser interface {
	// Extractor returns the vendor/tool identifier this parser handles,
	// recorded on every tag as SourceExtractor.
	Extractor() string

	// ResultKeys returns the raw result keys this parser requires. The
	// driver selects a parser only when all of them are present; it never
	// guesses applicability from payload content.
	ResultKeys() []string

	// Parse produces timed tags from the raw payloads keyed by result key.
	Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error)
}

// mismatch builds the recoverable error a parser returns when a required
// shape is absent.
func mismatch(extractor, reason string) error {
	return &timedtag.SchemaMismatchError{Extractor: extractor, Reason: reason}
}

// scoreOrDefault interprets an optional vendor confidence field. A record
// with no confidence scores 1.0, never 0: zero would sink the detection to
// the bottom of score-ordered views.
func scoreOrDefault(v *float64) float64 {
	if v == nil {
		return 1.0
	}
	return *v
}
