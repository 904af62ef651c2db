// Package aggregate folds normalized parser outputs for one asset into an
// ordered result and derives the two export views from it: a flat
// row-oriented table and a compact time-windowed structure.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// Result is the ordered, de-duplicated union of every parser's tags for one
// asset. Both export views read it without mutating it, so either can be
// regenerated independently.
type Result struct {
	tags []timedtag.TimedTag
}

// Aggregate concatenates parser outputs, drops exact duplicate
// (start, end, type, tag, source) tuples, and sorts by start time with end
// time and tag type as tie-breaks. The operation is a fixed point: running
// it again over its own output yields an identical Result.
func Aggregate(sequences ...[]timedtag.TimedTag) Result {
	var merged []timedtag.TimedTag
	seen := make(map[string]bool)
	for _, seq := range sequences {
		for _, t := range seq {
			key := identityKey(t)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, t)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.TimeStart != b.TimeStart {
			return a.TimeStart < b.TimeStart
		}
		if a.TimeEnd != b.TimeEnd {
			return a.TimeEnd < b.TimeEnd
		}
		return a.TagType < b.TagType
	})
	return Result{tags: merged}
}

// Tags returns a copy of the ordered tag sequence.
func (r Result) Tags() []timedtag.TimedTag {
	out := make([]timedtag.TimedTag, len(r.tags))
	copy(out, r.tags)
	return out
}

// Len returns the number of aggregated tags.
func (r Result) Len() int { return len(r.tags) }

// identityKey identifies a tag for de-duplication. Score and details are
// excluded: a parser invoked twice on the same payload produces the same
// tuple, which is exactly the duplication this guards against.
func identityKey(t timedtag.TimedTag) string {
	return fmt.Sprintf("%.4f|%.4f|%s|%s|%s", t.TimeStart, t.TimeEnd, t.TagType, t.Tag, t.SourceExtractor)
}
