// Package normalize applies the post-parse pass every parser's output goes
// through: tag text cleanup, label-hierarchy flattening, score rescaling,
// and tag-type enforcement.
package normalize

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

var log = logrus.WithField("component", "normalize")

// Apply normalizes a parser's output into final canonical form. It never
// mutates its input; every returned tag is a fresh copy with a fresh details
// map.
//
// Rules:
//   - Tag text is trimmed, internal whitespace collapsed, and lower-cased;
//     the original text is preserved in details["original"] when it differs.
//   - Hierarchical labels ("Vehicle > Car > Sedan") keep the leaf as the tag
//     and store the full path, root first, in details["ancestry"].
//   - Scores on a 0-100 scale are divided by 100; values already in [0,1]
//     pass through; anything outside [0,100] is a *timedtag.ScoreRangeError.
//   - A tag type outside the known set is a *timedtag.UnknownTagTypeError.
//     Vendor schema drift surfaces here instead of being absorbed.
//
// Records whose tag text is empty after cleanup are dropped with a warning;
// they carry no queryable content.
func Apply(tags []timedtag.TimedTag) ([]timedtag.TimedTag, error) {
	out := make([]timedtag.TimedTag, 0, len(tags))
	for _, t := range tags {
		if !t.TagType.Valid() {
			return nil, &timedtag.UnknownTagTypeError{Value: string(t.TagType)}
		}

		score, err := normalizeScore(t.Score)
		if err != nil {
			return nil, err
		}

		original := t.Tag
		details := t.CloneDetails()

		text := collapseWhitespace(original)
		if path := splitAncestry(text); len(path) > 1 {
			details["ancestry"] = path
			text = path[len(path)-1]
		}
		text = strings.ToLower(text)
		if text == "" {
			log.WithFields(logrus.Fields{
				"source_extractor": t.SourceExtractor,
				"tag_type":         string(t.TagType),
			}).Warn("dropping record with empty tag text")
			continue
		}
		if text != original {
			details["original"] = original
		}

		norm := t
		norm.Tag = text
		norm.Score = score
		norm.Details = details
		out = append(out, norm)
	}
	return out, nil
}

// normalizeScore maps vendor confidence conventions onto [0,1]. Values in
// (1,100] are treated as percentages. A bare 1 is ambiguous between the two
// scales and is taken as already normalized.
func normalizeScore(v float64) (float64, error) {
	switch {
	case v >= 0 && v <= 1:
		return v, nil
	case v > 1 && v <= 100:
		return v / 100.0, nil
	default:
		return 0, &timedtag.ScoreRangeError{Value: v}
	}
}

// collapseWhitespace trims and squeezes runs of whitespace to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitAncestry splits a "root > mid > leaf" label into its path components.
// Returns a single-element slice for flat labels.
func splitAncestry(s string) []string {
	parts := strings.Split(s, ">")
	path := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			path = append(path, trimmed)
		}
	}
	if len(path) == 0 {
		return []string{""}
	}
	return path
}
