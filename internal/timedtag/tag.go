// Package timedtag provides the canonical timed-tag schema shared by every
// extractor parser.
package timedtag

// TagType categorizes a timed tag. The set is closed: aggregation assumes
// every record carries one of these values, and normalization rejects
// anything else.
type TagType string

const (
	TagLabel      TagType = "label"
	TagFace       TagType = "face"
	TagIdentity   TagType = "identity"
	TagTranscript TagType = "transcript"
	TagModeration TagType = "moderation"
	TagShot       TagType = "shot"
	TagObject     TagType = "object"
	TagLogo       TagType = "logo"
	TagKeyword    TagType = "keyword"
)

// KnownTagTypes lists every valid tag type in lexicographic order.
func KnownTagTypes() []TagType {
	return []TagType{
		TagFace, TagIdentity, TagKeyword, TagLabel, TagLogo,
		TagModeration, TagObject, TagShot, TagTranscript,
	}
}

// Valid reports whether t is in the known set.
func (t TagType) Valid() bool {
	switch t {
	case TagLabel, TagFace, TagIdentity, TagTranscript, TagModeration,
		TagShot, TagObject, TagLogo, TagKeyword:
		return true
	}
	return false
}

// TimedTag represents a single normalized detection/event across all
// extractors. Instances are created by parsers and never mutated afterwards;
// the normalizer and aggregator produce new collections instead.
type TimedTag struct {
	TimeStart       float64                `json:"time_start"`
	TimeEnd         float64                `json:"time_end"`
	TagType         TagType                `json:"tag_type"`
	Tag             string                 `json:"tag"`
	Score           float64                `json:"score"`
	Details         map[string]interface{} `json:"details,omitempty"`
	SourceExtractor string                 `json:"source_extractor"`
}

// CloneDetails returns a shallow copy of the Details map, never nil.
func (t TimedTag) CloneDetails() map[string]interface{} {
	out := make(map[string]interface{}, len(t.Details))
	for k, v := range t.Details {
		out[k] = v
	}
	return out
}
