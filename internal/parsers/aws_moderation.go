package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// AWSModerationParser handles AWS Rekognition content moderation results.
// Rekognition moderation labels form a two-level taxonomy (ParentName plus
// Name); the parser emits the joined path so the normalizer can flatten it
// into leaf + ancestry.
type AWSModerationParser struct{}

type awsModerationPayload struct {
	ModerationLabels []struct {
		Timestamp       float64 `json:"Timestamp"`
		ModerationLabel struct {
			Name       string   `json:"Name"`
			ParentName string   `json:"ParentName"`
			Confidence *float64 `json:"Confidence"`
		} `json:"ModerationLabel"`
	} `json:"ModerationLabels"`
}

func (p *AWSModerationParser) Extractor() string { return "aws_rekognition_video_content_moderation" }

func (p *AWSModerationParser) ResultKeys() []string { return []string{"content_moderation"} }

func (p *AWSModerationParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	var payload awsModerationPayload
	if err := json.Unmarshal(raw["content_moderation"], &payload); err != nil {
		return nil, mismatch(p.Extractor(), "payload is not a JSON object")
	}
	if payload.ModerationLabels == nil {
		return nil, mismatch(p.Extractor(), "missing ModerationLabels")
	}

	var tags []timedtag.TimedTag
	for _, m := range payload.ModerationLabels {
		label := m.ModerationLabel.Name
		if label == "" {
			continue
		}
		if m.ModerationLabel.ParentName != "" {
			label = m.ModerationLabel.ParentName + " > " + label
		}
		start, end, err := timedtag.NormalizeInterval(timedtag.Interval{
			Unit: timedtag.UnitMilliseconds, Start: m.Timestamp, End: m.Timestamp,
		})
		if err != nil {
			return nil, err
		}
		tags = append(tags, timedtag.TimedTag{
			TimeStart:       start,
			TimeEnd:         end,
			TagType:         timedtag.TagModeration,
			Tag:             label,
			Score:           scoreOrDefault(m.ModerationLabel.Confidence),
			SourceExtractor: p.Extractor(),
		})
	}
	return tags, nil
}
