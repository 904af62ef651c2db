package parsers

import (
	"encoding/json"
	"strings"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// AWSSegmentsParser handles AWS Rekognition video segment detection. SHOT
// segments become shot tags; TECHNICAL_CUE segments (black frames, end
// credits, color bars) become labeled shot tags so they stay visible on the
// timeline.
type AWSSegmentsParser struct{}

type awsSegmentsPayload struct {
	Segments []struct {
		Type                 string  `json:"Type"`
		StartTimestampMillis float64 `json:"StartTimestampMillis"`
		EndTimestampMillis   float64 `json:"EndTimestampMillis"`
		ShotSegment          *struct {
			Index      float64  `json:"Index"`
			Confidence *float64 `json:"Confidence"`
		} `json:"ShotSegment"`
		TechnicalCueSegment *struct {
			Type       string   `json:"Type"`
			Confidence *float64 `json:"Confidence"`
		} `json:"TechnicalCueSegment"`
	} `json:"Segments"`
}

func (p *AWSSegmentsParser) Extractor() string { return "aws_rekognition_video_segments" }

func (p *AWSSegmentsParser) ResultKeys() []string { return []string{"segments"} }

func (p *AWSSegmentsParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	var payload awsSegmentsPayload
	if err := json.Unmarshal(raw["segments"], &payload); err != nil {
		return nil, mismatch(p.Extractor(), "payload is not a JSON object")
	}
	if payload.Segments == nil {
		return nil, mismatch(p.Extractor(), "missing Segments")
	}

	var tags []timedtag.TimedTag
	for _, s := range payload.Segments {
		start, end, err := timedtag.NormalizeInterval(timedtag.Interval{
			Unit:  timedtag.UnitMilliseconds,
			Start: s.StartTimestampMillis,
			End:   s.EndTimestampMillis,
		})
		if err != nil {
			return nil, err
		}

		tag := "shot"
		score := 1.0
		details := map[string]interface{}{"segment_type": s.Type}
		switch {
		case s.ShotSegment != nil:
			score = scoreOrDefault(s.ShotSegment.Confidence)
			details["shot_index"] = s.ShotSegment.Index
		case s.TechnicalCueSegment != nil:
			tag = strings.ToLower(s.TechnicalCueSegment.Type)
			score = scoreOrDefault(s.TechnicalCueSegment.Confidence)
		}

		tags = append(tags, timedtag.TimedTag{
			TimeStart:       start,
			TimeEnd:         end,
			TagType:         timedtag.TagShot,
			Tag:             tag,
			Score:           score,
			Details:         details,
			SourceExtractor: p.Extractor(),
		})
	}
	return tags, nil
}
