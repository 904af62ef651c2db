package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// AWSCelebritiesParser handles AWS Rekognition celebrity recognition. Named
// people become identity tags; the face box and celebrity URLs are kept in
// details.
type AWSCelebritiesParser struct{}

type awsCelebsPayload struct {
	Celebrities []struct {
		Timestamp float64 `json:"Timestamp"`
		Celebrity struct {
			Name        string             `json:"Name"`
			Confidence  *float64           `json:"Confidence"`
			URLs        []string           `json:"Urls"`
			BoundingBox map[string]float64 `json:"BoundingBox"`
		} `json:"Celebrity"`
	} `json:"Celebrities"`
}

func (p *AWSCelebritiesParser) Extractor() string { return "aws_rekognition_video_celebs" }

func (p *AWSCelebritiesParser) ResultKeys() []string { return []string{"celebs"} }

func (p *AWSCelebritiesParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	var payload awsCelebsPayload
	if err := json.Unmarshal(raw["celebs"], &payload); err != nil {
		return nil, mismatch(p.Extractor(), "payload is not a JSON object")
	}
	if payload.Celebrities == nil {
		return nil, mismatch(p.Extractor(), "missing Celebrities")
	}

	var tags []timedtag.TimedTag
	for _, c := range payload.Celebrities {
		if c.Celebrity.Name == "" {
			continue
		}
		start, end, err := timedtag.NormalizeInterval(timedtag.Interval{
			Unit: timedtag.UnitMilliseconds, Start: c.Timestamp, End: c.Timestamp,
		})
		if err != nil {
			return nil, err
		}

		details := map[string]interface{}{}
		if len(c.Celebrity.URLs) > 0 {
			details["urls"] = c.Celebrity.URLs
		}
		if len(c.Celebrity.BoundingBox) > 0 {
			details["box"] = c.Celebrity.BoundingBox
		}

		tags = append(tags, timedtag.TimedTag{
			TimeStart:       start,
			TimeEnd:         end,
			TagType:         timedtag.TagIdentity,
			Tag:             c.Celebrity.Name,
			Score:           scoreOrDefault(c.Celebrity.Confidence),
			Details:         details,
			SourceExtractor: p.Extractor(),
		})
	}
	return tags, nil
}
