package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// AWSLabelsParser handles AWS Rekognition video label detection. Rekognition
// timestamps label sightings as instantaneous millisecond offsets and scores
// confidence on a 0-100 scale; rescaling happens downstream in the
// normalizer.
type AWSLabelsParser struct{}

type awsLabelsPayload struct {
	Labels []struct {
		Timestamp float64 `json:"Timestamp"`
		Label     struct {
			Name       string   `json:"Name"`
			Confidence *float64 `json:"Confidence"`
			Parents    []struct {
				Name string `json:"Name"`
			} `json:"Parents"`
			Instances []struct {
				BoundingBox map[string]float64 `json:"BoundingBox"`
			} `json:"Instances"`
		} `json:"Label"`
	} `json:"Labels"`
}

func (p *AWSLabelsParser) Extractor() string { return "aws_rekognition_video_labels" }

func (p *AWSLabelsParser) ResultKeys() []string { return []string{"labels"} }

func (p *AWSLabelsParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	var payload awsLabelsPayload
	if err := json.Unmarshal(raw["labels"], &payload); err != nil {
		return nil, mismatch(p.Extractor(), "payload is not a JSON object")
	}
	if payload.Labels == nil {
		return nil, mismatch(p.Extractor(), "missing Labels")
	}

	var tags []timedtag.TimedTag
	for _, l := range payload.Labels {
		if l.Label.Name == "" {
			continue
		}
		start, end, err := timedtag.NormalizeInterval(timedtag.Interval{
			Unit: timedtag.UnitMilliseconds, Start: l.Timestamp, End: l.Timestamp,
		})
		if err != nil {
			return nil, err
		}

		details := map[string]interface{}{}
		if len(l.Label.Parents) > 0 {
			parents := make([]string, 0, len(l.Label.Parents))
			for _, parent := range l.Label.Parents {
				parents = append(parents, parent.Name)
			}
			details["parents"] = parents
		}
		if len(l.Label.Instances) > 0 {
			details["box"] = l.Label.Instances[0].BoundingBox
		}

		tags = append(tags, timedtag.TimedTag{
			TimeStart:       start,
			TimeEnd:         end,
			TagType:         timedtag.TagLabel,
			Tag:             l.Label.Name,
			Score:           scoreOrDefault(l.Label.Confidence),
			Details:         details,
			SourceExtractor: p.Extractor(),
		})
	}
	return tags, nil
}
