package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// AWSFacesParser handles AWS Rekognition face detection. Detections are
// anonymous, so every sighting carries the generic "face" tag; emotions and
// pose details ride along for downstream consumers.
type AWSFacesParser struct{}

type awsFacesPayload struct {
	Faces []struct {
		Timestamp float64 `json:"Timestamp"`
		Face      struct {
			Confidence  *float64           `json:"Confidence"`
			BoundingBox map[string]float64 `json:"BoundingBox"`
			Emotions    []struct {
				Type       string  `json:"Type"`
				Confidence float64 `json:"Confidence"`
			} `json:"Emotions"`
		} `json:"Face"`
	} `json:"Faces"`
}

func (p *AWSFacesParser) Extractor() string { return "aws_rekognition_video_faces" }

func (p *AWSFacesParser) ResultKeys() []string { return []string{"faces"} }

func (p *AWSFacesParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	var payload awsFacesPayload
	if err := json.Unmarshal(raw["faces"], &payload); err != nil {
		return nil, mismatch(p.Extractor(), "payload is not a JSON object")
	}
	if payload.Faces == nil {
		return nil, mismatch(p.Extractor(), "missing Faces")
	}

	var tags []timedtag.TimedTag
	for _, f := range payload.Faces {
		start, end, err := timedtag.NormalizeInterval(timedtag.Interval{
			Unit: timedtag.UnitMilliseconds, Start: f.Timestamp, End: f.Timestamp,
		})
		if err != nil {
			return nil, err
		}

		details := map[string]interface{}{}
		if len(f.Face.BoundingBox) > 0 {
			details["box"] = f.Face.BoundingBox
		}
		// Keep only the strongest emotion; the full list is noise for the
		// timeline view.
		var topEmotion string
		var topConf float64
		for _, e := range f.Face.Emotions {
			if e.Confidence > topConf {
				topEmotion, topConf = e.Type, e.Confidence
			}
		}
		if topEmotion != "" {
			details["emotion"] = topEmotion
		}

		tags = append(tags, timedtag.TimedTag{
			TimeStart:       start,
			TimeEnd:         end,
			TagType:         timedtag.TagFace,
			Tag:             "face",
			Score:           scoreOrDefault(f.Face.Confidence),
			Details:         details,
			SourceExtractor: p.Extractor(),
		})
	}
	return tags, nil
}
