package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// AWSTextDetectParser handles AWS Rekognition video text detection (OCR).
// Only LINE detections are emitted; WORD detections duplicate their parent
// line and would double-count on the timeline.
type AWSTextDetectParser struct{}

type awsTextPayload struct {
	TextDetections []struct {
		Timestamp     float64 `json:"Timestamp"`
		TextDetection struct {
			DetectedText string   `json:"DetectedText"`
			Type         string   `json:"Type"`
			Confidence   *float64 `json:"Confidence"`
			Geometry     *struct {
				BoundingBox map[string]float64 `json:"BoundingBox"`
			} `json:"Geometry"`
		} `json:"TextDetection"`
	} `json:"TextDetections"`
}

func (p *AWSTextDetectParser) Extractor() string { return "aws_rekognition_video_text_detect" }

func (p *AWSTextDetectParser) ResultKeys() []string { return []string{"text_detect"} }

func (p *AWSTextDetectParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	var payload awsTextPayload
	if err := json.Unmarshal(raw["text_detect"], &payload); err != nil {
		return nil, mismatch(p.Extractor(), "payload is not a JSON object")
	}
	if payload.TextDetections == nil {
		return nil, mismatch(p.Extractor(), "missing TextDetections")
	}

	var tags []timedtag.TimedTag
	for _, t := range payload.TextDetections {
		if t.TextDetection.Type != "LINE" || t.TextDetection.DetectedText == "" {
			continue
		}
		start, end, err := timedtag.NormalizeInterval(timedtag.Interval{
			Unit: timedtag.UnitMilliseconds, Start: t.Timestamp, End: t.Timestamp,
		})
		if err != nil {
			return nil, err
		}

		details := map[string]interface{}{}
		if t.TextDetection.Geometry != nil {
			details["box"] = t.TextDetection.Geometry.BoundingBox
		}

		tags = append(tags, timedtag.TimedTag{
			TimeStart:       start,
			TimeEnd:         end,
			TagType:         timedtag.TagKeyword,
			Tag:             t.TextDetection.DetectedText,
			Score:           scoreOrDefault(t.TextDetection.Confidence),
			Details:         details,
			SourceExtractor: p.Extractor(),
		})
	}
	return tags, nil
}
