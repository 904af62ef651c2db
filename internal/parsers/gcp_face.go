package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// GCPFaceDetectionParser handles GCP Video Intelligence face detection. The
// API does not identify faces, so every track carries the generic "face"
// tag; attributes and the first observed box go to details.
type GCPFaceDetectionParser struct{}

func (p *GCPFaceDetectionParser) Extractor() string { return "gcp_videointelligence_face_detection" }

func (p *GCPFaceDetectionParser) ResultKeys() []string { return []string{"face_detection"} }

func (p *GCPFaceDetectionParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	results, err := gcpAnnotationResults(raw["face_detection"], p.Extractor())
	if err != nil {
		return nil, err
	}

	var tags []timedtag.TimedTag
	for _, result := range results {
		anns, _ := result["faceDetectionAnnotations"].([]interface{})
		for _, a := range anns {
			ann, ok := a.(map[string]interface{})
			if !ok {
				continue
			}
			tracks, _ := ann["tracks"].([]interface{})
			for _, t := range tracks {
				track, ok := t.(map[string]interface{})
				if !ok {
					continue
				}
				seg, ok := track["segment"].(map[string]interface{})
				if !ok {
					continue
				}
				start, end, err := gcpSegmentInterval(seg)
				if err != nil {
					return nil, err
				}
				score, hasScore := track["confidence"].(float64)
				if !hasScore {
					score = 1.0
				}

				details := map[string]interface{}{}
				if objs, ok := track["timestampedObjects"].([]interface{}); ok && len(objs) > 0 {
					if om, ok := objs[0].(map[string]interface{}); ok {
						if box, ok := om["normalizedBoundingBox"]; ok {
							details["box"] = box
						}
						if attrs, ok := om["attributes"]; ok {
							details["attributes"] = attrs
						}
					}
				}

				tags = append(tags, timedtag.TimedTag{
					TimeStart:       start,
					TimeEnd:         end,
					TagType:         timedtag.TagFace,
					Tag:             "face",
					Score:           score,
					Details:         details,
					SourceExtractor: p.Extractor(),
				})
			}
		}
	}
	return tags, nil
}
