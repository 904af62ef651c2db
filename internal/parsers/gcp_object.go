package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// GCPObjectTrackingParser handles GCP Video Intelligence object tracking.
// One tag per tracked object instance; the first frame's bounding box rides
// along in details.
type GCPObjectTrackingParser struct{}

func (p *GCPObjectTrackingParser) Extractor() string { return "gcp_videointelligence_object_tracking" }

func (p *GCPObjectTrackingParser) ResultKeys() []string { return []string{"object_tracking"} }

func (p *GCPObjectTrackingParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	results, err := gcpAnnotationResults(raw["object_tracking"], p.Extractor())
	if err != nil {
		return nil, err
	}

	var tags []timedtag.TimedTag
	for _, result := range results {
		anns, _ := result["objectAnnotations"].([]interface{})
		for _, a := range anns {
			ann, ok := a.(map[string]interface{})
			if !ok {
				continue
			}
			object := gcpEntityDescription(ann)
			if object == "" {
				continue
			}
			seg, ok := ann["segment"].(map[string]interface{})
			if !ok {
				continue
			}
			start, end, err := gcpSegmentInterval(seg)
			if err != nil {
				return nil, err
			}
			score, hasScore := ann["confidence"].(float64)
			if !hasScore {
				score = 1.0
			}

			details := map[string]interface{}{}
			if trackID, ok := ann["trackId"]; ok {
				details["track_id"] = trackID
			}
			if frames, ok := ann["frames"].([]interface{}); ok && len(frames) > 0 {
				if fm, ok := frames[0].(map[string]interface{}); ok {
					if box, ok := fm["normalizedBoundingBox"]; ok {
						details["box"] = box
					}
				}
			}

			tags = append(tags, timedtag.TimedTag{
				TimeStart:       start,
				TimeEnd:         end,
				TagType:         timedtag.TagObject,
				Tag:             object,
				Score:           score,
				Details:         details,
				SourceExtractor: p.Extractor(),
			})
		}
	}
	return tags, nil
}
