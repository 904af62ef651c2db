package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// GCPLabelParser handles GCP Video Intelligence label detection results
// (segment-level and shot-level label annotations).
type GCPLabelParser struct{}

func (p *GCPLabelParser) Extractor() string { return "gcp_videointelligence_label" }

func (p *GCPLabelParser) ResultKeys() []string { return []string{"label"} }

func (p *GCPLabelParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	results, err := gcpAnnotationResults(raw["label"], p.Extractor())
	if err != nil {
		return nil, err
	}

	var tags []timedtag.TimedTag
	for _, result := range results {
		for _, listKey := range []string{"segmentLabelAnnotations", "shotLabelAnnotations"} {
			anns, _ := result[listKey].([]interface{})
			for _, a := range anns {
				ann, ok := a.(map[string]interface{})
				if !ok {
					continue
				}
				label := gcpEntityDescription(ann)
				if label == "" {
					continue
				}

				// categoryEntities carry the parent categories, root last in
				// the API; keep them for ancestry flattening downstream.
				var categories []string
				if cats, ok := ann["categoryEntities"].([]interface{}); ok {
					for _, c := range cats {
						if cm, ok := c.(map[string]interface{}); ok {
							if desc, _ := cm["description"].(string); desc != "" {
								categories = append(categories, desc)
							}
						}
					}
				}

				segments, _ := ann["segments"].([]interface{})
				for _, s := range segments {
					sm, ok := s.(map[string]interface{})
					if !ok {
						continue
					}
					seg, ok := sm["segment"].(map[string]interface{})
					if !ok {
						continue
					}
					start, end, err := gcpSegmentInterval(seg)
					if err != nil {
						return nil, err
					}
					score, hasScore := sm["confidence"].(float64)
					if !hasScore {
						score = 1.0
					}

					details := map[string]interface{}{"annotation": listKey}
					if len(categories) > 0 {
						details["categories"] = categories
					}
					tags = append(tags, timedtag.TimedTag{
						TimeStart:       start,
						TimeEnd:         end,
						TagType:         timedtag.TagLabel,
						Tag:             label,
						Score:           score,
						Details:         details,
						SourceExtractor: p.Extractor(),
					})
				}
			}
		}
	}
	return tags, nil
}
