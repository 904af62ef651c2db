package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// GCPLogoParser handles GCP Video Intelligence logo recognition. Each track
// of a recognized logo entity becomes one logo tag.
type GCPLogoParser struct{}

func (p *GCPLogoParser) Extractor() string { return "gcp_videointelligence_logo_recognition" }

func (p *GCPLogoParser) ResultKeys() []string { return []string{"logo_recognition"} }

func (p *GCPLogoParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	results, err := gcpAnnotationResults(raw["logo_recognition"], p.Extractor())
	if err != nil {
		return nil, err
	}

	var tags []timedtag.TimedTag
	for _, result := range results {
		anns, _ := result["logoRecognitionAnnotations"].([]interface{})
		for _, a := range anns {
			ann, ok := a.(map[string]interface{})
			if !ok {
				continue
			}
			logo := gcpEntityDescription(ann)
			if logo == "" {
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
				tags = append(tags, timedtag.TimedTag{
					TimeStart:       start,
					TimeEnd:         end,
					TagType:         timedtag.TagLogo,
					Tag:             logo,
					Score:           score,
					SourceExtractor: p.Extractor(),
				})
			}
		}
	}
	return tags, nil
}
