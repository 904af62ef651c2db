package parsers

import (
	"encoding/json"
	"fmt"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// GCPShotChangeParser handles GCP Video Intelligence shot change detection.
type GCPShotChangeParser struct{}

func (p *GCPShotChangeParser) Extractor() string { return "gcp_videointelligence_shot_change" }

func (p *GCPShotChangeParser) ResultKeys() []string { return []string{"shot"} }

func (p *GCPShotChangeParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	results, err := gcpAnnotationResults(raw["shot"], p.Extractor())
	if err != nil {
		return nil, err
	}

	var tags []timedtag.TimedTag
	for _, result := range results {
		shots, _ := result["shotAnnotations"].([]interface{})
		for i, s := range shots {
			seg, ok := s.(map[string]interface{})
			if !ok {
				continue
			}
			start, end, err := gcpSegmentInterval(seg)
			if err != nil {
				return nil, err
			}
			tags = append(tags, timedtag.TimedTag{
				TimeStart:       start,
				TimeEnd:         end,
				TagType:         timedtag.TagShot,
				Tag:             "shot",
				Score:           1.0,
				Details:         map[string]interface{}{"shot_index": fmt.Sprintf("%d", i)},
				SourceExtractor: p.Extractor(),
			})
		}
	}
	return tags, nil
}
