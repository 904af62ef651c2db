package parsers

import (
	"encoding/json"
	"strings"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// GCPExplicitParser handles GCP Video Intelligence explicit content
// annotation. The API scores per-frame likelihood as an enum rather than a
// number; the mapping below follows the enum's five-step ladder.
type GCPExplicitParser struct{}

var gcpLikelihoodScore = map[string]float64{
	"VERY_UNLIKELY": 0.1,
	"UNLIKELY":      0.25,
	"POSSIBLE":      0.5,
	"LIKELY":        0.75,
	"VERY_LIKELY":   0.95,
}

func (p *GCPExplicitParser) Extractor() string { return "gcp_videointelligence_explicit_content" }

func (p *GCPExplicitParser) ResultKeys() []string { return []string{"explicit_content"} }

func (p *GCPExplicitParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	results, err := gcpAnnotationResults(raw["explicit_content"], p.Extractor())
	if err != nil {
		return nil, err
	}

	var tags []timedtag.TimedTag
	for _, result := range results {
		ann, ok := result["explicitAnnotation"].(map[string]interface{})
		if !ok {
			continue
		}
		frames, _ := ann["frames"].([]interface{})
		for _, f := range frames {
			frame, ok := f.(map[string]interface{})
			if !ok {
				continue
			}
			likelihood, _ := frame["pornographyLikelihood"].(string)
			score, known := gcpLikelihoodScore[likelihood]
			if !known {
				continue
			}
			offset := gcpOffsetSeconds(frame["timeOffset"])
			start, end, err := timedtag.NormalizeInterval(timedtag.Interval{
				Unit: timedtag.UnitSeconds, Start: offset, End: offset,
			})
			if err != nil {
				return nil, err
			}
			tags = append(tags, timedtag.TimedTag{
				TimeStart:       start,
				TimeEnd:         end,
				TagType:         timedtag.TagModeration,
				Tag:             "explicit",
				Score:           score,
				Details:         map[string]interface{}{"likelihood": strings.ToLower(likelihood)},
				SourceExtractor: p.Extractor(),
			})
		}
	}
	return tags, nil
}
