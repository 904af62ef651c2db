package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// ActivityClassifierParser handles the in-house clip activity classifier.
// Clips are frame-indexed windows, each carrying a ranked list of activity
// labels scored 0-100 as hierarchical paths ("sports > basketball"); the
// normalizer flattens the path and rescales the score.
type ActivityClassifierParser struct{}

type activityPayload struct {
	Clips []struct {
		StartFrame float64 `json:"start_frame"`
		EndFrame   float64 `json:"end_frame"`
		FrameRate  float64 `json:"frame_rate"`
		Labels     []struct {
			Label string   `json:"label"`
			Score *float64 `json:"score"`
		} `json:"labels"`
	} `json:"clips"`
}

func (p *ActivityClassifierParser) Extractor() string { return "dsai_activity_classifier" }

func (p *ActivityClassifierParser) ResultKeys() []string { return []string{"activity"} }

func (p *ActivityClassifierParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	var payload activityPayload
	if err := json.Unmarshal(raw["activity"], &payload); err != nil {
		return nil, mismatch(p.Extractor(), "payload is not a JSON object")
	}
	if payload.Clips == nil {
		return nil, mismatch(p.Extractor(), "missing clips")
	}

	var tags []timedtag.TimedTag
	for _, clip := range payload.Clips {
		start, end, err := timedtag.NormalizeInterval(timedtag.Interval{
			Unit:      timedtag.UnitFrames,
			Start:     clip.StartFrame,
			End:       clip.EndFrame,
			FrameRate: clip.FrameRate,
		})
		if err != nil {
			return nil, err
		}
		for _, l := range clip.Labels {
			if l.Label == "" {
				continue
			}
			tags = append(tags, timedtag.TimedTag{
				TimeStart:       start,
				TimeEnd:         end,
				TagType:         timedtag.TagLabel,
				Tag:             l.Label,
				Score:           scoreOrDefault(l.Score),
				Details:         map[string]interface{}{"classifier": "activity"},
				SourceExtractor: p.Extractor(),
			})
		}
	}
	return tags, nil
}
