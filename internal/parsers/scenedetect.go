package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// SceneDetectParser handles the in-house scene-cut detector, which reports
// frame-indexed scene boundaries plus the source frame rate.
type SceneDetectParser struct{}

type sceneDetectPayload struct {
	FrameRate float64 `json:"frame_rate"`
	Scenes    []struct {
		StartFrame float64 `json:"start_frame"`
		EndFrame   float64 `json:"end_frame"`
	} `json:"scenes"`
}

func (p *SceneDetectParser) Extractor() string { return "scenedetect" }

func (p *SceneDetectParser) ResultKeys() []string { return []string{"scenes"} }

func (p *SceneDetectParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	var payload sceneDetectPayload
	if err := json.Unmarshal(raw["scenes"], &payload); err != nil {
		return nil, mismatch(p.Extractor(), "payload is not a JSON object")
	}
	if payload.Scenes == nil {
		return nil, mismatch(p.Extractor(), "missing scenes")
	}

	var tags []timedtag.TimedTag
	for i, s := range payload.Scenes {
		start, end, err := timedtag.NormalizeInterval(timedtag.Interval{
			Unit:      timedtag.UnitFrames,
			Start:     s.StartFrame,
			End:       s.EndFrame,
			FrameRate: payload.FrameRate,
		})
		if err != nil {
			return nil, err
		}
		tags = append(tags, timedtag.TimedTag{
			TimeStart:       start,
			TimeEnd:         end,
			TagType:         timedtag.TagShot,
			Tag:             "shot",
			Score:           1.0,
			Details:         map[string]interface{}{"shot_index": i},
			SourceExtractor: p.Extractor(),
		})
	}
	return tags, nil
}
