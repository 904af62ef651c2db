package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// MusicGenreParser handles the in-house audio music-genre classifier, which
// scores genres per millisecond-offset segment.
type MusicGenreParser struct{}

type musicGenrePayload struct {
	Segments []struct {
		StartMs float64 `json:"start_ms"`
		EndMs   float64 `json:"end_ms"`
		Genres  []struct {
			Genre      string   `json:"genre"`
			Confidence *float64 `json:"confidence"`
		} `json:"genres"`
	} `json:"segments"`
}

func (p *MusicGenreParser) Extractor() string { return "dsai_music_genre" }

func (p *MusicGenreParser) ResultKeys() []string { return []string{"music_genre"} }

func (p *MusicGenreParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	var payload musicGenrePayload
	if err := json.Unmarshal(raw["music_genre"], &payload); err != nil {
		return nil, mismatch(p.Extractor(), "payload is not a JSON object")
	}
	if payload.Segments == nil {
		return nil, mismatch(p.Extractor(), "missing segments")
	}

	var tags []timedtag.TimedTag
	for _, seg := range payload.Segments {
		start, end, err := timedtag.NormalizeInterval(timedtag.Interval{
			Unit: timedtag.UnitMilliseconds, Start: seg.StartMs, End: seg.EndMs,
		})
		if err != nil {
			return nil, err
		}
		for _, g := range seg.Genres {
			if g.Genre == "" {
				continue
			}
			tags = append(tags, timedtag.TimedTag{
				TimeStart:       start,
				TimeEnd:         end,
				TagType:         timedtag.TagLabel,
				Tag:             g.Genre,
				Score:           scoreOrDefault(g.Confidence),
				Details:         map[string]interface{}{"classifier": "music_genre"},
				SourceExtractor: p.Extractor(),
			})
		}
	}
	return tags, nil
}
