package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// AzureVideoIndexerParser handles Azure Video Indexer results. A single
// payload carries many insight families; this parser emits labels, faces,
// transcript blocks, and keywords. Instances are timecoded "H:MM:SS.fff"
// strings and confidence may live on the insight or on each instance.
type AzureVideoIndexerParser struct{}

func (p *AzureVideoIndexerParser) Extractor() string { return "azure_videoindexer" }

func (p *AzureVideoIndexerParser) ResultKeys() []string { return []string{"videoindexer"} }

func (p *AzureVideoIndexerParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw["videoindexer"], &payload); err != nil {
		return nil, mismatch(p.Extractor(), "payload is not a JSON object")
	}
	videos, ok := payload["videos"].([]interface{})
	if !ok {
		return nil, mismatch(p.Extractor(), "missing videos")
	}

	var tags []timedtag.TimedTag
	for _, v := range videos {
		vm, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		insights, ok := vm["insights"].(map[string]interface{})
		if !ok {
			continue
		}

		families := []struct {
			key     string
			nameKey string
			tagType timedtag.TagType
		}{
			{"labels", "name", timedtag.TagLabel},
			{"faces", "name", timedtag.TagFace},
			{"keywords", "text", timedtag.TagKeyword},
			{"transcript", "text", timedtag.TagTranscript},
		}
		for _, fam := range families {
			items, _ := insights[fam.key].([]interface{})
			for _, item := range items {
				im, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				name, _ := im[fam.nameKey].(string)
				if name == "" {
					continue
				}
				itemConf, hasItemConf := im["confidence"].(float64)

				instances, _ := im["instances"].([]interface{})
				for _, inst := range instances {
					instm, ok := inst.(map[string]interface{})
					if !ok {
						continue
					}
					startTC, _ := instm["start"].(string)
					endTC, _ := instm["end"].(string)
					start, end, err := timedtag.NormalizeInterval(timedtag.Interval{
						Unit:          timedtag.UnitTimecode,
						StartTimecode: startTC,
						EndTimecode:   endTC,
					})
					if err != nil {
						return nil, err
					}

					score := 1.0
					if c, ok := instm["confidence"].(float64); ok {
						score = c
					} else if hasItemConf {
						score = itemConf
					}

					details := map[string]interface{}{"insight": fam.key}
					if fam.tagType == timedtag.TagTranscript {
						if speaker, ok := im["speakerId"]; ok {
							details["speaker_id"] = speaker
						}
					}
					tags = append(tags, timedtag.TimedTag{
						TimeStart:       start,
						TimeEnd:         end,
						TagType:         fam.tagType,
						Tag:             name,
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
