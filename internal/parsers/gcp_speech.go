package parsers

import (
	"encoding/json"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// GCPSpeechParser handles GCP Video Intelligence speech transcription. Each
// transcription's best alternative becomes one transcript tag spanning its
// word timings; individual words are kept in details for consumers that
// need word-level alignment.
type GCPSpeechParser struct{}

func (p *GCPSpeechParser) Extractor() string { return "gcp_videointelligence_speech_transcription" }

func (p *GCPSpeechParser) ResultKeys() []string { return []string{"speech_transcription"} }

func (p *GCPSpeechParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	results, err := gcpAnnotationResults(raw["speech_transcription"], p.Extractor())
	if err != nil {
		return nil, err
	}

	var tags []timedtag.TimedTag
	for _, result := range results {
		transcriptions, _ := result["speechTranscriptions"].([]interface{})
		for _, t := range transcriptions {
			tm, ok := t.(map[string]interface{})
			if !ok {
				continue
			}
			alts, _ := tm["alternatives"].([]interface{})
			if len(alts) == 0 {
				continue
			}
			// The API orders alternatives by confidence; take the first.
			alt, ok := alts[0].(map[string]interface{})
			if !ok {
				continue
			}
			text, _ := alt["transcript"].(string)
			if text == "" {
				continue
			}
			confidence, hasConf := alt["confidence"].(float64)
			if !hasConf {
				confidence = 1.0
			}

			words, _ := alt["words"].([]interface{})
			var wordStart, wordEnd float64
			var wordDetails []interface{}
			for i, w := range words {
				wm, ok := w.(map[string]interface{})
				if !ok {
					continue
				}
				s := gcpOffsetSeconds(wm["startTime"])
				e := gcpOffsetSeconds(wm["endTime"])
				if i == 0 {
					wordStart = s
				}
				if e > wordEnd {
					wordEnd = e
				}
				word, _ := wm["word"].(string)
				wordDetails = append(wordDetails, map[string]interface{}{
					"word": word, "start": s, "end": e,
				})
			}
			if len(words) == 0 {
				// No word timings means no usable interval for this block.
				continue
			}

			start, end, err := timedtag.NormalizeInterval(timedtag.Interval{
				Unit: timedtag.UnitSeconds, Start: wordStart, End: wordEnd,
			})
			if err != nil {
				return nil, err
			}
			tags = append(tags, timedtag.TimedTag{
				TimeStart:       start,
				TimeEnd:         end,
				TagType:         timedtag.TagTranscript,
				Tag:             text,
				Score:           confidence,
				Details:         map[string]interface{}{"words": wordDetails},
				SourceExtractor: p.Extractor(),
			})
		}
	}
	return tags, nil
}
