package parsers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

func payload(key, body string) map[string]json.RawMessage {
	return map[string]json.RawMessage{key: json.RawMessage(body)}
}

func TestGCPLabelParser(t *testing.T) {
	p := &GCPLabelParser{}
	raw := payload("label", `{
		"annotationResults": [{
			"segmentLabelAnnotations": [{
				"entity": {"description": "Car"},
				"categoryEntities": [{"description": "Vehicle"}],
				"segments": [
					{"segment": {"startTimeOffset": "1.500s", "endTimeOffset": "3.200s"}, "confidence": 0.87}
				]
			}]
		}]
	}`)

	tags, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, 1.5, tags[0].TimeStart)
	assert.Equal(t, 3.2, tags[0].TimeEnd)
	assert.Equal(t, timedtag.TagLabel, tags[0].TagType)
	assert.Equal(t, "Car", tags[0].Tag)
	assert.Equal(t, 0.87, tags[0].Score)
	assert.Equal(t, []string{"Vehicle"}, tags[0].Details["categories"])
	assert.Equal(t, "gcp_videointelligence_label", tags[0].SourceExtractor)
}

func TestGCPShotChangeParserObjectOffsets(t *testing.T) {
	p := &GCPShotChangeParser{}
	raw := payload("shot", `{
		"annotationResults": [{
			"shotAnnotations": [
				{"startTimeOffset": {"seconds": 0}, "endTimeOffset": {"seconds": 2, "nanos": 500000000}},
				{"startTimeOffset": {"seconds": 2, "nanos": 500000000}, "endTimeOffset": {"seconds": 5}}
			]
		}]
	}`)

	tags, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, 0.0, tags[0].TimeStart)
	assert.Equal(t, 2.5, tags[0].TimeEnd)
	assert.Equal(t, timedtag.TagShot, tags[0].TagType)
	assert.Equal(t, 2.5, tags[1].TimeStart)
	assert.Equal(t, 5.0, tags[1].TimeEnd)
}

func TestGCPSpeechParser(t *testing.T) {
	p := &GCPSpeechParser{}
	raw := payload("speech_transcription", `{
		"annotationResults": [{
			"speechTranscriptions": [{
				"alternatives": [{
					"transcript": "hello there",
					"confidence": 0.92,
					"words": [
						{"startTime": "0.100s", "endTime": "0.500s", "word": "hello"},
						{"startTime": "0.500s", "endTime": "1.200s", "word": "there"}
					]
				}]
			}]
		}]
	}`)

	tags, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, 0.1, tags[0].TimeStart)
	assert.Equal(t, 1.2, tags[0].TimeEnd)
	assert.Equal(t, timedtag.TagTranscript, tags[0].TagType)
	assert.Equal(t, "hello there", tags[0].Tag)
	assert.Equal(t, 0.92, tags[0].Score)
}

func TestAWSLabelsParser(t *testing.T) {
	p := &AWSLabelsParser{}
	raw := payload("labels", `{
		"Labels": [
			{"Timestamp": 1500, "Label": {"Name": "Dog", "Confidence": 87.0, "Parents": [{"Name": "Animal"}]}}
		]
	}`)

	tags, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, 1.5, tags[0].TimeStart)
	assert.Equal(t, 1.5, tags[0].TimeEnd)
	assert.Equal(t, "Dog", tags[0].Tag)
	// Raw vendor scale is preserved here; the normalizer rescales.
	assert.Equal(t, 87.0, tags[0].Score)
	assert.Equal(t, []string{"Animal"}, tags[0].Details["parents"])
}

func TestAWSModerationParserHierarchy(t *testing.T) {
	p := &AWSModerationParser{}
	raw := payload("content_moderation", `{
		"ModerationLabels": [
			{"Timestamp": 2000, "ModerationLabel": {"Name": "Violence", "ParentName": "Graphic Content", "Confidence": 75.0}}
		]
	}`)

	tags, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Graphic Content > Violence", tags[0].Tag)
	assert.Equal(t, timedtag.TagModeration, tags[0].TagType)
}

func TestAWSSegmentsParserTechnicalCue(t *testing.T) {
	p := &AWSSegmentsParser{}
	raw := payload("segments", `{
		"Segments": [
			{"Type": "SHOT", "StartTimestampMillis": 0, "EndTimestampMillis": 2000, "ShotSegment": {"Index": 0, "Confidence": 99.5}},
			{"Type": "TECHNICAL_CUE", "StartTimestampMillis": 2000, "EndTimestampMillis": 4000, "TechnicalCueSegment": {"Type": "EndCredits", "Confidence": 90.0}}
		]
	}`)

	tags, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "shot", tags[0].Tag)
	assert.Equal(t, "endcredits", tags[1].Tag)
	assert.Equal(t, timedtag.TagShot, tags[1].TagType)
}

func TestAzureVideoIndexerParser(t *testing.T) {
	p := &AzureVideoIndexerParser{}
	raw := payload("videoindexer", `{
		"videos": [{
			"insights": {
				"labels": [{
					"name": "outdoor",
					"confidence": 0.9,
					"instances": [{"start": "0:00:01.2", "end": "0:00:04"}]
				}],
				"transcript": [{
					"text": "welcome back",
					"confidence": 0.85,
					"speakerId": 1,
					"instances": [{"start": "0:00:02", "end": "0:00:03.5"}]
				}]
			}
		}]
	}`)

	tags, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	byType := map[timedtag.TagType]timedtag.TimedTag{}
	for _, tag := range tags {
		byType[tag.TagType] = tag
	}
	label := byType[timedtag.TagLabel]
	assert.Equal(t, 1.2, label.TimeStart)
	assert.Equal(t, 4.0, label.TimeEnd)
	assert.Equal(t, 0.9, label.Score)

	transcript := byType[timedtag.TagTranscript]
	assert.Equal(t, "welcome back", transcript.Tag)
	assert.Equal(t, float64(1), transcript.Details["speaker_id"])
}

func TestSceneDetectParserFrames(t *testing.T) {
	p := &SceneDetectParser{}
	raw := payload("scenes", `{
		"frame_rate": 30,
		"scenes": [{"start_frame": 30, "end_frame": 90}]
	}`)

	tags, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, 1.0, tags[0].TimeStart)
	assert.Equal(t, 3.0, tags[0].TimeEnd)
}

func TestSceneDetectParserBadFrameRate(t *testing.T) {
	p := &SceneDetectParser{}
	raw := payload("scenes", `{"frame_rate": 0, "scenes": [{"start_frame": 0, "end_frame": 10}]}`)

	_, err := p.Parse(raw)
	var rateErr *timedtag.InvalidFrameRateError
	require.ErrorAs(t, err, &rateErr)
}

func TestParsersEmptyPayloadIsNotAnError(t *testing.T) {
	cases := []struct {
		parser Parser
		raw    map[string]json.RawMessage
	}{
		{&GCPLabelParser{}, payload("label", `{"annotationResults": []}`)},
		{&AWSLabelsParser{}, payload("labels", `{"Labels": []}`)},
		{&AzureVideoIndexerParser{}, payload("videoindexer", `{"videos": []}`)},
		{&SceneDetectParser{}, payload("scenes", `{"frame_rate": 30, "scenes": []}`)},
		{&MusicGenreParser{}, payload("music_genre", `{"segments": []}`)},
	}
	for _, tc := range cases {
		tags, err := tc.parser.Parse(tc.raw)
		require.NoError(t, err, tc.parser.Extractor())
		assert.Empty(t, tags, tc.parser.Extractor())
	}
}

func TestParsersSchemaMismatch(t *testing.T) {
	cases := []struct {
		parser Parser
		raw    map[string]json.RawMessage
	}{
		{&GCPLabelParser{}, payload("label", `{"somethingElse": true}`)},
		{&AWSLabelsParser{}, payload("labels", `{"Detections": []}`)},
		{&AWSModerationParser{}, payload("content_moderation", `[1, 2, 3]`)},
		{&AzureVideoIndexerParser{}, payload("videoindexer", `{"version": 2}`)},
	}
	for _, tc := range cases {
		_, err := tc.parser.Parse(tc.raw)
		var mismatchErr *timedtag.SchemaMismatchError
		require.ErrorAs(t, err, &mismatchErr, tc.parser.Extractor())
		assert.Equal(t, tc.parser.Extractor(), mismatchErr.Extractor)
	}
}

func TestParsersMissingConfidenceDefaultsToOne(t *testing.T) {
	cases := []struct {
		parser Parser
		raw    map[string]json.RawMessage
	}{
		{&GCPLabelParser{}, payload("label", `{
			"annotationResults": [{
				"segmentLabelAnnotations": [{
					"entity": {"description": "Car"},
					"segments": [{"segment": {"startTimeOffset": "1s", "endTimeOffset": "3s"}}]
				}]
			}]
		}`)},
		{&AWSLabelsParser{}, payload("labels", `{
			"Labels": [{"Timestamp": 1000, "Label": {"Name": "Dog"}}]
		}`)},
		{&AWSModerationParser{}, payload("content_moderation", `{
			"ModerationLabels": [{"Timestamp": 1000, "ModerationLabel": {"Name": "Violence"}}]
		}`)},
		{&AWSCelebritiesParser{}, payload("celebs", `{
			"Celebrities": [{"Timestamp": 1000, "Celebrity": {"Name": "Somebody"}}]
		}`)},
		{&AWSFacesParser{}, payload("faces", `{
			"Faces": [{"Timestamp": 1000, "Face": {}}]
		}`)},
		{&AWSTextDetectParser{}, payload("text_detect", `{
			"TextDetections": [{"Timestamp": 1000, "TextDetection": {"DetectedText": "EXIT", "Type": "LINE"}}]
		}`)},
		{&AWSSegmentsParser{}, payload("segments", `{
			"Segments": [{"Type": "SHOT", "StartTimestampMillis": 0, "EndTimestampMillis": 1000, "ShotSegment": {"Index": 0}}]
		}`)},
		{&ActivityClassifierParser{}, payload("activity", `{
			"clips": [{"start_frame": 0, "end_frame": 30, "frame_rate": 30, "labels": [{"label": "sports"}]}]
		}`)},
		{&MusicGenreParser{}, payload("music_genre", `{
			"segments": [{"start_ms": 0, "end_ms": 1000, "genres": [{"genre": "jazz"}]}]
		}`)},
	}
	for _, tc := range cases {
		tags, err := tc.parser.Parse(tc.raw)
		require.NoError(t, err, tc.parser.Extractor())
		require.Len(t, tags, 1, tc.parser.Extractor())
		assert.Equal(t, 1.0, tags[0].Score, tc.parser.Extractor())
	}
}

func TestParsersExplicitZeroConfidenceKept(t *testing.T) {
	p := &AWSLabelsParser{}
	raw := payload("labels", `{
		"Labels": [{"Timestamp": 1000, "Label": {"Name": "Dog", "Confidence": 0}}]
	}`)
	tags, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, 0.0, tags[0].Score)
}

func TestParserDeterminism(t *testing.T) {
	p := &GCPLabelParser{}
	raw := payload("label", `{
		"annotationResults": [{
			"segmentLabelAnnotations": [{
				"entity": {"description": "Boat"},
				"segments": [{"segment": {"startTimeOffset": "0s", "endTimeOffset": "4s"}, "confidence": 0.5}]
			}]
		}]
	}`)

	first, err := p.Parse(raw)
	require.NoError(t, err)
	second, err := p.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRegistry(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Extractor(), all[i].Extractor(), "registry order must be stable")
	}

	p, ok := ByExtractor("gcp_videointelligence_label")
	require.True(t, ok)
	assert.Equal(t, []string{"label"}, p.ResultKeys())

	_, ok = ByExtractor("nope")
	assert.False(t, ok)

	applicable := Applicable(payload("label", `{}`))
	require.Len(t, applicable, 1)
	assert.Equal(t, "gcp_videointelligence_label", applicable[0].Extractor())
}
