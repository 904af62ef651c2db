package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/parsers"
	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

const gcpLabelPayload = `{
	"annotationResults": [{
		"segmentLabelAnnotations": [{
			"entity": {"description": "Car"},
			"segments": [{"segment": {"startTimeOffset": "1s", "endTimeOffset": "3s"}, "confidence": 0.87}]
		}]
	}]
}`

func rawResults(pairs map[string]string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(pairs))
	for k, v := range pairs {
		out[k] = json.RawMessage(v)
	}
	return out
}

func TestRunHappyPath(t *testing.T) {
	outDir := t.TempDir()
	driver := NewDriver(Options{})

	raw := rawResults(map[string]string{
		"label":  gcpLabelPayload,
		"scenes": `{"frame_rate": 30, "scenes": [{"start_frame": 0, "end_frame": 60}]}`,
		"sonar":  `{"pings": []}`,
	})

	manifest, state, err := driver.Run(context.Background(), "asset-1", raw, outDir)
	require.NoError(t, err)
	assert.Equal(t, StateDone, state)

	assert.Equal(t, "asset-1", manifest.AssetID)
	assert.NotEmpty(t, manifest.RunID)
	assert.Equal(t, []string{"gcp_videointelligence_label", "scenedetect"}, manifest.ParsersRun)
	assert.Contains(t, manifest.ParsersSkipped, "aws_rekognition_video_labels")
	assert.Empty(t, manifest.ParsersFailed)
	assert.Equal(t, []string{"sonar"}, manifest.UnparsedKeys)
	assert.Equal(t, 2, manifest.TagCount)

	for _, name := range []string{"flat.csv", "compact.json", "manifest.json"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "compact.json"))
	require.NoError(t, err)
	var compact struct {
		AssetID string `json:"asset_id"`
		Windows []struct {
			TimeStart float64                      `json:"time_start"`
			TimeEnd   float64                      `json:"time_end"`
			Types     map[string][]json.RawMessage `json:"types"`
		} `json:"windows"`
	}
	require.NoError(t, json.Unmarshal(data, &compact))
	assert.Equal(t, "asset-1", compact.AssetID)
	// [0,2] shot and [1,3] label overlap into one window.
	require.Len(t, compact.Windows, 1)
	assert.Equal(t, 0.0, compact.Windows[0].TimeStart)
	assert.Equal(t, 3.0, compact.Windows[0].TimeEnd)
	assert.Contains(t, compact.Windows[0].Types, "label")
	assert.Contains(t, compact.Windows[0].Types, "shot")
}

func TestRunPartialFailureIsolation(t *testing.T) {
	outDir := t.TempDir()
	driver := NewDriver(Options{})

	raw := rawResults(map[string]string{
		"label":  gcpLabelPayload,
		"labels": `{"WrongShape": true}`, // aws parser sees a schema mismatch
	})

	manifest, state, err := driver.Run(context.Background(), "asset-2", raw, outDir)
	require.NoError(t, err)
	assert.Equal(t, StateDone, state)

	assert.Equal(t, []string{"gcp_videointelligence_label"}, manifest.ParsersRun)
	require.Len(t, manifest.ParsersFailed, 1)
	assert.Equal(t, "aws_rekognition_video_labels", manifest.ParsersFailed[0].Name)
	assert.NotEmpty(t, manifest.ParsersFailed[0].Reason)
	assert.Equal(t, 1, manifest.TagCount)
}

// badTypeParser emits a tag type outside the closed set, standing in for a
// parser hit by vendor schema drift.
type badTypeParser struct{}

func (p *badTypeParser) Extractor() string    { return "drift_vendor" }
func (p *badTypeParser) ResultKeys() []string { return []string{"drift"} }
func (p *badTypeParser) Parse(raw map[string]json.RawMessage) ([]timedtag.TimedTag, error) {
	return []timedtag.TimedTag{{
		TimeStart: 0, TimeEnd: 1,
		TagType: timedtag.TagType("bogus"), Tag: "x", Score: 0.5,
		SourceExtractor: p.Extractor(),
	}}, nil
}

func TestRunUnknownTagTypeFailsWithNoExports(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "exports")
	driver := NewDriver(Options{Registry: []parsers.Parser{&badTypeParser{}}})

	_, state, err := driver.Run(context.Background(), "asset-3",
		rawResults(map[string]string{"drift": `{}`}), outDir)

	require.Error(t, err)
	assert.Equal(t, StateFailed, state)
	var unknownErr *timedtag.UnknownTagTypeError
	assert.ErrorAs(t, err, &unknownErr)
	assert.ErrorContains(t, err, "asset-3")
	assert.ErrorContains(t, err, "drift_vendor")

	// No artifact was published.
	_, statErr := os.Stat(filepath.Join(outDir, "flat.csv"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(outDir, "compact.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunExportFailurePublishesNothing(t *testing.T) {
	outDir := t.TempDir()
	// Occupy the compact artifact's path with a directory so its rename
	// fails after flat.csv has already been staged and renamed.
	require.NoError(t, os.MkdirAll(filepath.Join(outDir, "compact.json"), 0o755))

	driver := NewDriver(Options{})
	_, state, err := driver.Run(context.Background(), "asset-7",
		rawResults(map[string]string{"label": gcpLabelPayload}), outDir)

	require.Error(t, err)
	assert.Equal(t, StateFailed, state)
	var exportErr *timedtag.ExportWriteError
	assert.ErrorAs(t, err, &exportErr)

	_, statErr := os.Stat(filepath.Join(outDir, "flat.csv"))
	assert.True(t, os.IsNotExist(statErr), "flat.csv must be rolled back")
	_, statErr = os.Stat(filepath.Join(outDir, "manifest.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunDisabledParserSkipped(t *testing.T) {
	driver := NewDriver(Options{DisabledParsers: []string{"gcp_videointelligence_label"}})

	manifest, state, err := driver.Run(context.Background(), "asset-4",
		rawResults(map[string]string{"label": gcpLabelPayload}), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, StateDone, state)
	assert.Empty(t, manifest.ParsersRun)
	assert.Contains(t, manifest.ParsersSkipped, "gcp_videointelligence_label")
	assert.Equal(t, 0, manifest.TagCount)
}

func TestRunCancelled(t *testing.T) {
	driver := NewDriver(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, state, err := driver.Run(ctx, "asset-5",
		rawResults(map[string]string{"label": gcpLabelPayload}), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, StateFailed, state)
}

func TestRunDeterministicExports(t *testing.T) {
	raw := rawResults(map[string]string{
		"label":  gcpLabelPayload,
		"scenes": `{"frame_rate": 30, "scenes": [{"start_frame": 0, "end_frame": 60}]}`,
	})
	driver := NewDriver(Options{})

	dirA, dirB := t.TempDir(), t.TempDir()
	_, _, err := driver.Run(context.Background(), "asset-6", raw, dirA)
	require.NoError(t, err)
	_, _, err = driver.Run(context.Background(), "asset-6", raw, dirB)
	require.NoError(t, err)

	for _, name := range []string{"flat.csv", "compact.json"} {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, name)
	}
}
