package parsers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// GCP Video Intelligence wraps every insight under annotationResults. The
// helpers here decode that envelope and the two offset encodings the API
// emits: duration strings ("1.500s") and {seconds, nanos} objects.

func gcpAnnotationResults(raw json.RawMessage, extractor string) ([]map[string]interface{}, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, mismatch(extractor, "payload is not a JSON object")
	}
	results, ok := payload["annotationResults"].([]interface{})
	if !ok {
		return nil, mismatch(extractor, "missing annotationResults")
	}
	out := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		if m, ok := r.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// gcpOffsetSeconds interprets a single GCP time offset. Absent or
// unrecognized values yield 0, matching the API's habit of omitting zero
// offsets entirely.
func gcpOffsetSeconds(v interface{}) float64 {
	switch off := v.(type) {
	case string:
		sec, err := strconv.ParseFloat(strings.TrimSuffix(off, "s"), 64)
		if err != nil {
			return 0
		}
		return sec
	case map[string]interface{}:
		sec, _ := off["seconds"].(float64)
		nanos, _ := off["nanos"].(float64)
		return sec + nanos/1e9
	}
	return 0
}

// gcpSegmentInterval normalizes a {startTimeOffset, endTimeOffset} segment.
func gcpSegmentInterval(seg map[string]interface{}) (float64, float64, error) {
	return timedtag.NormalizeInterval(timedtag.Interval{
		Unit:  timedtag.UnitSeconds,
		Start: gcpOffsetSeconds(seg["startTimeOffset"]),
		End:   gcpOffsetSeconds(seg["endTimeOffset"]),
	})
}

// gcpEntityDescription pulls entity.description from an annotation.
func gcpEntityDescription(ann map[string]interface{}) string {
	entity, ok := ann["entity"].(map[string]interface{})
	if !ok {
		return ""
	}
	desc, _ := entity["description"].(string)
	return desc
}
