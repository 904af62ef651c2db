package aggregate

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// FlatColumns is the fixed leading column set of the flat export. Flattened
// detail keys follow as extra columns, but only keys that are non-empty
// somewhere in the set, so a sparse vendor field never produces an all-empty
// column.
var FlatColumns = []string{"time_start", "time_end", "tag_type", "tag", "score", "source_extractor"}

// WriteFlat serializes the result as a CSV table, header first.
func WriteFlat(w io.Writer, r Result) error {
	detailKeys := collectDetailKeys(r.tags)

	cw := csv.NewWriter(w)
	header := append(append([]string{}, FlatColumns...), detailKeys...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, t := range r.tags {
		row := []string{
			formatTime(t.TimeStart),
			formatTime(t.TimeEnd),
			string(t.TagType),
			t.Tag,
			strconv.FormatFloat(t.Score, 'f', -1, 64),
			t.SourceExtractor,
		}
		for _, k := range detailKeys {
			row = append(row, detailCell(t.Details[k]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseFlatRow rebuilds the fixed columns of a flat export row. Used by
// consumers (and tests) that need column-level fidelity with the source
// result; detail columns are not reconstructed.
func ParseFlatRow(row []string) (timedtag.TimedTag, error) {
	if len(row) < len(FlatColumns) {
		return timedtag.TimedTag{}, fmt.Errorf("flat row has %d columns, want at least %d", len(row), len(FlatColumns))
	}
	start, err := strconv.ParseFloat(row[0], 64)
	if err != nil {
		return timedtag.TimedTag{}, fmt.Errorf("parsing time_start: %w", err)
	}
	end, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return timedtag.TimedTag{}, fmt.Errorf("parsing time_end: %w", err)
	}
	score, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return timedtag.TimedTag{}, fmt.Errorf("parsing score: %w", err)
	}
	return timedtag.TimedTag{
		TimeStart:       start,
		TimeEnd:         end,
		TagType:         timedtag.TagType(row[2]),
		Tag:             row[3],
		Score:           score,
		SourceExtractor: row[5],
	}, nil
}

func formatTime(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// detailCell renders one detail value for CSV. Strings pass through;
// structured values serialize as JSON so nothing is lost.
func detailCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}

func collectDetailKeys(tags []timedtag.TimedTag) []string {
	seen := make(map[string]bool)
	for _, t := range tags {
		for k, v := range t.Details {
			if v != nil && detailCell(v) != "" {
				seen[k] = true
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
