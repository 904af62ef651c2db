package aggregate

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// CompactExport is the time-window-grouped view consumed by the timeline
// UI: coalesced windows, each grouping its tags by type with the most
// confident entries first.
type CompactExport struct {
	AssetID string   `json:"asset_id,omitempty"`
	Windows []Window `json:"windows"`
}

// Window is one coalesced span of the timeline.
type Window struct {
	TimeStart float64                  `json:"time_start"`
	TimeEnd   float64                  `json:"time_end"`
	Types     map[string][]WindowEntry `json:"types"`
}

// WindowEntry is one detection inside a window.
type WindowEntry struct {
	Tag             string  `json:"tag"`
	Score           float64 `json:"score"`
	SourceExtractor string  `json:"source_extractor"`
}

// Compact builds the windowed view. Tags whose intervals overlap, or whose
// gap is at most gapSec, merge into one window; with the default gapSec of 0
// only true overlaps merge. Within a window, entries per tag type are
// distinct and sorted by score descending then tag ascending.
func Compact(r Result, gapSec float64) CompactExport {
	export := CompactExport{Windows: []Window{}}
	if len(r.tags) == 0 {
		return export
	}

	// r.tags is already sorted by start time, so windows form greedily.
	var members []timedtag.TimedTag
	winStart, winEnd := r.tags[0].TimeStart, r.tags[0].TimeEnd
	flush := func() {
		export.Windows = append(export.Windows, buildWindow(winStart, winEnd, members))
		members = nil
	}
	for _, t := range r.tags {
		if members != nil && t.TimeStart > winEnd+gapSec {
			flush()
			winStart, winEnd = t.TimeStart, t.TimeEnd
		}
		members = append(members, t)
		if t.TimeEnd > winEnd {
			winEnd = t.TimeEnd
		}
	}
	flush()
	return export
}

func buildWindow(start, end float64, members []timedtag.TimedTag) Window {
	w := Window{TimeStart: start, TimeEnd: end, Types: make(map[string][]WindowEntry)}
	seen := make(map[string]bool)
	for _, t := range members {
		entry := WindowEntry{Tag: t.Tag, Score: t.Score, SourceExtractor: t.SourceExtractor}
		key := string(t.TagType) + "|" + entry.Tag + "|" + entry.SourceExtractor + "|" +
			strconv.FormatFloat(entry.Score, 'f', -1, 64)
		if seen[key] {
			continue
		}
		seen[key] = true
		w.Types[string(t.TagType)] = append(w.Types[string(t.TagType)], entry)
	}
	for tagType := range w.Types {
		entries := w.Types[tagType]
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Score != entries[j].Score {
				return entries[i].Score > entries[j].Score
			}
			return entries[i].Tag < entries[j].Tag
		})
	}
	return w
}

// WriteCompact serializes the compact view as indented JSON.
func WriteCompact(w io.Writer, export CompactExport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}
