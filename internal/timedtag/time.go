package timedtag

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Unit identifies how a vendor expressed an interval's endpoints.
type Unit string

const (
	// UnitSeconds means Start/End are already float seconds.
	UnitSeconds Unit = "seconds"
	// UnitMilliseconds means Start/End are millisecond offsets.
	UnitMilliseconds Unit = "milliseconds"
	// UnitFrames means Start/End are frame indices; FrameRate is required.
	UnitFrames Unit = "frames"
	// UnitTimecode means StartTimecode/EndTimecode carry HH:MM:SS.mmm or
	// HH:MM:SS;FF text; the frame-field form requires FrameRate.
	UnitTimecode Unit = "timecode"
)

// Interval is a raw vendor interval plus the hints needed to interpret it.
// For instantaneous events set End equal to Start (or EndTimecode equal to
// StartTimecode).
type Interval struct {
	Unit          Unit
	Start         float64
	End           float64
	StartTimecode string
	EndTimecode   string
	FrameRate     float64
}

var timeLog = logrus.WithField("component", "timedtag")

// NormalizeInterval converts a raw vendor interval into canonical
// (start, end) float seconds. Output is non-negative and ordered; small
// negative vendor offsets are clamped to zero with a warning rather than
// rejected, since several extractors emit them from rounding.
func NormalizeInterval(iv Interval) (float64, float64, error) {
	var start, end float64

	switch iv.Unit {
	case UnitSeconds:
		start, end = iv.Start, iv.End
	case UnitMilliseconds:
		start, end = iv.Start/1000.0, iv.End/1000.0
	case UnitFrames:
		if iv.FrameRate <= 0 {
			return 0, 0, &InvalidFrameRateError{FrameRate: iv.FrameRate}
		}
		start, end = iv.Start/iv.FrameRate, iv.End/iv.FrameRate
	case UnitTimecode:
		var err error
		start, err = parseTimecode(iv.StartTimecode, iv.FrameRate)
		if err != nil {
			return 0, 0, err
		}
		end, err = parseTimecode(iv.EndTimecode, iv.FrameRate)
		if err != nil {
			return 0, 0, err
		}
	default:
		return 0, 0, &TimeFormatError{Unit: iv.Unit, Reason: "unrecognized unit hint"}
	}

	if start < 0 {
		timeLog.WithField("time_start", start).Warn("negative start offset clamped to 0")
		start = 0
	}
	if end < 0 {
		timeLog.WithField("time_end", end).Warn("negative end offset clamped to 0")
		end = 0
	}
	if end < start {
		return 0, 0, &TimeFormatError{
			Unit:   iv.Unit,
			Reason: fmt.Sprintf("end %g precedes start %g", end, start),
		}
	}
	return RoundTime(start), RoundTime(end), nil
}

// RoundTime rounds to 4 decimal places so repeated runs over the same input
// serialize identically.
func RoundTime(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// parseTimecode handles the two SMPTE-like forms seen in vendor payloads:
// HH:MM:SS(.mmm) and HH:MM:SS:FF / HH:MM:SS;FF (frame field, needs a rate).
// Hour fields may be one or two digits (Azure emits "0:01:12.4").
func parseTimecode(tc string, frameRate float64) (float64, error) {
	tc = strings.TrimSpace(tc)
	if tc == "" {
		return 0, &TimeFormatError{Unit: UnitTimecode, Reason: "empty timecode"}
	}

	// Split off a trailing frame field if present.
	var frameField string
	if i := strings.LastIndexAny(tc, ";"); i >= 0 {
		frameField = tc[i+1:]
		tc = tc[:i]
	} else if parts := strings.Split(tc, ":"); len(parts) == 4 {
		frameField = parts[3]
		tc = strings.Join(parts[:3], ":")
	}

	parts := strings.Split(tc, ":")
	if len(parts) != 3 {
		return 0, &TimeFormatError{Unit: UnitTimecode, Reason: fmt.Sprintf("malformed timecode %q", tc)}
	}
	hours, err1 := strconv.ParseFloat(parts[0], 64)
	minutes, err2 := strconv.ParseFloat(parts[1], 64)
	seconds, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, &TimeFormatError{Unit: UnitTimecode, Reason: fmt.Sprintf("malformed timecode %q", tc)}
	}
	total := hours*3600 + minutes*60 + seconds

	if frameField != "" {
		if frameRate <= 0 {
			return 0, &InvalidFrameRateError{FrameRate: frameRate}
		}
		frames, err := strconv.ParseFloat(frameField, 64)
		if err != nil {
			return 0, &TimeFormatError{Unit: UnitTimecode, Reason: fmt.Sprintf("malformed frame field %q", frameField)}
		}
		total += frames / frameRate
	}
	return total, nil
}
