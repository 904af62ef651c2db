package timedtag

import "fmt"

// TimeFormatError indicates an interval whose unit hint is unrecognized or
// whose auxiliary data (frame rate, timecode text) is missing or malformed.
type TimeFormatError struct {
	Unit   Unit
	Reason string
}

func (e *TimeFormatError) Error() string {
	return fmt.Sprintf("time format %q: %s", string(e.Unit), e.Reason)
}

// InvalidFrameRateError indicates a frame-indexed interval with a zero,
// negative, or absent frame rate.
type InvalidFrameRateError struct {
	FrameRate float64
}

func (e *InvalidFrameRateError) Error() string {
	return fmt.Sprintf("invalid frame rate %g: must be > 0", e.FrameRate)
}

// SchemaMismatchError indicates a vendor payload that does not match the
// shape a parser expects. It is recoverable: the driver downgrades it to a
// manifest entry for that parser instead of aborting the run.
type SchemaMismatchError struct {
	Extractor string
	Reason    string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("parser %s: schema mismatch: %s", e.Extractor, e.Reason)
}

// ScoreRangeError indicates a confidence value that cannot be interpreted as
// either a [0,1] float or a 0-100 percentage. Fatal to the run.
type ScoreRangeError struct {
	Value float64
}

func (e *ScoreRangeError) Error() string {
	return fmt.Sprintf("score %g outside [0,100]", e.Value)
}

// UnknownTagTypeError indicates a tag type outside the closed set, which
// means a parser (or vendor schema drift through one) produced a category
// the rest of the pipeline cannot account for. Fatal to the run.
type UnknownTagTypeError struct {
	Value string
}

func (e *UnknownTagTypeError) Error() string {
	return fmt.Sprintf("unknown tag type %q", e.Value)
}

// ExportWriteError indicates an export artifact could not be written to its
// destination.
type ExportWriteError struct {
	Path string
	Err  error
}

func (e *ExportWriteError) Error() string {
	return fmt.Sprintf("writing export %s: %v", e.Path, e.Err)
}

func (e *ExportWriteError) Unwrap() error { return e.Err }
