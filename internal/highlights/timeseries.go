package highlights

import (
	"errors"
	"fmt"
)

// Kind identifies the signal a sample or spike originated from.
type Kind string

const (
	KindChat  Kind = "chat"
	KindAudio Kind = "audio"
)

// Sentinel errors for detector input failures. Stages map these onto the
// shared validation/configuration error markers.
var (
	ErrBadOptions = errors.New("invalid detector options")
	ErrBadSeries  = errors.New("invalid time series")
)

// Sample is a single (timestamp, value) measurement. Timestamps are seconds
// relative to the start of the source video.
type Sample struct {
	At    float64
	Value float64
}

// TimeSeries is an immutable, time-ordered sequence of samples for one signal.
type TimeSeries struct {
	Kind    Kind
	Samples []Sample
}

// Duration returns the span covered by the series in seconds.
func (ts TimeSeries) Duration() float64 {
	if len(ts.Samples) < 2 {
		return 0
	}
	return ts.Samples[len(ts.Samples)-1].At - ts.Samples[0].At
}

// Validate checks structural invariants: timestamps must be monotonically
// non-decreasing, and a series needs at least two samples when smoothing is
// requested. Errors name the offending series so callers can report which
// input was malformed.
func (ts TimeSeries) Validate(smoothingRequested bool) error {
	if smoothingRequested && len(ts.Samples) > 0 && len(ts.Samples) < 2 {
		return fmt.Errorf("%w: %s series has %d sample(s), need at least 2 for smoothing", ErrBadSeries, ts.Kind, len(ts.Samples))
	}
	for i := 1; i < len(ts.Samples); i++ {
		if ts.Samples[i].At < ts.Samples[i-1].At {
			return fmt.Errorf("%w: %s series timestamps decrease at index %d (%.3f after %.3f)",
				ErrBadSeries, ts.Kind, i, ts.Samples[i].At, ts.Samples[i-1].At)
		}
	}
	return nil
}

// SpikeWindow is a contiguous region of elevated signal in one series.
type SpikeWindow struct {
	Start float64
	End   float64
	Peak  float64
	Mean  float64
	Kind  Kind
}

// Candidate is a merged, scored highlight interval. Within one returned list
// candidates are pairwise non-overlapping and sorted by start ascending.
type Candidate struct {
	Start  float64
	End    float64
	Score  float64
	Kinds  []Kind
	Reason string
}

// HasKind reports whether a signal kind contributed to the candidate.
func (c Candidate) HasKind(kind Kind) bool {
	for _, k := range c.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
