package highlights

import (
	"errors"
	"testing"
)

func seriesOf(kind Kind, step float64, values ...float64) TimeSeries {
	samples := make([]Sample, len(values))
	for i, v := range values {
		samples[i] = Sample{At: float64(i) * step, Value: v}
	}
	return TimeSeries{Kind: kind, Samples: samples}
}

func TestFindSpikesBasic(t *testing.T) {
	series := seriesOf(KindChat, 1.0, 1, 1, 12, 15, 14, 11, 1, 1)
	windows, err := FindSpikes(series, SpikeConfig{Threshold: 10, MinWindow: 2})
	if err != nil {
		t.Fatalf("FindSpikes: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	win := windows[0]
	if win.Start != 2 || win.End != 5 {
		t.Errorf("window span = [%.1f, %.1f], want [2.0, 5.0]", win.Start, win.End)
	}
	if win.Peak != 15 {
		t.Errorf("peak = %.1f, want 15", win.Peak)
	}
	if win.Mean != 13 {
		t.Errorf("mean = %.1f, want 13", win.Mean)
	}
	if win.Kind != KindChat {
		t.Errorf("kind = %s, want chat", win.Kind)
	}
}

func TestFindSpikesRunShorterThanMinWindow(t *testing.T) {
	series := seriesOf(KindAudio, 1.0, 0, 0, 5, 0, 0)
	windows, err := FindSpikes(series, SpikeConfig{Threshold: 1, MinWindow: 3})
	if err != nil {
		t.Fatalf("FindSpikes: %v", err)
	}
	if len(windows) != 0 {
		t.Fatalf("expected no windows, got %d", len(windows))
	}
}

func TestFindSpikesShortSeriesSkipsSmoothing(t *testing.T) {
	// Series spans 2s, smoothing window is 10s: raw values must be used, so
	// the single-sample spike at index 1 still starts a run.
	series := seriesOf(KindChat, 1.0, 0, 20, 20)
	windows, err := FindSpikes(series, SpikeConfig{Threshold: 10, MinWindow: 1, SmoothingWindow: 10})
	if err != nil {
		t.Fatalf("FindSpikes: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	if windows[0].Start != 1 || windows[0].End != 2 {
		t.Errorf("window span = [%.1f, %.1f], want [1.0, 2.0]", windows[0].Start, windows[0].End)
	}
}

func TestFindSpikesSmoothingSuppressesSingleSampleNoise(t *testing.T) {
	values := make([]float64, 60)
	values[30] = 100 // isolated two-sample burst
	values[31] = 100
	series := seriesOf(KindChat, 1.0, values...)

	raw, err := FindSpikes(series, SpikeConfig{Threshold: 15, MinWindow: 0.5})
	if err != nil {
		t.Fatalf("FindSpikes raw: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected raw pass to find the burst, got %d windows", len(raw))
	}
	smoothed, err := FindSpikes(series, SpikeConfig{Threshold: 15, MinWindow: 0.5, SmoothingWindow: 20})
	if err != nil {
		t.Fatalf("FindSpikes smoothed: %v", err)
	}
	if len(smoothed) != 0 {
		t.Errorf("smoothing did not suppress the burst: got %d windows", len(smoothed))
	}
}

func TestFindSpikesSortedAndNonOverlapping(t *testing.T) {
	series := seriesOf(KindChat, 1.0,
		1, 14, 15, 1, 1, 18, 19, 17, 1, 1, 1, 22, 25, 21, 1)
	windows, err := FindSpikes(series, SpikeConfig{Threshold: 10, MinWindow: 1})
	if err != nil {
		t.Fatalf("FindSpikes: %v", err)
	}
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	for i := 1; i < len(windows); i++ {
		if windows[i].Start <= windows[i-1].End {
			t.Errorf("windows %d and %d overlap or are unsorted: %+v %+v", i-1, i, windows[i-1], windows[i])
		}
	}
}

// Raising the threshold never admits a sample that was below the old one, so
// every surviving window is contained in a window found at the lower
// threshold. Strict window-count monotonicity is NOT implied by the run-based
// walk: a higher threshold can split one long run into two shorter runs that
// both clear MinWindow (values 10,10,1,10,10 with a threshold between 1 and
// 10 versus one below 1). The series here has single-peaked bursts separated
// by quiet gaps, where counts do decrease; do not "fix" the detector to force
// counts down on arbitrary input.
func TestFindSpikesThresholdMonotonic(t *testing.T) {
	series := seriesOf(KindChat, 1.0,
		0, 8, 9, 3, 0, 12, 14, 13, 0, 6, 7, 0, 20, 22, 19, 0, 4, 5, 4, 0)
	prev := -1
	for _, threshold := range []float64{0, 2, 5, 8, 11, 15, 25} {
		windows, err := FindSpikes(series, SpikeConfig{Threshold: threshold, MinWindow: 1})
		if err != nil {
			t.Fatalf("FindSpikes(threshold=%.1f): %v", threshold, err)
		}
		if prev >= 0 && len(windows) > prev {
			t.Errorf("raising threshold to %.1f increased windows: %d -> %d", threshold, prev, len(windows))
		}
		prev = len(windows)
	}
}

func TestFindSpikesRejectsDecreasingTimestamps(t *testing.T) {
	series := TimeSeries{Kind: KindAudio, Samples: []Sample{
		{At: 0, Value: 1},
		{At: 5, Value: 2},
		{At: 3, Value: 3},
	}}
	_, err := FindSpikes(series, SpikeConfig{Threshold: 0, MinWindow: 1})
	if !errors.Is(err, ErrBadSeries) {
		t.Fatalf("expected ErrBadSeries, got %v", err)
	}
}

func TestFindSpikesSingleSampleWithSmoothingRequested(t *testing.T) {
	series := TimeSeries{Kind: KindChat, Samples: []Sample{{At: 0, Value: 1}}}
	_, err := FindSpikes(series, SpikeConfig{Threshold: 0, MinWindow: 1, SmoothingWindow: 5})
	if !errors.Is(err, ErrBadSeries) {
		t.Fatalf("expected ErrBadSeries, got %v", err)
	}
}

func TestFindSpikesEmptySeries(t *testing.T) {
	windows, err := FindSpikes(TimeSeries{Kind: KindAudio}, SpikeConfig{Threshold: 1, MinWindow: 1})
	if err != nil {
		t.Fatalf("FindSpikes: %v", err)
	}
	if len(windows) != 0 {
		t.Fatalf("expected no windows for empty series, got %d", len(windows))
	}
}
