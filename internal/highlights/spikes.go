package highlights

// SpikeConfig configures per-signal spike extraction.
type SpikeConfig struct {
	Threshold       float64
	MinWindow       float64
	SmoothingWindow float64
}

// FindSpikes extracts spike windows from one series: smooth, threshold, and
// keep contiguous active runs that span at least MinWindow seconds. Peak and
// mean are computed over the raw values in the run, not the smoothed ones.
// An empty result is a valid outcome, not an error.
func FindSpikes(series TimeSeries, cfg SpikeConfig) ([]SpikeWindow, error) {
	if err := series.Validate(cfg.SmoothingWindow > 0); err != nil {
		return nil, err
	}
	if len(series.Samples) == 0 {
		return nil, nil
	}

	smoothed := smooth(series.Samples, cfg.SmoothingWindow)

	var windows []SpikeWindow
	runStart := -1
	for i := range series.Samples {
		active := smoothed[i] > cfg.Threshold
		switch {
		case active && runStart < 0:
			runStart = i
		case !active && runStart >= 0:
			if win, ok := buildWindow(series, runStart, i-1, cfg.MinWindow); ok {
				windows = append(windows, win)
			}
			runStart = -1
		}
	}
	if runStart >= 0 {
		if win, ok := buildWindow(series, runStart, len(series.Samples)-1, cfg.MinWindow); ok {
			windows = append(windows, win)
		}
	}
	return windows, nil
}

// smooth applies a centered moving average of the given width in seconds.
// When the series spans less time than the window the raw values are used
// unchanged, matching the short-series edge case.
func smooth(samples []Sample, window float64) []float64 {
	values := make([]float64, len(samples))
	if window <= 0 || len(samples) < 2 || samples[len(samples)-1].At-samples[0].At < window {
		for i, s := range samples {
			values[i] = s.Value
		}
		return values
	}

	half := window / 2
	lo := 0
	hi := 0
	var sum float64
	for i, s := range samples {
		for hi < len(samples) && samples[hi].At <= s.At+half {
			sum += samples[hi].Value
			hi++
		}
		for lo < hi && samples[lo].At < s.At-half {
			sum -= samples[lo].Value
			lo++
		}
		values[i] = sum / float64(hi-lo)
	}
	return values
}

func buildWindow(series TimeSeries, first, last int, minWindow float64) (SpikeWindow, bool) {
	start := series.Samples[first].At
	end := series.Samples[last].At
	if end-start < minWindow {
		return SpikeWindow{}, false
	}

	peak := series.Samples[first].Value
	var sum float64
	for i := first; i <= last; i++ {
		v := series.Samples[i].Value
		if v > peak {
			peak = v
		}
		sum += v
	}
	return SpikeWindow{
		Start: start,
		End:   end,
		Peak:  peak,
		Mean:  sum / float64(last-first+1),
		Kind:  series.Kind,
	}, true
}
