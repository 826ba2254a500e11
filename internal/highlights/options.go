package highlights

import "fmt"

// Options configures one detection pass. Values come from the [detection]
// config section; validation is fail-fast so operator typos surface instead
// of being clamped to defaults.
type Options struct {
	// ChatThreshold and AudioThreshold are the smoothed-value levels above
	// which a sample counts as active, per signal.
	ChatThreshold  float64
	AudioThreshold float64
	// MinWindow is the minimum duration in seconds an active run must span
	// to become a spike window.
	MinWindow float64
	// SmoothingWindow is the moving-average width in seconds applied before
	// thresholding. Zero disables smoothing.
	SmoothingWindow float64
	// OverlapBonus is added to the score when chat and audio spikes co-occur.
	OverlapBonus float64
	// MinGap is the maximum separation in seconds for two spikes from
	// different signals to still count as co-occurring.
	MinGap float64
	// MaxCandidates caps the returned list by score. Zero returns all.
	MaxCandidates int
}

// DefaultOverlapBonus rewards multi-signal agreement when merging spikes.
const DefaultOverlapBonus = 10.0

// Validate rejects unusable options before any computation runs.
func (o Options) Validate() error {
	if o.ChatThreshold < 0 {
		return fmt.Errorf("%w: chat threshold must not be negative (got %g)", ErrBadOptions, o.ChatThreshold)
	}
	if o.AudioThreshold < 0 {
		return fmt.Errorf("%w: audio threshold must not be negative (got %g)", ErrBadOptions, o.AudioThreshold)
	}
	if o.MinWindow <= 0 {
		return fmt.Errorf("%w: min window must be positive (got %g)", ErrBadOptions, o.MinWindow)
	}
	if o.SmoothingWindow < 0 {
		return fmt.Errorf("%w: smoothing window must not be negative (got %g)", ErrBadOptions, o.SmoothingWindow)
	}
	if o.MinGap <= 0 {
		return fmt.Errorf("%w: min gap must be positive (got %g)", ErrBadOptions, o.MinGap)
	}
	if o.OverlapBonus < 0 {
		return fmt.Errorf("%w: overlap bonus must not be negative (got %g)", ErrBadOptions, o.OverlapBonus)
	}
	if o.MaxCandidates < 0 {
		return fmt.Errorf("%w: max candidates must not be negative (got %d)", ErrBadOptions, o.MaxCandidates)
	}
	return nil
}

// Relaxed returns a copy with both thresholds scaled by factor. The detection
// stage uses this for its zero-candidate retry policy; the detector itself
// never relaxes anything.
func (o Options) Relaxed(factor float64) Options {
	relaxed := o
	relaxed.ChatThreshold *= factor
	relaxed.AudioThreshold *= factor
	return relaxed
}
