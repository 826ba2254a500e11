// Package highlights implements the highlight candidate detector: it fuses a
// chat-activity time series and an audio-amplitude time series into a ranked,
// non-overlapping list of candidate clip intervals. The detector is a pure
// function of its inputs and configuration; callers own persistence, approval
// state, and any retry-with-relaxed-thresholds policy.
package highlights
