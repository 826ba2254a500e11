package audioscan

import (
	"strconv"
	"strings"
)

type segment struct {
	start float64
	end   float64
}

func containsSilenceReport(output string) bool {
	return strings.Contains(output, "silencedetect")
}

// parseSilence extracts silence intervals from silencedetect stderr output.
// Lines look like:
//
//	[silencedetect @ 0x...] silence_start: 123.456
//	[silencedetect @ 0x...] silence_end: 130.2 | silence_duration: 6.744
func parseSilence(output string) []segment {
	var (
		segments []segment
		start    float64
		open     bool
	)
	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.Contains(line, "silence_start:"):
			value, ok := parseFieldValue(line, "silence_start:")
			if !ok {
				continue
			}
			start = value
			open = true
		case strings.Contains(line, "silence_end:"):
			value, ok := parseFieldValue(line, "silence_end:")
			if !ok {
				continue
			}
			if !open {
				// File began in silence; silence_start was never logged.
				start = 0
			}
			if value > start {
				segments = append(segments, segment{start: start, end: value})
			}
			open = false
		}
	}
	return segments
}

// parseMeanVolume extracts the mean_volume report from volumedetect output.
func parseMeanVolume(output string) (float64, bool) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "mean_volume:") {
			continue
		}
		raw := strings.TrimSpace(strings.SplitN(line, "mean_volume:", 2)[1])
		raw = strings.TrimSuffix(raw, " dB")
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			continue
		}
		return value, true
	}
	return 0, false
}

func parseFieldValue(line, field string) (float64, bool) {
	raw := strings.SplitN(line, field, 2)[1]
	if idx := strings.Index(raw, "|"); idx >= 0 {
		raw = raw[:idx]
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
