// Package audioscan derives an audio loudness envelope from a video file by
// running ffmpeg's silencedetect and volumedetect filters and sampling the
// result into a time series for highlight detection.
package audioscan

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os/exec"

	"clipforge/internal/config"
	"clipforge/internal/highlights"
	"clipforge/internal/logging"
	"clipforge/internal/services"
)

// CommandRunner executes an external command and returns its combined stderr
// output. ffmpeg writes filter reports to stderr, so stdout is discarded.
type CommandRunner func(ctx context.Context, name string, args ...string) (string, error)

func defaultRunner(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	// silencedetect runs with a null muxer; ffmpeg may exit non-zero even
	// though the filter report is complete, so the output is returned either way.
	return stderr.String(), err
}

// Scanner runs ffmpeg audio analysis over source files.
type Scanner struct {
	ffmpegBin      string
	noiseFloorDB   float64
	minSilence     float64
	sampleInterval float64
	runner         CommandRunner
	logger         *slog.Logger
}

// NewScanner builds a Scanner from configuration. A nil logger disables logging.
func NewScanner(cfg *config.Config, logger *slog.Logger) *Scanner {
	return &Scanner{
		ffmpegBin:      cfg.FFmpegBinary(),
		noiseFloorDB:   cfg.Detection.AudioNoiseFloorDB,
		minSilence:     cfg.Detection.AudioMinSilenceSeconds,
		sampleInterval: cfg.Detection.ChatBucketSeconds,
		runner:         defaultRunner,
		logger:         logging.NewComponentLogger(logger, "audioscan"),
	}
}

// SetRunner overrides the command runner. Intended for tests.
func (s *Scanner) SetRunner(runner CommandRunner) {
	if runner != nil {
		s.runner = runner
	}
}

// Scan produces the audio amplitude series for the file. duration is the
// source length in seconds and bounds the sampled envelope.
func (s *Scanner) Scan(ctx context.Context, path string, duration float64) (highlights.TimeSeries, error) {
	if duration <= 0 {
		return highlights.TimeSeries{}, services.Wrap(
			services.ErrValidation, "audioscan", "scan",
			fmt.Sprintf("Source duration %.2f must be positive", duration), nil)
	}

	silenceOut, err := s.runner(ctx, s.ffmpegBin,
		"-hide_banner", "-nostats",
		"-i", path,
		"-af", fmt.Sprintf("silencedetect=noise=%.1fdB:d=%.2f", s.noiseFloorDB, s.minSilence),
		"-f", "null", "-",
	)
	if err != nil && len(parseSilence(silenceOut)) == 0 && !containsSilenceReport(silenceOut) {
		return highlights.TimeSeries{}, services.Wrap(
			services.ErrExternalTool, "audioscan", "silencedetect",
			"ffmpeg silence detection failed", err)
	}
	silences := parseSilence(silenceOut)

	volumeOut, err := s.runner(ctx, s.ffmpegBin,
		"-hide_banner", "-nostats",
		"-i", path,
		"-af", "volumedetect",
		"-f", "null", "-",
	)
	meanDB, ok := parseMeanVolume(volumeOut)
	if err != nil && !ok {
		return highlights.TimeSeries{}, services.Wrap(
			services.ErrExternalTool, "audioscan", "volumedetect",
			"ffmpeg volume detection failed", err)
	}
	loudAmp := 1.0
	if ok {
		loudAmp = linearizeDB(meanDB, s.noiseFloorDB)
	}

	if s.logger != nil {
		s.logger.Debug("audio envelope built",
			logging.Int("silence_segments", len(silences)),
			logging.Float64("loud_amplitude", loudAmp))
	}

	return s.buildEnvelope(duration, silences, loudAmp), nil
}

// buildEnvelope samples the silence map at a fixed interval. Silent samples
// are zero; everything else carries the loud amplitude.
func (s *Scanner) buildEnvelope(duration float64, silences []segment, loudAmp float64) highlights.TimeSeries {
	interval := s.sampleInterval
	if interval <= 0 {
		interval = 10
	}
	count := int(math.Floor(duration/interval)) + 1
	series := highlights.TimeSeries{
		Kind:    highlights.KindAudio,
		Samples: make([]highlights.Sample, count),
	}
	for i := 0; i < count; i++ {
		at := float64(i) * interval
		value := loudAmp
		if inSilence(at, silences) {
			value = 0
		}
		series.Samples[i] = highlights.Sample{At: at, Value: value}
	}
	return series
}

func inSilence(at float64, silences []segment) bool {
	for _, seg := range silences {
		if at >= seg.start && at < seg.end {
			return true
		}
	}
	return false
}

// linearizeDB maps a dB level to [0,1] relative to the noise floor. The floor
// maps to 0 and full scale (0 dB) maps to 1.
func linearizeDB(db, floorDB float64) float64 {
	if floorDB >= 0 {
		return 1
	}
	amp := (db - floorDB) / -floorDB
	if amp < 0 {
		return 0
	}
	if amp > 1 {
		return 1
	}
	return amp
}
