// Package chatlog parses TwitchDownloaderCLI chat exports and turns them into
// a messages-per-bucket rate series for highlight detection.
package chatlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"clipforge/internal/highlights"
)

// Message is a single chat message relative to the VOD start.
type Message struct {
	Offset float64
	Author string
	Body   string
}

// Log holds the parsed chat log. Duration is taken from the export's video
// metadata when present, otherwise zero.
type Log struct {
	Messages []Message
	Duration float64
}

type rawExport struct {
	Comments []rawComment `json:"comments"`
	Video    struct {
		Start  float64 `json:"start"`
		End    float64 `json:"end"`
		Length float64 `json:"length"`
	} `json:"video"`
}

type rawComment struct {
	ContentOffsetSeconds float64 `json:"content_offset_seconds"`
	Commenter            struct {
		DisplayName string `json:"display_name"`
	} `json:"commenter"`
	Message struct {
		Body string `json:"body"`
	} `json:"message"`
}

// Parse decodes a TwitchDownloaderCLI JSON export.
func Parse(r io.Reader) (*Log, error) {
	var raw rawExport
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode chat export: %w", err)
	}

	log := &Log{Messages: make([]Message, 0, len(raw.Comments))}
	for _, c := range raw.Comments {
		if c.ContentOffsetSeconds < 0 || math.IsNaN(c.ContentOffsetSeconds) {
			continue
		}
		log.Messages = append(log.Messages, Message{
			Offset: c.ContentOffsetSeconds,
			Author: c.Commenter.DisplayName,
			Body:   c.Message.Body,
		})
	}

	switch {
	case raw.Video.Length > 0:
		log.Duration = raw.Video.Length
	case raw.Video.End > raw.Video.Start:
		log.Duration = raw.Video.End - raw.Video.Start
	}
	return log, nil
}

// ParseFile decodes the chat export at path.
func ParseFile(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chat log: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// RateSeries buckets the chat log into a message-rate time series. Every
// bucket from the VOD start through the last message (or the known duration,
// whichever is later) is emitted, including empty ones, so the detector sees
// quiet stretches as zeros rather than gaps.
func RateSeries(log *Log, bucketSeconds float64) (highlights.TimeSeries, error) {
	if log == nil {
		return highlights.TimeSeries{}, errors.New("chat log is nil")
	}
	if bucketSeconds <= 0 {
		return highlights.TimeSeries{}, fmt.Errorf("bucket width %.2f must be positive", bucketSeconds)
	}

	span := log.Duration
	for _, msg := range log.Messages {
		if msg.Offset > span {
			span = msg.Offset
		}
	}

	bucketCount := int(math.Floor(span/bucketSeconds)) + 1
	counts := make([]float64, bucketCount)
	for _, msg := range log.Messages {
		idx := int(math.Floor(msg.Offset / bucketSeconds))
		if idx >= bucketCount {
			idx = bucketCount - 1
		}
		counts[idx]++
	}

	series := highlights.TimeSeries{
		Kind:    highlights.KindChat,
		Samples: make([]highlights.Sample, bucketCount),
	}
	for i, count := range counts {
		series.Samples[i] = highlights.Sample{
			At:    float64(i) * bucketSeconds,
			Value: count,
		}
	}
	return series, nil
}
