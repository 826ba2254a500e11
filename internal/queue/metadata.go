package queue

import (
	"encoding/json"
	"fmt"
)

// CandidateRecord is the persisted form of a detected highlight candidate.
// Detection writes the full ranked list into Item.CandidatesJSON; review and
// slicing read it back without re-running the detector.
type CandidateRecord struct {
	Start  float64  `json:"start"`
	End    float64  `json:"end"`
	Score  float64  `json:"score"`
	Kinds  []string `json:"kinds"`
	Reason string   `json:"reason,omitempty"`
}

// Clip tracks one approved candidate as it moves through slicing, subtitling,
// export, and upload. The slice of clips lives in Item.ClipsJSON.
type Clip struct {
	CandidateStart float64           `json:"candidate_start"`
	CandidateEnd   float64           `json:"candidate_end"`
	Start          float64           `json:"start"`
	End            float64           `json:"end"`
	Score          float64           `json:"score"`
	Title          string            `json:"title,omitempty"`
	SourceFile     string            `json:"source_file,omitempty"`
	SubtitleFile   string            `json:"subtitle_file,omitempty"`
	SubtitledFile  string            `json:"subtitled_file,omitempty"`
	Exports        map[string]string `json:"exports,omitempty"`
	Uploads        []UploadRecord    `json:"uploads,omitempty"`
}

// UploadRecord captures the outcome of publishing one export to one platform.
type UploadRecord struct {
	Platform string `json:"platform"`
	Profile  string `json:"profile"`
	URL      string `json:"url,omitempty"`
	DryRun   bool   `json:"dry_run,omitempty"`
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	return c.End - c.Start
}

// EncodeCandidates serializes candidate records for storage on an item.
func EncodeCandidates(candidates []CandidateRecord) (string, error) {
	data, err := json.Marshal(candidates)
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}
	return string(data), nil
}

// DecodeCandidates parses the stored candidate list. An empty payload yields
// an empty slice, not an error.
func DecodeCandidates(payload string) ([]CandidateRecord, error) {
	if payload == "" {
		return nil, nil
	}
	var candidates []CandidateRecord
	if err := json.Unmarshal([]byte(payload), &candidates); err != nil {
		return nil, fmt.Errorf("unmarshal candidates: %w", err)
	}
	return candidates, nil
}

// EncodeClips serializes clip records for storage on an item.
func EncodeClips(clips []Clip) (string, error) {
	data, err := json.Marshal(clips)
	if err != nil {
		return "", fmt.Errorf("marshal clips: %w", err)
	}
	return string(data), nil
}

// DecodeClips parses the stored clip list. An empty payload yields an empty
// slice, not an error.
func DecodeClips(payload string) ([]Clip, error) {
	if payload == "" {
		return nil, nil
	}
	var clips []Clip
	if err := json.Unmarshal([]byte(payload), &clips); err != nil {
		return nil, fmt.Errorf("unmarshal clips: %w", err)
	}
	return clips, nil
}
