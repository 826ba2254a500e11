package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusFetching   Status = "fetching"
	StatusFetched    Status = "fetched"
	StatusDetecting  Status = "detecting"
	StatusDetected   Status = "detected"
	StatusApproved   Status = "approved"
	StatusSlicing    Status = "slicing"
	StatusSliced     Status = "sliced"
	StatusSubtitling Status = "subtitling"
	StatusSubtitled  Status = "subtitled"
	StatusExporting  Status = "exporting"
	StatusExported   Status = "exported"
	StatusUploading  Status = "uploading"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusReview     Status = "review"
)

// DaemonStopReason is the error message set when items are failed due to
// daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusFetching,
	StatusFetched,
	StatusDetecting,
	StatusDetected,
	StatusApproved,
	StatusSlicing,
	StatusSliced,
	StatusSubtitling,
	StatusSubtitled,
	StatusExporting,
	StatusExported,
	StatusUploading,
	StatusCompleted,
	StatusFailed,
	StatusReview,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusFetching:   {},
	StatusDetecting:  {},
	StatusSlicing:    {},
	StatusSubtitling: {},
	StatusExporting:  {},
	StatusUploading:  {},
}

type statusTransition struct {
	from Status
	to   Status
}

// stageRollbackTransitions map an interrupted processing status back to the
// stage's start status so a restarted daemon re-runs the stage cleanly.
var stageRollbackTransitions = []statusTransition{
	{from: StatusFetching, to: StatusPending},
	{from: StatusDetecting, to: StatusFetched},
	{from: StatusSlicing, to: StatusApproved},
	{from: StatusSubtitling, to: StatusSliced},
	{from: StatusExporting, to: StatusSubtitled},
	{from: StatusUploading, to: StatusExported},
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total        int
	Pending      int
	Processing   int
	AwaitingUser int
	Failed       int
	Completed    int
}

// Item represents a queue item persisted in SQLite.
type Item struct {
	ID              int64
	VODURL          string
	Title           string
	Channel         string
	Status          Status
	SourceFile      string
	ChatLogFile     string
	DurationSeconds float64
	CandidatesJSON  string
	ClipsJSON       string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ProgressStage   string
	ProgressPercent float64
	ProgressMessage string
	NeedsReview     bool
	ReviewReason    string
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (i Item) IsProcessing() bool {
	_, ok := processingStatuses[i.Status]
	return ok
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// AwaitsUser reports whether the item is parked waiting for a human decision.
func (i Item) AwaitsUser() bool {
	return i.Status == StatusDetected || i.Status == StatusReview
}

// InitProgress resets progress fields for a new stage. ProgressMessage is set
// to message, ProgressPercent is reset to 0, and ErrorMessage is cleared.
func (i *Item) InitProgress(stage, message string) {
	if i.ProgressStage == "" {
		i.ProgressStage = stage
	}
	i.ProgressMessage = message
	i.ProgressPercent = 0
	i.ErrorMessage = ""
}

// SetProgress updates all three progress fields together.
func (i *Item) SetProgress(stage, message string, percent float64) {
	i.ProgressStage = stage
	i.ProgressMessage = message
	i.ProgressPercent = percent
}

// SetFailed marks the item as failed with the given error message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
	i.ProgressPercent = 0
	i.ProgressMessage = message
	i.ProgressStage = "Failed"
}
