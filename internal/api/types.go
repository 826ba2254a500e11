package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// QueueItem describes a queue entry in a transport-friendly format.
type QueueItem struct {
	ID              int64         `json:"id"`
	VODURL          string        `json:"vodUrl"`
	Title           string        `json:"title"`
	Channel         string        `json:"channel"`
	Status          string        `json:"status"`
	Progress        QueueProgress `json:"progress"`
	ErrorMessage    string        `json:"errorMessage,omitempty"`
	CreatedAt       string        `json:"createdAt,omitempty"`
	UpdatedAt       string        `json:"updatedAt,omitempty"`
	SourceFile      string        `json:"sourceFile,omitempty"`
	ChatLogFile     string        `json:"chatLogFile,omitempty"`
	DurationSeconds float64       `json:"durationSeconds,omitempty"`
	CandidateCount  int           `json:"candidateCount"`
	ClipCount       int           `json:"clipCount"`
	NeedsReview     bool          `json:"needsReview"`
	ReviewReason    string        `json:"reviewReason,omitempty"`
}

// QueueProgress captures stage progress information for a queue entry.
type QueueProgress struct {
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
	Message string  `json:"message"`
}

// Candidate pairs a detected highlight with its review decision.
type Candidate struct {
	Start    float64  `json:"start"`
	End      float64  `json:"end"`
	Score    float64  `json:"score"`
	Kinds    []string `json:"kinds"`
	Reason   string   `json:"reason,omitempty"`
	Approved bool     `json:"approved"`
	Rating   int      `json:"rating,omitempty"`
	Decided  bool     `json:"decided"`
}

// WorkflowStatus summarizes workflow execution state.
type WorkflowStatus struct {
	Running     bool           `json:"running"`
	QueueStats  map[string]int `json:"queueStats"`
	LastError   string         `json:"lastError,omitempty"`
	LastItem    *QueueItem     `json:"lastItem,omitempty"`
	StageHealth []StageHealth  `json:"stageHealth"`
}

// StageHealth mirrors readiness reporting for workflow stages.
type StageHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool           `json:"running"`
	PID          int            `json:"pid"`
	QueueDBPath  string         `json:"queueDbPath"`
	LockFilePath string         `json:"lockFilePath"`
	Workflow     WorkflowStatus `json:"workflow"`
}

// QueueListResponse wraps a collection of queue items for API responses.
type QueueListResponse struct {
	Items []QueueItem `json:"items"`
}

// QueueItemResponse wraps a single queue item.
type QueueItemResponse struct {
	Item QueueItem `json:"item"`
}

// CandidateListResponse wraps an item's candidates with review state.
type CandidateListResponse struct {
	ItemID     int64       `json:"itemId"`
	Candidates []Candidate `json:"candidates"`
}

// AddVODRequest enqueues a new VOD for processing.
type AddVODRequest struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// DecisionRequest records a review decision for one candidate.
type DecisionRequest struct {
	Approved bool `json:"approved"`
	Rating   int  `json:"rating,omitempty"`
}
