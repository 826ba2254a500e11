package api

import (
	"sort"

	"clipforge/internal/queue"
	"clipforge/internal/workflow"
)

// FromQueueItem converts a persisted queue item into its API representation.
func FromQueueItem(item *queue.Item) QueueItem {
	if item == nil {
		return QueueItem{}
	}

	candidates, _ := queue.DecodeCandidates(item.CandidatesJSON)
	clips, _ := queue.DecodeClips(item.ClipsJSON)

	dto := QueueItem{
		ID:      item.ID,
		VODURL:  item.VODURL,
		Title:   item.Title,
		Channel: item.Channel,
		Status:  string(item.Status),
		Progress: QueueProgress{
			Stage:   item.ProgressStage,
			Percent: item.ProgressPercent,
			Message: item.ProgressMessage,
		},
		ErrorMessage:    item.ErrorMessage,
		SourceFile:      item.SourceFile,
		ChatLogFile:     item.ChatLogFile,
		DurationSeconds: item.DurationSeconds,
		CandidateCount:  len(candidates),
		ClipCount:       len(clips),
		NeedsReview:     item.NeedsReview,
		ReviewReason:    item.ReviewReason,
	}
	if !item.CreatedAt.IsZero() {
		dto.CreatedAt = item.CreatedAt.Format(dateTimeFormat)
	}
	if !item.UpdatedAt.IsZero() {
		dto.UpdatedAt = item.UpdatedAt.Format(dateTimeFormat)
	}
	return dto
}

// FromQueueItems converts a list of queue items.
func FromQueueItems(items []*queue.Item) []QueueItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]QueueItem, 0, len(items))
	for _, item := range items {
		out = append(out, FromQueueItem(item))
	}
	return out
}

// FromStatusSummary converts the workflow status into its API representation.
func FromStatusSummary(summary workflow.StatusSummary) WorkflowStatus {
	status := WorkflowStatus{
		Running:    summary.Running,
		QueueStats: MergeQueueStats(summary.QueueStats),
		LastError:  summary.LastError,
	}
	if summary.LastItem != nil {
		item := FromQueueItem(summary.LastItem)
		status.LastItem = &item
	}

	names := make([]string, 0, len(summary.StageHealth))
	for name := range summary.StageHealth {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		health := summary.StageHealth[name]
		status.StageHealth = append(status.StageHealth, StageHealth{
			Name:   health.Name,
			Ready:  health.Ready,
			Detail: health.Detail,
		})
	}
	return status
}

// MergeQueueStats converts status-keyed counts into string keys for JSON.
func MergeQueueStats(stats map[queue.Status]int) map[string]int {
	if stats == nil {
		return nil
	}
	out := make(map[string]int, len(stats))
	for status, count := range stats {
		out[string(status)] = count
	}
	return out
}
