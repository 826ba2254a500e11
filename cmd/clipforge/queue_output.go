package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"clipforge/internal/api"
	"clipforge/internal/queue"
)

// statusDisplayOrder matches the pipeline progression so queue summaries read
// top to bottom in processing order.
var statusDisplayOrder = []queue.Status{
	queue.StatusPending,
	queue.StatusFetching,
	queue.StatusFetched,
	queue.StatusDetecting,
	queue.StatusDetected,
	queue.StatusApproved,
	queue.StatusSlicing,
	queue.StatusSliced,
	queue.StatusSubtitling,
	queue.StatusSubtitled,
	queue.StatusExporting,
	queue.StatusExported,
	queue.StatusUploading,
	queue.StatusCompleted,
	queue.StatusFailed,
	queue.StatusReview,
}

func buildQueueStatusRows(stats map[string]int) [][]string {
	rows := make([][]string, 0, len(stats))
	seen := make(map[string]bool, len(stats))
	for _, status := range statusDisplayOrder {
		key := string(status)
		if count, ok := stats[key]; ok && count > 0 {
			rows = append(rows, []string{key, strconv.Itoa(count)})
			seen[key] = true
		}
	}
	// Unknown statuses sort after the known pipeline order.
	extras := make([]string, 0)
	for key, count := range stats {
		if !seen[key] && count > 0 {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	for _, key := range extras {
		rows = append(rows, []string{key, strconv.Itoa(stats[key])})
	}
	return rows
}

func buildQueueListRows(items []api.QueueItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			truncateText(displayTitle(item), 48),
			item.Status,
			formatProgress(item.Progress),
			item.Channel,
			strconv.Itoa(item.CandidateCount),
			strconv.Itoa(item.ClipCount),
		})
	}
	return rows
}

func displayTitle(item api.QueueItem) string {
	if title := strings.TrimSpace(item.Title); title != "" {
		return title
	}
	return item.VODURL
}

func formatProgress(progress api.QueueProgress) string {
	stage := strings.TrimSpace(progress.Stage)
	if stage == "" {
		return ""
	}
	if progress.Percent <= 0 {
		return stage
	}
	return fmt.Sprintf("%s %.0f%%", stage, progress.Percent)
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

func truncateText(value string, max int) string {
	if max <= 3 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}
