package queue

import (
	"context"
	"fmt"
	"time"
)

// ResetStuckProcessing resets items in processing states back to the start of
// their current stage. Called on daemon startup so an interrupted run re-executes
// the stage it died in rather than wedging the queue.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	caseClauses := ""
	whereIn := ""
	args := make([]any, 0, len(stageRollbackTransitions)*3+1)
	for _, tr := range stageRollbackTransitions {
		caseClauses += " WHEN ? THEN ?"
		args = append(args, tr.from, tr.to)
	}
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano))
	for i, tr := range stageRollbackTransitions {
		if i > 0 {
			whereIn += ", "
		}
		whereIn += "?"
		args = append(args, tr.from)
	}

	query := `UPDATE queue_items
        SET status = CASE status` + caseClauses + ` ELSE status END,
            progress_stage = 'Reset from stuck processing',
            progress_percent = 0, progress_message = NULL, updated_at = ?
        WHERE status IN (` + whereIn + `)`
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reset stuck items: %w", err)
	}
	return res.RowsAffected()
}

// RetryFailed moves failed items back to pending for reprocessing.
func (s *Store) RetryFailed(ctx context.Context, ids ...int64) (int64, error) {
	if len(ids) == 0 {
		res, err := s.execWithRetry(
			ctx,
			`UPDATE queue_items
            SET status = ?, progress_stage = 'Retry requested', progress_percent = 0,
                progress_message = NULL, error_message = NULL, updated_at = ?
            WHERE status = ?`,
			StatusPending,
			time.Now().UTC().Format(time.RFC3339Nano),
			StatusFailed,
		)
		if err != nil {
			return 0, fmt.Errorf("retry failed items: %w", err)
		}
		return res.RowsAffected()
	}

	placeholders := makePlaceholders(len(ids))
	args := make([]any, 0, len(ids)+2)
	args = append(args, StatusPending, time.Now().UTC().Format(time.RFC3339Nano))
	for _, id := range ids {
		args = append(args, id)
	}
	query := `UPDATE queue_items
        SET status = ?, progress_stage = 'Retry requested', progress_percent = 0,
            progress_message = NULL, error_message = NULL, updated_at = ?
        WHERE id IN (` + placeholders + `) AND status = '` + string(StatusFailed) + `'`
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("retry selected items: %w", err)
	}
	return res.RowsAffected()
}

// FailProcessing marks all in-flight items failed with the supplied reason.
// Used during daemon shutdown so nothing is left claiming to be running.
func (s *Store) FailProcessing(ctx context.Context, reason string) (int64, error) {
	statuses := make([]Status, 0, len(processingStatuses))
	for status := range processingStatuses {
		statuses = append(statuses, status)
	}
	placeholders := makePlaceholders(len(statuses))
	args := make([]any, 0, len(statuses)+3)
	args = append(args, StatusFailed, reason, time.Now().UTC().Format(time.RFC3339Nano))
	for _, status := range statuses {
		args = append(args, status)
	}
	query := `UPDATE queue_items
        SET status = ?, error_message = ?, progress_percent = 0, updated_at = ?
        WHERE status IN (` + placeholders + `)`
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("fail processing items: %w", err)
	}
	return res.RowsAffected()
}
