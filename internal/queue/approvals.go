package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Approval records the review decision for one detected candidate. Rows are
// keyed by (item_id, start_seconds) because candidate starts are unique within
// an item and survive re-detection with identical options.
type Approval struct {
	ItemID       int64
	StartSeconds float64
	EndSeconds   float64
	Rating       int
	Approved     bool
	DecidedAt    *time.Time
}

// Rated reports whether a reviewer has assigned a rating.
func (a Approval) Rated() bool {
	return a.Rating > 0
}

// SeedApprovals replaces the approval rows for an item with fresh unrated
// entries, one per candidate span. Existing decisions are discarded because the
// candidate set they referred to no longer exists.
func (s *Store) SeedApprovals(ctx context.Context, itemID int64, spans [][2]float64) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin approvals tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM approvals WHERE item_id = ?`, itemID); err != nil {
			return fmt.Errorf("clear approvals: %w", err)
		}
		for _, span := range spans {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO approvals (item_id, start_seconds, end_seconds, approved) VALUES (?, ?, ?, 0)`,
				itemID, span[0], span[1],
			); err != nil {
				return fmt.Errorf("seed approval: %w", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit approvals: %w", err)
		}
		return nil
	})
}

// SetApproval records a reviewer decision for one candidate. A rating of zero
// leaves any existing rating untouched.
func (s *Store) SetApproval(ctx context.Context, itemID int64, startSeconds float64, approved bool, rating int) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("rating %d out of range 1-5", rating)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var res sql.Result
	var err error
	if rating == 0 {
		res, err = s.execWithRetry(
			ctx,
			`UPDATE approvals SET approved = ?, decided_at = ? WHERE item_id = ? AND start_seconds = ?`,
			boolToInt(approved), now, itemID, startSeconds,
		)
	} else {
		res, err = s.execWithRetry(
			ctx,
			`UPDATE approvals SET approved = ?, rating = ?, decided_at = ? WHERE item_id = ? AND start_seconds = ?`,
			boolToInt(approved), rating, now, itemID, startSeconds,
		)
	}
	if err != nil {
		return fmt.Errorf("set approval: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrApprovalNotFound
	}
	return nil
}

// ErrApprovalNotFound indicates no approval row exists for the candidate.
var ErrApprovalNotFound = errors.New("approval not found")

// ApprovalsForItem returns all approval rows for an item ordered by start time.
func (s *Store) ApprovalsForItem(ctx context.Context, itemID int64) ([]Approval, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT item_id, start_seconds, end_seconds, rating, approved, decided_at
         FROM approvals WHERE item_id = ? ORDER BY start_seconds`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("query approvals: %w", err)
	}
	defer rows.Close()

	var approvals []Approval
	for rows.Next() {
		var (
			a          Approval
			rating     sql.NullInt64
			approved   sql.NullInt64
			decidedRaw sql.NullString
		)
		if err := rows.Scan(&a.ItemID, &a.StartSeconds, &a.EndSeconds, &rating, &approved, &decidedRaw); err != nil {
			return nil, err
		}
		if rating.Valid {
			a.Rating = int(rating.Int64)
		}
		if approved.Valid {
			a.Approved = approved.Int64 != 0
		}
		if decidedRaw.Valid {
			if decided, err := parseTimeString(decidedRaw.String); err == nil {
				a.DecidedAt = &decided
			}
		}
		approvals = append(approvals, a)
	}
	return approvals, rows.Err()
}

// ApprovedStarts returns the start times of approved candidates for an item.
func (s *Store) ApprovedStarts(ctx context.Context, itemID int64) ([]float64, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT start_seconds FROM approvals WHERE item_id = ? AND approved = 1 ORDER BY start_seconds`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("query approved starts: %w", err)
	}
	defer rows.Close()

	var starts []float64
	for rows.Next() {
		var start float64
		if err := rows.Scan(&start); err != nil {
			return nil, err
		}
		starts = append(starts, start)
	}
	return starts, rows.Err()
}
