package api

import (
	"context"
	"fmt"

	"clipforge/internal/queue"
	"clipforge/internal/services"
)

// ReviewStore abstracts the queue operations the review workflow needs.
type ReviewStore interface {
	GetByID(ctx context.Context, id int64) (*queue.Item, error)
	Update(ctx context.Context, item *queue.Item) error
	ApprovalsForItem(ctx context.Context, itemID int64) ([]queue.Approval, error)
	SetApproval(ctx context.Context, itemID int64, startSeconds float64, approved bool, rating int) error
	ApprovedStarts(ctx context.Context, itemID int64) ([]float64, error)
}

// ReviewService implements the human review gate: inspecting candidates,
// recording per-candidate decisions, and releasing an item into slicing.
type ReviewService struct {
	store ReviewStore
}

// NewReviewService constructs a ReviewService around the provided store.
func NewReviewService(store ReviewStore) *ReviewService {
	if store == nil {
		return nil
	}
	return &ReviewService{store: store}
}

// Candidates returns the detected candidates for an item joined with their
// review decisions.
func (s *ReviewService) Candidates(ctx context.Context, itemID int64) ([]Candidate, error) {
	item, err := s.requireItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	records, err := queue.DecodeCandidates(item.CandidatesJSON)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "api", "decode candidates",
			"Candidate list missing or invalid; rerun detection", err)
	}
	approvals, err := s.store.ApprovalsForItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load approvals: %w", err)
	}
	decisions := make(map[float64]queue.Approval, len(approvals))
	for _, approval := range approvals {
		decisions[approval.StartSeconds] = approval
	}

	out := make([]Candidate, 0, len(records))
	for _, record := range records {
		candidate := Candidate{
			Start:  record.Start,
			End:    record.End,
			Score:  record.Score,
			Kinds:  record.Kinds,
			Reason: record.Reason,
		}
		if decision, ok := decisions[record.Start]; ok {
			candidate.Approved = decision.Approved
			candidate.Rating = decision.Rating
			candidate.Decided = decision.DecidedAt != nil
		}
		out = append(out, candidate)
	}
	return out, nil
}

// Decide records an approve/reject decision (and optional 1-5 rating) for the
// candidate starting at startSeconds.
func (s *ReviewService) Decide(ctx context.Context, itemID int64, startSeconds float64, req DecisionRequest) error {
	item, err := s.requireItem(ctx, itemID)
	if err != nil {
		return err
	}
	if !item.AwaitsUser() && item.Status != queue.StatusApproved {
		return services.Wrap(services.ErrValidation, "api", "decide candidate",
			fmt.Sprintf("Item %d is %s; decisions are only accepted while awaiting review", itemID, item.Status), nil)
	}
	return s.store.SetApproval(ctx, itemID, startSeconds, req.Approved, req.Rating)
}

// Approve releases a reviewed item into the slicing stage. At least one
// candidate must be approved first.
func (s *ReviewService) Approve(ctx context.Context, itemID int64) (QueueItem, error) {
	item, err := s.requireItem(ctx, itemID)
	if err != nil {
		return QueueItem{}, err
	}
	if !item.AwaitsUser() {
		return QueueItem{}, services.Wrap(services.ErrValidation, "api", "approve item",
			fmt.Sprintf("Item %d is %s; only items awaiting review can be approved", itemID, item.Status), nil)
	}

	starts, err := s.store.ApprovedStarts(ctx, itemID)
	if err != nil {
		return QueueItem{}, fmt.Errorf("load approvals: %w", err)
	}
	if len(starts) == 0 {
		return QueueItem{}, services.Wrap(services.ErrValidation, "api", "approve item",
			"Approve at least one candidate before releasing the item", nil)
	}

	item.Status = queue.StatusApproved
	item.NeedsReview = false
	item.ReviewReason = ""
	item.SetProgress("Approved", fmt.Sprintf("%d clips approved for slicing", len(starts)), 0)
	if err := s.store.Update(ctx, item); err != nil {
		return QueueItem{}, fmt.Errorf("persist approval: %w", err)
	}
	return FromQueueItem(item), nil
}

func (s *ReviewService) requireItem(ctx context.Context, itemID int64) (*queue.Item, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("queue store unavailable")
	}
	item, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "load item",
			fmt.Sprintf("Queue item %d does not exist", itemID), nil)
	}
	return item, nil
}
