package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clipforge/internal/api"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Review detected highlight candidates",
	}

	reviewCmd.AddCommand(newReviewListCommand(ctx))
	reviewCmd.AddCommand(newReviewApproveCommand(ctx))
	reviewCmd.AddCommand(newReviewRejectCommand(ctx))
	reviewCmd.AddCommand(newReviewReleaseCommand(ctx))

	return reviewCmd
}

func newReviewListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <itemID>",
		Short: "List highlight candidates for a queue item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withServices(func(_ *api.QueueService, reviewSvc *api.ReviewService) error {
				candidates, err := reviewSvc.Candidates(cmd.Context(), id)
				if err != nil {
					return err
				}
				if len(candidates) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No candidates detected for this item")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderCandidateTable(candidates))
				return nil
			})
		},
	}
}

func newReviewApproveCommand(ctx *commandContext) *cobra.Command {
	var rating int

	cmd := &cobra.Command{
		Use:   "approve <itemID> <start>",
		Short: "Approve one candidate for slicing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, start, err := parseCandidateRef(args)
			if err != nil {
				return err
			}
			return ctx.withServices(func(_ *api.QueueService, reviewSvc *api.ReviewService) error {
				req := api.DecisionRequest{Approved: true, Rating: rating}
				if err := reviewSvc.Decide(cmd.Context(), id, start, req); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Approved candidate at %s\n", formatDuration(start))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "Optional 1-5 quality rating")
	return cmd
}

func newReviewRejectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reject <itemID> <start>",
		Short: "Reject one candidate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, start, err := parseCandidateRef(args)
			if err != nil {
				return err
			}
			return ctx.withServices(func(_ *api.QueueService, reviewSvc *api.ReviewService) error {
				if err := reviewSvc.Decide(cmd.Context(), id, start, api.DecisionRequest{Approved: false}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rejected candidate at %s\n", formatDuration(start))
				return nil
			})
		},
	}
}

func newReviewReleaseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "release <itemID>",
		Short: "Release a reviewed item back to the pipeline",
		Long:  "Marks the item approved so the daemon slices the approved candidates. At least one candidate must be approved first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withServices(func(_ *api.QueueService, reviewSvc *api.ReviewService) error {
				item, err := reviewSvc.Approve(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d released for slicing: %s\n", item.ID, displayTitle(item))
				return nil
			})
		},
	}
}

func parseItemID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", raw)
	}
	return id, nil
}

func parseCandidateRef(args []string) (int64, float64, error) {
	id, err := parseItemID(args[0])
	if err != nil {
		return 0, 0, err
	}
	start, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid candidate start %q", args[1])
	}
	return id, start, nil
}

func renderCandidateTable(candidates []api.Candidate) string {
	rows := make([][]string, 0, len(candidates))
	for _, candidate := range candidates {
		decision := "-"
		if candidate.Decided {
			if candidate.Approved {
				decision = "approved"
			} else {
				decision = "rejected"
			}
		}
		rating := "-"
		if candidate.Rating > 0 {
			rating = strconv.Itoa(candidate.Rating)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%.0f", candidate.Start),
			formatDuration(candidate.Start),
			formatDuration(candidate.End),
			fmt.Sprintf("%.1f", candidate.Score),
			strings.Join(candidate.Kinds, "+"),
			decision,
			rating,
		})
	}
	return renderTable(
		[]string{"Start", "From", "To", "Score", "Signals", "Decision", "Rating"},
		rows,
		0, 1, 2, 3, 6,
	)
}
