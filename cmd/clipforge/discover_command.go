package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipforge/internal/api"
	"clipforge/internal/services/twitch"
)

func newDiscoverCommand(ctx *commandContext) *cobra.Command {
	var channelID string
	var limit int
	var enqueue bool

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List recent VODs for the configured channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			channel := strings.TrimSpace(channelID)
			if channel == "" {
				channel = strings.TrimSpace(cfg.Twitch.ChannelID)
			}
			if channel == "" {
				return fmt.Errorf("no channel id configured; set twitch.channel_id or pass --channel")
			}
			if limit <= 0 {
				limit = cfg.Twitch.VODLimit
			}

			client := twitch.NewClient(cfg.Twitch.ClientID, cfg.Twitch.AccessToken)
			vods, err := client.RecentVODs(cmd.Context(), channel, limit)
			if err != nil {
				return err
			}
			if len(vods) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recent VODs found")
				return nil
			}

			rows := make([][]string, 0, len(vods))
			for _, vod := range vods {
				rows = append(rows, []string{
					vod.ID,
					truncateText(vod.Title, 48),
					formatDuration(vod.Duration.Seconds()),
					vod.CreatedAt.Format("2006-01-02 15:04"),
					vod.URL,
				})
			}
			table := renderTable(
				[]string{"ID", "Title", "Duration", "Created", "URL"},
				rows,
				0, 2,
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)

			if !enqueue {
				return nil
			}
			return ctx.withServices(func(queueSvc *api.QueueService, _ *api.ReviewService) error {
				out := cmd.OutOrStdout()
				for _, vod := range vods {
					item, err := queueSvc.Add(cmd.Context(), api.AddVODRequest{URL: vod.URL, Title: vod.Title})
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Queued item %d: %s\n", item.ID, displayTitle(item))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&channelID, "channel", "", "Twitch channel id (defaults to twitch.channel_id)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of VODs to list")
	cmd.Flags().BoolVar(&enqueue, "add", false, "Enqueue every listed VOD")
	return cmd
}
