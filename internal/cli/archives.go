package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"clinic-archive/internal/app"
	"clinic-archive/internal/model"
	"clinic-archive/internal/service"
)

const dateLayout = "2006-01-02 15:04"

func newListCommand(open Opener) *cobra.Command {
	var expiredOnly bool

	cmd := &cobra.Command{
		Use:     "list <patients|employees>",
		Short:   "List archive entries",
		Aliases: []string{"ls"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityType, err := model.ParseEntityType(args[0])
			if err != nil {
				return err
			}

			return withServices(cmd, open, func(ctx context.Context, s *app.Services) error {
				store, err := s.Archives.List(ctx, entityType)
				if err != nil {
					return err
				}

				now := time.Now().UTC()
				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleRounded)
				t.AppendHeader(table.Row{"Entity ID", "#", "Name", "Reason", "Archived", "Expires", "Status"})

				ids := make([]string, 0, len(store))
				for id := range store {
					ids = append(ids, id)
				}
				sort.Strings(ids)

				shown := 0
				for _, id := range ids {
					for i, entry := range store[id] {
						expired := entry.Expired(now)
						if expiredOnly && !expired {
							continue
						}
						t.AppendRow(table.Row{id, i, entry.Name, entry.Reason, entry.ArchivedAt.Format(dateLayout), formatExpiry(entry.ExpiryDate), entryStatus(expired)})
						shown++
					}
				}

				t.AppendFooter(table.Row{"", "", "", "", "", "Total", shown})
				t.Render()
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "Show only entries past their retention period")
	return cmd
}

func newPurgeCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "purge [patients|employees]...",
		Short: "Permanently remove expired archive entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := parseEntityTypes(args)
			if err != nil {
				return err
			}

			return withServices(cmd, open, func(ctx context.Context, s *app.Services) error {
				for _, entityType := range types {
					purged, err := s.Archives.PurgeExpired(ctx, entityType, model.PurgeModeManual, cliActor())
					if err != nil {
						return fmt.Errorf("purge %s: %w", entityType, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", entityType, service.PurgeMessage(purged))
				}
				return nil
			})
		},
	}
}

func newSweepCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep [patients|employees]...",
		Short: "Archive inactive entities and purge expired entries now",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := parseEntityTypes(args)
			if err != nil {
				return err
			}

			return withServices(cmd, open, func(ctx context.Context, s *app.Services) error {
				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleRounded)
				t.AppendHeader(table.Row{"Entity Type", "Archived", "Purged"})

				for _, entityType := range types {
					result, err := s.Archives.Sweep(ctx, entityType)
					if err != nil {
						return fmt.Errorf("sweep %s: %w", entityType, err)
					}
					t.AppendRow(table.Row{result.EntityType, result.Archived, result.Purged})
				}

				t.Render()
				return nil
			})
		},
	}
}

func formatExpiry(expiry *time.Time) string {
	if expiry == nil {
		return "never"
	}
	return expiry.Format(dateLayout)
}

func entryStatus(expired bool) string {
	if expired {
		return text.FgRed.Sprint("expired")
	}
	return text.FgGreen.Sprint("retained")
}
