package cli

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"clinic-archive/internal/app"
	"clinic-archive/internal/model"
)

func newSettingsCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change archive settings",
	}

	cmd.AddCommand(newSettingsGetCommand(open), newSettingsSetCommand(open))
	return cmd
}

func newSettingsGetCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "get [patients|employees]...",
		Short: "Show archive settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := parseEntityTypes(args)
			if err != nil {
				return err
			}

			return withServices(cmd, open, func(ctx context.Context, s *app.Services) error {
				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleRounded)
				t.AppendHeader(table.Row{"Entity Type", "Enabled", "Inactive Months", "Retention Days"})

				for _, entityType := range types {
					settings, err := s.Settings.Get(ctx, entityType)
					if err != nil {
						return err
					}
					t.AppendRow(table.Row{entityType, settings.Enabled, settings.Months, settings.RetentionDays})
				}

				t.Render()
				return nil
			})
		},
	}
}

func newSettingsSetCommand(open Opener) *cobra.Command {
	var (
		enabled       bool
		months        int
		retentionDays int
	)

	cmd := &cobra.Command{
		Use:   "set <patients|employees>",
		Short: "Change archive settings; omitted flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityType, err := model.ParseEntityType(args[0])
			if err != nil {
				return err
			}

			return withServices(cmd, open, func(ctx context.Context, s *app.Services) error {
				settings, err := s.Settings.Get(ctx, entityType)
				if err != nil {
					return err
				}

				flags := cmd.Flags()
				if flags.Changed("enabled") {
					settings.Enabled = enabled
				}
				if flags.Changed("months") {
					settings.Months = months
				}
				if flags.Changed("retention-days") {
					settings.RetentionDays = retentionDays
				}

				saved, err := s.Settings.Save(ctx, entityType, settings, cliActor())
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s: enabled=%t months=%d retention_days=%d\n", entityType, saved.Enabled, saved.Months, saved.RetentionDays)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&enabled, "enabled", false, "Enable automatic archival")
	cmd.Flags().IntVar(&months, "months", 0, "Months of inactivity before automatic archival")
	cmd.Flags().IntVar(&retentionDays, "retention-days", 0, "Days an archive entry is kept before purge")
	return cmd
}
