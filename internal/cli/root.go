// Package cli implements archivectl, the operator tool for inspecting and
// maintaining clinic archives directly against the state backend.
package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"clinic-archive/internal/app"
	"clinic-archive/internal/config"
	"clinic-archive/internal/logger"
	"clinic-archive/internal/model"
)

// Opener connects to the archive domain. Callers close the returned services.
type Opener func(ctx context.Context) (*app.Services, error)

// OpenFromEnv builds services from the same environment the server reads.
func OpenFromEnv(ctx context.Context) (*app.Services, error) {
	cfg, err := config.LoadTool()
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger.New(os.Stderr, cfg.LogFormat, cfg.LogLevel))
	return app.NewServices(ctx, cfg)
}

func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "archivectl",
		Short:         "Inspect and maintain patient and employee archives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newListCommand(open),
		newPurgeCommand(open),
		newSweepCommand(open),
		newSettingsCommand(open),
	)

	return root
}

func withServices(cmd *cobra.Command, open Opener, fn func(ctx context.Context, s *app.Services) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	services, err := open(ctx)
	if err != nil {
		return err
	}
	defer services.Close()

	return fn(ctx, services)
}

func parseEntityTypes(args []string) ([]model.EntityType, error) {
	if len(args) == 0 {
		return model.EntityTypes, nil
	}

	types := make([]model.EntityType, 0, len(args))
	for _, arg := range args {
		entityType, err := model.ParseEntityType(arg)
		if err != nil {
			return nil, err
		}
		types = append(types, entityType)
	}
	return types, nil
}

func cliActor() model.AuditActor {
	username := strings.TrimSpace(os.Getenv("USER"))
	if username == "" {
		username = "archivectl"
	}
	return model.AuditActor{UserID: "cli", Username: username, Role: model.RoleAdmin}
}
