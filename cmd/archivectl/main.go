package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clinic-archive/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cli.OpenFromEnv).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "archivectl: %v\n", err)
		stop()
		os.Exit(1)
	}
}
