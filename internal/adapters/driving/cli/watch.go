package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/claimsight/claimsight-cli/internal/adapters/driven/watch"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driven"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest new policy documents",
	Long: `Monitors a directory and ingests every supported document dropped
into it. Without an argument, uses the inbox.dir configuration value.
Runs until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	var dir string
	if len(args) > 0 {
		dir = args[0]
	} else if configStore != nil {
		dir = configStore.GetString(driven.ConfigInboxDir)
	}
	if dir == "" {
		return errors.New("no directory given: pass one or set inbox.dir")
	}

	watcher, err := watch.New(documentService, dir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for new documents. Press Ctrl+C to stop.\n", dir)

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
