package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/daysync/internal/client/sync"
)

var errNotSignedIn = errors.New("not signed in, run 'daysync login' first")

func (c *Cli) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull remote data, migrate stale documents and pull again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()

			report, err := c.sync.Sync(cmd.Context())
			if err != nil {
				if errors.Is(err, sync.ErrNotAuthenticated) {
					return errNotSignedIn
				}
				return fmt.Errorf("synchronization failed: %w", err)
			}

			c.io.Printf("✓ Synchronization finished (took %s)\n", time.Since(start).Round(time.Millisecond))
			c.printReport(report)
			return nil
		},
	}
}

func (c *Cli) reconcileCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Move remote documents stored under stale ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				summary, err := c.sync.Inspect(cmd.Context())
				if err != nil {
					if errors.Is(err, sync.ErrNotAuthenticated) {
						return errNotSignedIn
					}
					return fmt.Errorf("failed to read remote documents: %w", err)
				}
				c.io.Printf("%d of %d remote document(s) need migration\n", summary.NonCanonical, summary.Documents)
				return nil
			}

			report, err := c.sync.Reconcile(cmd.Context())
			switch {
			case errors.Is(err, sync.ErrNotAuthenticated):
				return errNotSignedIn
			case errors.Is(err, sync.ErrIncomplete):
				c.printReport(report)
				return err
			case err != nil:
				return err
			}

			c.io.Printf("✓ Migrated %d document(s)\n", report.Moved)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only count documents that need migration")

	return cmd
}
