package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func (c *Cli) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show identity, sync state and local data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session := c.sync.Session()

			deviceID, err := c.store.DeviceID(ctx)
			if err != nil {
				return err
			}
			entries, err := c.cache.Entries()
			if err != nil {
				return err
			}

			c.io.Println("=== DaySync Status ===")
			c.io.Printf("Identity: %s\n", session.Identity())
			c.io.Printf("State:    %s\n", c.sync.State())
			c.io.Printf("Server:   %s\n", c.cfg.ServerURL)
			c.io.Printf("Device:   %s\n", deviceID)
			c.io.Printf("Entries:  %d\n", len(entries))

			if !session.Authenticated() {
				if session == nil {
					c.io.Println("Run 'daysync login' to synchronize or 'daysync guest' to stay local.")
				}
				return nil
			}

			expiresAt := time.Unix(session.ExpiresAt, 0)
			if session.Expired(time.Now()) {
				c.io.Println("⚠️  Session has expired. Please login again.")
			} else {
				c.io.Printf("Session expires: %s\n", expiresAt.Format(time.RFC3339))
			}

			if client, err := c.remoteClient(); err == nil {
				if me, err := client.Me(ctx); err == nil {
					c.io.Printf("Account:  %s, created %s\n", me.UserID, me.CreatedAt.Local().Format(time.DateOnly))
				}
			}

			summary, err := c.sync.Inspect(ctx)
			if err != nil {
				// сервер недоступен: статус все равно показываем
				c.io.Printf("Remote:   unavailable (%v)\n", err)
				return nil
			}
			c.io.Printf("Remote:   %d document(s), %d under stale ids\n", summary.Documents, summary.NonCanonical)
			if summary.NonCanonical > 0 {
				c.io.Println("Run 'daysync reconcile' to migrate them.")
			}
			return nil
		},
	}
}
