package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/daysync/internal/client/api"
	"github.com/iudanet/daysync/internal/keynorm"
)

func (c *Cli) getCommand() *cobra.Command {
	var fromServer bool

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the stored JSON value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if fromServer {
				return c.printRemote(cmd.Context(), key)
			}

			raw, ok, err := c.cache.Raw(key)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("key %q not found", key)
			}
			c.printJSON(raw)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromServer, "remote", false, "Read the server copy instead of the local one")

	return cmd
}

// printRemote shows the document stored under the canonical id of key
func (c *Cli) printRemote(ctx context.Context, key string) error {
	client, err := c.remoteClient()
	if err != nil {
		return err
	}

	docID := keynorm.Normalize(key)
	doc, err := client.GetDocument(ctx, docID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("key %q not found on server (document %q)", key, docID)
		}
		return err
	}

	c.printJSON(doc.Value)
	c.io.Printf("# document %s, written %s\n", doc.ID, doc.WrittenAt.Local().Format(time.RFC3339))
	return nil
}

func (c *Cli) printJSON(raw string) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(raw), "", "  "); err != nil {
		// не JSON: показываем как есть
		c.io.Println(raw)
		return
	}
	c.io.Println(pretty.String())
}

func (c *Cli) setCommand() *cobra.Command {
	var asString bool

	cmd := &cobra.Command{
		Use:   "set <key> <json>",
		Short: "Store a JSON value under a key",
		Long: `Store a JSON value under a key. When signed in the value is pushed
to the server in the background; the command waits for the push before exiting.

Example:
  daysync set todos-2025-06-01 '[{"text":"water plants","done":false}]'
  daysync set pomoSessions-6/1/2025 3
  daysync set --string quoteIdx 'carpe diem'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if key == "" {
				return fmt.Errorf("key must not be empty")
			}

			var stored any = value
			if !asString {
				if !json.Valid([]byte(value)) {
					return fmt.Errorf("value is not valid JSON (use --string to store plain text)")
				}
				stored = json.RawMessage(value)
			}

			if err := c.cache.Set(key, stored); err != nil {
				return err
			}

			if c.sync.Excluded(key) {
				c.io.Printf("Saved %s (device-local, never synchronized)\n", key)
				return nil
			}
			if keynorm.HasIllegal(key) {
				c.io.Printf("Saved %s (document %s)\n", key, keynorm.Normalize(key))
				return nil
			}
			c.io.Printf("Saved %s\n", key)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asString, "string", false, "Store the value as a JSON string")

	return cmd
}

func (c *Cli) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a key from this device only",
		Long: `Remove a key from the local cache. The server copy is kept and
comes back on the next pull.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cache.Delete(args[0]); err != nil {
				return err
			}
			c.io.Printf("Removed %s from this device\n", args[0])
			return nil
		},
	}
}

func (c *Cli) keysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List keys stored on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := c.cache.Entries()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				c.io.Println("No data stored on this device.")
				return nil
			}

			sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
			for _, e := range entries {
				if c.sync.Excluded(e.Key) {
					c.io.Printf("%s\t(local)\n", e.Key)
					continue
				}
				c.io.Println(e.Key)
			}
			return nil
		},
	}
}
