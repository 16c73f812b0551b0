// Package cli implements the daysync command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/iudanet/daysync/internal/client/api"
	"github.com/iudanet/daysync/internal/client/auth"
	"github.com/iudanet/daysync/internal/client/cache"
	"github.com/iudanet/daysync/internal/client/iocli"
	"github.com/iudanet/daysync/internal/client/remote"
	"github.com/iudanet/daysync/internal/client/storage/boltdb"
	"github.com/iudanet/daysync/internal/client/sync"
	"github.com/iudanet/daysync/internal/config"
	"github.com/iudanet/daysync/internal/models"
)

// PasswordEnv позволяет передать пароль без интерактивного ввода
const PasswordEnv = "DAYSYNC_PASSWORD"

// drainTimeout ограничивает ожидание очереди push при выходе
const drainTimeout = 30 * time.Second

// Passwords are the non-interactive password sources
type Passwords struct {
	FromFile string
	FromArgs string
}

// Cli holds everything one command invocation needs.
// Fields are filled by open before any command runs.
type Cli struct {
	io        iocli.IO
	cfg       *config.ClientConfig
	logger    *slog.Logger
	logCloser io.Closer
	api       *api.Client
	store     *boltdb.Storage
	cache     *cache.Cache
	sync      *sync.Service
	provider  *auth.Provider
	last      *sync.Report
}

// Execute runs the command line with args and releases resources afterwards
func Execute(ctx context.Context, version string, console iocli.IO, args []string) error {
	c := &Cli{io: console}

	root := c.rootCommand(version)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, c.close())
}

// open wires storage, remote access and the orchestrator.
// A persisted session is resumed without pulling.
func (c *Cli) open(ctx context.Context, cfg *config.ClientConfig) error {
	logger, logCloser, err := config.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	c.cfg, c.logger, c.logCloser = cfg, logger, logCloser

	store, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open local database: %w", err)
	}
	c.store = store
	c.cache = cache.New(store, logger)

	apiClient := api.NewClient(cfg.ServerURL, cfg.HTTPTimeout)
	c.api = apiClient
	opts := remote.DefaultOptions()
	opts.PushRetries = cfg.PushRetries
	opts.FlushConcurrency = cfg.FlushConcurrency
	opts.FlushBatchSize = cfg.FlushBatchSize

	c.sync = sync.New(c.cache, func(session *models.Session) sync.RemoteStore {
		return remote.New(apiClient.WithSession(session.AccessToken, session.DeviceID), logger, opts)
	}, logger, sync.Options{ExcludedKeys: cfg.ExcludedKeys})
	c.sync.OnAfterReconcile(func(ctx context.Context, report sync.Report) {
		c.last = &report
	})

	c.provider = auth.NewProvider(apiClient, store, logger)
	c.provider.OnSessionChange(c.sync.HandleSessionChange)

	session, err := c.provider.Current(ctx)
	if err != nil {
		return err
	}
	c.sync.Resume(session)

	return nil
}

// close drains pending pushes and closes the database; safe before open
func (c *Cli) close() error {
	var errs []error

	if c.sync != nil {
		ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		if err := c.sync.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close local database: %w", err))
		}
	}
	if c.logCloser != nil {
		_ = c.logCloser.Close()
	}

	return errors.Join(errs...)
}

// getPassword retrieves the password with priority:
// 1. Environment variable DAYSYNC_PASSWORD
// 2. File given by --password-file
// 3. Command-line parameter --password
// 4. Interactive prompt (fallback)
func (c *Cli) getPassword(passwords Passwords, prompt string) (string, bool, error) {
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, false, nil
	}

	if passwords.FromFile != "" {
		content, err := os.ReadFile(passwords.FromFile)
		if err != nil {
			return "", false, fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", false, fmt.Errorf("password file is empty")
		}
		return password, false, nil
	}

	if passwords.FromArgs != "" {
		return passwords.FromArgs, false, nil
	}

	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", false, fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", false, fmt.Errorf("password cannot be empty")
	}
	return password, true, nil
}

// username returns the flag value or asks for it
func (c *Cli) username(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	name, err := c.io.ReadInput("Username: ")
	if err != nil {
		return "", fmt.Errorf("failed to read username: %w", err)
	}
	return name, nil
}

// remoteClient returns an api client authorized as the current session
func (c *Cli) remoteClient() (*api.Client, error) {
	session := c.sync.Session()
	if !session.Authenticated() {
		return nil, errNotSignedIn
	}
	return c.api.WithSession(session.AccessToken, session.DeviceID), nil
}

func (c *Cli) printReport(report *sync.Report) {
	if report == nil {
		return
	}
	c.io.Printf("Pulled:   %d document(s)\n", report.Pulled)
	if report.Flushed > 0 {
		c.io.Printf("Uploaded: %d entr(ies) to an empty account\n", report.Flushed)
	}
	if report.Moved > 0 {
		c.io.Printf("Migrated: %d document(s) to canonical ids\n", report.Moved)
	}
	if report.Failed {
		c.io.Println("Warning: some steps failed, local data was kept. Check the log and run 'daysync sync' again.")
	}
}
