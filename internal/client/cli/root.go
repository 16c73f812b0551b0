package cli

import (
	"github.com/spf13/cobra"

	"github.com/iudanet/daysync/internal/config"
)

type rootFlags struct {
	server   string
	db       string
	logLevel string
	logFile  string
}

func (c *Cli) rootCommand(version string) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:   "daysync",
		Short: "DaySync - planner data synchronization client",
		Long: `DaySync keeps the local planner cache of this device in step with
your account on a DaySync server.

Work offline or as a guest; sign in to push every change to the server
and pull what your other devices wrote.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &flags)
			if err != nil {
				return err
			}
			return c.open(cmd.Context(), cfg)
		},
	}

	root.PersistentFlags().StringVar(&flags.server, "server", "", "Server URL (env DAYSYNC_SERVER)")
	root.PersistentFlags().StringVar(&flags.db, "db", "", "Path to local database (env DAYSYNC_DB)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (env DAYSYNC_LOG_LEVEL)")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Write logs to a rotated file (env DAYSYNC_LOG_FILE)")

	root.SetOut(c.io)
	root.SetErr(c.io)

	root.AddCommand(
		c.registerCommand(),
		c.loginCommand(),
		c.guestCommand(),
		c.logoutCommand(),
		c.statusCommand(),
		c.getCommand(),
		c.setCommand(),
		c.deleteCommand(),
		c.keysCommand(),
		c.syncCommand(),
		c.reconcileCommand(),
	)

	return root
}

// loadConfig reads the environment and applies explicitly set flags on top
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.ClientConfig, error) {
	cfg := &config.ClientConfig{}
	if err := config.ParseEnv(cfg); err != nil {
		return nil, err
	}

	pf := cmd.Flags()
	if pf.Changed("server") {
		cfg.ServerURL = flags.server
	}
	if pf.Changed("db") {
		cfg.DBPath = flags.db
	}
	if pf.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if pf.Changed("log-file") {
		cfg.LogFile = flags.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
