package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type credentialFlags struct {
	username string
	Passwords
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "Account username")
	cmd.Flags().StringVar(&f.FromArgs, "password", "", "Password (not recommended, use DAYSYNC_PASSWORD or a file)")
	cmd.Flags().StringVar(&f.FromFile, "password-file", "", "Path to file containing the password")
}

func (c *Cli) registerCommand() *cobra.Command {
	var flags credentialFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := c.username(flags.username)
			if err != nil {
				return err
			}

			password, prompted, err := c.getPassword(flags.Passwords, "Password (min 8 chars): ")
			if err != nil {
				return err
			}
			if prompted {
				confirm, err := c.io.ReadPassword("Confirm password: ")
				if err != nil {
					return fmt.Errorf("failed to read confirmation: %w", err)
				}
				if confirm != password {
					return fmt.Errorf("passwords do not match")
				}
			}

			userID, err := c.provider.Register(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			c.io.Println("✓ Registration successful!")
			c.io.Printf("Username: %s\n", username)
			c.io.Printf("User ID:  %s\n", userID)
			c.io.Println("Run 'daysync login' to start synchronizing.")
			return nil
		},
	}
	flags.bind(cmd)

	return cmd
}

func (c *Cli) loginCommand() *cobra.Command {
	var flags credentialFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and run the first synchronization",
		Long: `Sign in to the server. Local data of a guest session is discarded;
data of a previously signed-in account is uploaded to that account first.
The command returns after pull and migration have finished.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := c.username(flags.username)
			if err != nil {
				return err
			}
			password, _, err := c.getPassword(flags.Passwords, "Password: ")
			if err != nil {
				return err
			}

			session, err := c.provider.SignIn(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			c.io.Println("✓ Login successful!")
			c.io.Printf("Username: %s\n", session.Username)
			c.io.Printf("Device:   %s\n", session.DeviceID)
			c.printReport(c.last)
			return nil
		},
	}
	flags.bind(cmd)

	return cmd
}

func (c *Cli) guestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "guest",
		Short: "Use this device without an account",
		Long: `Continue as a guest. Data stays on this device and is never uploaded.
Signing in later discards guest data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.provider.ContinueAsGuest(cmd.Context()); err != nil {
				return err
			}
			c.io.Println("Guest mode: data stays on this device only.")
			return nil
		},
	}
}

func (c *Cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Upload local data, then clear it and sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := c.sync.Session()
			if current == nil {
				c.io.Println("Not signed in.")
				return nil
			}

			if err := c.provider.SignOut(cmd.Context()); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}

			c.io.Printf("✓ Signed out %s\n", current.Identity())
			c.io.Println("Local data has been cleared from this device.")
			return nil
		},
	}
}
