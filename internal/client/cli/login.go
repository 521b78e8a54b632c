package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/microblog/internal/client/storage"
)

func (c *Cli) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Login to server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			username, err := c.usernameArg(args)
			if err != nil {
				return err
			}

			password, err := c.readPassword("Password: ", false)
			if err != nil {
				return err
			}

			client := c.anonClient(ctx)
			token, err := client.CreateToken(ctx, username, password)
			if err != nil {
				return err
			}

			session := &storage.Session{
				Server:    client.BaseURL(),
				Username:  username,
				Token:     token,
				CreatedAt: time.Now().Unix(),
			}
			if err := c.store.SaveSession(ctx, session); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			c.io.Println("✓ Login successful!")
			c.io.Printf("Logged in as %s at %s\n", username, session.Server)

			return nil
		},
	}
}

func (c *Cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.store.DeleteSession(cmd.Context())
			if errors.Is(err, storage.ErrSessionNotFound) {
				c.io.Println("Not logged in.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}

			c.io.Println("✓ Logout successful!")
			return nil
		},
	}
}

func (c *Cli) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := c.session(cmd.Context())
			if errors.Is(err, errNotLoggedIn) {
				c.io.Println("Not logged in.")
				return nil
			}
			if err != nil {
				return err
			}

			c.io.Printf("Username: %s\n", session.Username)
			c.io.Printf("Server:   %s\n", session.Server)
			c.io.Printf("Since:    %s\n", time.Unix(session.CreatedAt, 0).Format(time.RFC3339))

			return nil
		},
	}
}
