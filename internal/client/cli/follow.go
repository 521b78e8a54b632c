package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func (c *Cli) profileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <username>",
		Short: "Show a user profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			user, err := c.anonClient(ctx).GetUser(ctx, args[0])
			if err != nil {
				return err
			}

			c.io.Printf("Username:  %s\n", user.Username)
			if user.RealName != "" {
				c.io.Printf("Real name: %s\n", user.RealName)
			}
			c.io.Printf("Followers (%d): %s\n", len(user.Followers), strings.Join(user.Followers, ", "))
			c.io.Printf("Following (%d): %s\n", len(user.Following), strings.Join(user.Following, ", "))

			return nil
		},
	}
}

func (c *Cli) followCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "follow <username>",
		Short: "Follow a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, session, err := c.authClient(ctx)
			if err != nil {
				return err
			}

			if err := client.Follow(ctx, session.Username, args[0]); err != nil {
				return err
			}

			c.io.Printf("✓ Following %s\n", args[0])
			return nil
		},
	}
}

func (c *Cli) unfollowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unfollow <username>",
		Short: "Stop following a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, session, err := c.authClient(ctx)
			if err != nil {
				return err
			}

			if err := client.Unfollow(ctx, session.Username, args[0]); err != nil {
				return err
			}

			c.io.Printf("✓ Unfollowed %s\n", args[0])
			return nil
		},
	}
}
