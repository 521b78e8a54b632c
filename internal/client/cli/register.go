package cli

import (
	"github.com/spf13/cobra"

	"github.com/iudanet/microblog/pkg/api"
)

func (c *Cli) registerCommand() *cobra.Command {
	var realName string

	cmd := &cobra.Command{
		Use:   "register [username]",
		Short: "Register new user",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			username, err := c.usernameArg(args)
			if err != nil {
				return err
			}

			password, err := c.readPassword("Password (min 8 chars): ", true)
			if err != nil {
				return err
			}

			location, err := c.anonClient(ctx).CreateUser(ctx, api.CreateUserRequest{
				Username: username,
				Password: password,
				RealName: realName,
			})
			if err != nil {
				return err
			}

			c.io.Println("✓ Registration successful!")
			c.io.Printf("Profile: %s\n", location)
			c.io.Println("Please run 'mapi login' to start posting.")

			return nil
		},
	}

	cmd.Flags().StringVar(&realName, "real-name", "", "display name")

	return cmd
}
