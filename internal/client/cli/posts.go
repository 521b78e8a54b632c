package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/microblog/internal/client/api"
	pkgapi "github.com/iudanet/microblog/pkg/api"
)

func (c *Cli) postCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "post <text>",
		Short: "Publish a post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, session, err := c.authClient(ctx)
			if err != nil {
				return err
			}

			id, err := client.CreatePost(ctx, session.Username, strings.Join(args, " "))
			if err != nil {
				return err
			}

			c.io.Printf("✓ Post #%d published\n", id)
			return nil
		},
	}
}

func (c *Cli) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parsePostID(args[0])
			if err != nil {
				return err
			}

			post, err := c.anonClient(ctx).GetPost(ctx, id)
			if err != nil {
				return err
			}

			c.printPost(post)
			return nil
		},
	}
}

func (c *Cli) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete own post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parsePostID(args[0])
			if err != nil {
				return err
			}

			client, _, err := c.authClient(ctx)
			if err != nil {
				return err
			}

			if err := client.DeletePost(ctx, id); err != nil {
				return err
			}

			c.io.Printf("✓ Post #%d deleted\n", id)
			return nil
		},
	}
}

func (c *Cli) postsCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "posts <username>",
		Short: "List posts of a user, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client := c.anonClient(ctx)
			page, err := client.ListPosts(ctx, args[0])
			if err != nil {
				return err
			}

			return c.printPages(ctx, client, page, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "follow next links until the last page")

	return cmd
}

func (c *Cli) timelineCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show posts of followed users, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, session, err := c.authClient(ctx)
			if err != nil {
				return err
			}

			page, err := client.Timeline(ctx, session.Username)
			if err != nil {
				return err
			}

			return c.printPages(ctx, client, page, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "follow next links until the last page")

	return cmd
}

// printPages печатает страницу и, если all, все следующие
func (c *Cli) printPages(ctx context.Context, client *api.Client, page *pkgapi.PostListResponse, all bool) error {
	if len(page.Posts) == 0 {
		c.io.Println("No posts.")
		return nil
	}

	for {
		for i := range page.Posts {
			c.printPost(&page.Posts[i])
		}

		if page.Next == "" {
			return nil
		}
		if !all {
			c.io.Println("More posts available, use --all to show everything.")
			return nil
		}

		next, err := client.Next(ctx, page.Next)
		if err != nil {
			return err
		}
		page = next
	}
}

func (c *Cli) printPost(post *pkgapi.PostResponse) {
	c.io.Printf("#%d %s at %s\n", post.ID, post.Author, post.CreatedAt.Local().Format("2006-01-02 15:04"))
	c.io.Println(post.Text)
	c.io.Println()
}

func parsePostID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(value, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid post id: %s", value)
	}
	return id, nil
}
