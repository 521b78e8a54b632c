// Package cli реализует консольный клиент mapi поверх HTTP клиента микроблога.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iudanet/microblog/internal/client/api"
	"github.com/iudanet/microblog/internal/client/iocli"
	"github.com/iudanet/microblog/internal/client/storage"
	"github.com/iudanet/microblog/internal/client/storage/boltdb"
)

const (
	// DefaultServer адрес сервера по умолчанию
	DefaultServer = "http://localhost:12346"
	// DefaultSessionFile имя файла сессии в домашнем каталоге
	DefaultSessionFile = ".mapi-session.db"
	// PasswordEnv переменная окружения с паролем для неинтерактивного запуска
	PasswordEnv = "MAPI_PASSWORD"
)

var errNotLoggedIn = errors.New("not logged in. Please run 'mapi login' first")

// Cli консольный клиент
type Cli struct {
	io          iocli.IO
	store       *boltdb.Storage
	version     string
	serverURL   string
	sessionPath string
	serverSet   bool // --server задан явно
}

// New создает клиент
func New(io iocli.IO, version string) *Cli {
	return &Cli{io: io, version: version}
}

// Execute разбирает аргументы (без имени программы) и выполняет команду
func (c *Cli) Execute(ctx context.Context, args []string) error {
	root := c.Command()
	root.SetArgs(args)

	defer func() {
		if c.store != nil {
			_ = c.store.Close()
			c.store = nil
		}
	}()

	return root.ExecuteContext(ctx)
}

// Command собирает дерево команд
func (c *Cli) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "mapi",
		Short:         "Command line client for the microblog API",
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.serverSet = cmd.Flags().Changed("server")
			return c.openStore(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&c.serverURL, "server", DefaultServer, "server URL")
	root.PersistentFlags().StringVar(&c.sessionPath, "session", defaultSessionPath(), "path to local session file")

	root.AddCommand(
		c.registerCommand(),
		c.loginCommand(),
		c.logoutCommand(),
		c.whoamiCommand(),
		c.profileCommand(),
		c.postCommand(),
		c.showCommand(),
		c.deleteCommand(),
		c.followCommand(),
		c.unfollowCommand(),
		c.postsCommand(),
		c.timelineCommand(),
	)

	return root
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultSessionFile
	}
	return filepath.Join(home, DefaultSessionFile)
}

func (c *Cli) openStore(ctx context.Context) error {
	if c.store != nil {
		return nil
	}

	store, err := boltdb.New(ctx, c.sessionPath)
	if err != nil {
		return fmt.Errorf("failed to open session file: %w", err)
	}
	c.store = store

	return nil
}

// session возвращает текущую сессию или errNotLoggedIn
func (c *Cli) session(ctx context.Context) (*storage.Session, error) {
	session, err := c.store.GetSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return nil, errNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return session, nil
}

// anonClient клиент без токена. Сервер: --server, иначе сервер сессии, иначе по умолчанию
func (c *Cli) anonClient(ctx context.Context) *api.Client {
	if !c.serverSet {
		if session, err := c.store.GetSession(ctx); err == nil && session.Server != "" {
			return api.NewClient(session.Server)
		}
	}
	return api.NewClient(c.serverURL)
}

// authClient клиент с токеном текущей сессии. Токен действителен только
// на выдавшем его сервере, поэтому адрес берется из сессии
func (c *Cli) authClient(ctx context.Context) (*api.Client, *storage.Session, error) {
	session, err := c.session(ctx)
	if err != nil {
		return nil, nil, err
	}
	return api.NewClient(session.Server).WithToken(session.Token), session, nil
}

// readPassword читает пароль: сначала из MAPI_PASSWORD, затем интерактивно.
// confirm запрашивает повторный ввод
func (c *Cli) readPassword(prompt string, confirm bool) (string, error) {
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	if confirm {
		again, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return "", fmt.Errorf("failed to read confirmation: %w", err)
		}
		if again != password {
			return "", fmt.Errorf("passwords do not match")
		}
	}

	return password, nil
}

// usernameArg берет username из аргумента или спрашивает
func (c *Cli) usernameArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return "", fmt.Errorf("failed to read username: %w", err)
	}
	return username, nil
}
