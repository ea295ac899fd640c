// Package cli implements the interactive command loop of the account CLI.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/saedev/sae-auth/internal/client/client"
	"github.com/saedev/sae-auth/internal/client/config"
)

// api is the subset of client.Client the command loop depends on.
// Tests substitute a fake.
type api interface {
	Register(ctx context.Context, username, email string, password []byte) (*client.User, error)
	Login(ctx context.Context, email string, password []byte) (*client.Session, error)
	Profile(ctx context.Context) (*client.User, error)
	UpdateProfile(ctx context.Context, username, email *string) (*client.User, error)
	UpdatePassword(ctx context.Context, current, new []byte) error
	UpdateAvatar(ctx context.Context, avatar string) error
	SetToken(token string)
}

type App struct {
	config *config.Config
	api    api
	user   *client.User
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	apiClient := client.NewClient(c.ServerEndpointAddr)
	return &App{config: c, api: apiClient, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}
