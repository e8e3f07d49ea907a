package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/kobun/internal/entitlement"
)

// EntitlementGateway is the identity-platform surface the credits
// screen needs.
type EntitlementGateway interface {
	ResolveUser(ctx context.Context, token string) (entitlement.User, error)
	Fetch(ctx context.Context, token, userID string) (entitlement.Entitlement, error)
}

// CreditsCLI shows the account's credit balance and subscription state.
type CreditsCLI struct {
	gateway      EntitlementGateway
	token        string
	stdoutWriter io.Writer
	bold         *color.Color
}

func NewCreditsCLI(gateway EntitlementGateway, token string) *CreditsCLI {
	return &CreditsCLI{
		gateway:      gateway,
		token:        token,
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
	}
}

func (cli *CreditsCLI) Show(ctx context.Context) error {
	user, err := cli.gateway.ResolveUser(ctx, cli.token)
	if err != nil {
		return fmt.Errorf("gateway.ResolveUser() > %w", err)
	}
	ent, err := cli.gateway.Fetch(ctx, cli.token, user.ID)
	if err != nil {
		return fmt.Errorf("gateway.Fetch() > %w", err)
	}
	cli.print(ent)
	return nil
}

// Watch keeps polling the entitlement record and reprints it whenever
// it changes, until interrupted.
func (cli *CreditsCLI) Watch(ctx context.Context, interval time.Duration) error {
	user, err := cli.gateway.ResolveUser(ctx, cli.token)
	if err != nil {
		return fmt.Errorf("gateway.ResolveUser() > %w", err)
	}

	watcher := entitlement.NewWatcher(cli.gateway, cli.token, user.ID, interval)
	watcher.Subscribe(func(ent entitlement.Entitlement) {
		cli.print(ent)
	})

	fmt.Fprintln(cli.stdoutWriter, "Watching for changes. Press Ctrl-C to stop.")
	return watcher.Run(ctx)
}

func (cli *CreditsCLI) print(ent entitlement.Entitlement) {
	if ent.Subscribed {
		_, _ = cli.bold.Fprintln(cli.stdoutWriter, "Subscribed: unlimited analyses")
		return
	}
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "Credits remaining: %d\n", ent.Credits)
}
