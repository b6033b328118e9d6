package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"wheelhouse/config"
	"wheelhouse/events"
	"wheelhouse/service"
)

// Grant runs the grant subcommand: wheelhouse grant <account> <amount> [reason...]
// A negative amount debits the account.
func Grant(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: wheelhouse grant <account> <amount> [reason]")
	}
	accountID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid account id %q: %w", args[0], err)
	}
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}
	reason := "admin grant"
	if len(args) > 2 {
		reason = strings.Join(args[2:], " ")
	}

	cfg := config.Get()
	ConfigureLogging(cfg)
	if cfg.Storage != config.StoragePostgres {
		return fmt.Errorf("grant needs STORAGE=postgres; in-memory balances do not outlive the command")
	}

	uowFactory, closeStorage, err := openStorage(ctx, cfg, events.NewBus())
	if err != nil {
		return err
	}
	defer closeStorage()

	balance, err := service.NewAccountService(uowFactory, cfg).Grant(ctx, accountID, amount, reason)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "account %d balance: %d\n", accountID, balance)
	return nil
}
