package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chris/split-ledger/pkg/audit"
	"github.com/chris/split-ledger/pkg/bootstrap"
	"github.com/chris/split-ledger/pkg/config"
	"github.com/chris/split-ledger/pkg/expenses"
	"github.com/chris/split-ledger/pkg/models"
	"github.com/chris/split-ledger/pkg/money"
	"github.com/google/subcommands"
)

// errEphemeralStore rejects the memory backend: every run would start empty.
var errEphemeralStore = errors.New("splitctl needs a persistent store; set STORE_BACKEND to postgres or dynamodb")

func checkBackend(cfg *config.Config) error {
	if cfg.StoreBackend == config.BackendMemory {
		return errEphemeralStore
	}
	return nil
}

// openService wires a Service against the configured store. Events are not
// published from the CLI. Errors are printed and turned into an exit status.
func openService(ctx context.Context) (*expenses.Service, func(), subcommands.ExitStatus) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, subcommands.ExitUsageError
	}
	if err := checkBackend(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, nil, subcommands.ExitUsageError
	}
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, subcommands.ExitFailure
	}
	locker, closeLocker := bootstrap.NewLocker(cfg)

	service := expenses.NewService(store, nil, audit.New(store, locker, logger), logger)
	return service, func() {
		closeLocker()
		closeStore()
	}, subcommands.ExitSuccess
}

// parseSplits reads "U1=12.50,U2=7.50" into minor-unit splits.
func parseSplits(s, currency string) ([]models.Split, error) {
	var splits []models.Split
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		user, amount, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("split %q is not user=amount", part)
		}
		minor, err := money.ParseMajor(amount, currency)
		if err != nil {
			return nil, fmt.Errorf("split %q: %w", part, err)
		}
		splits = append(splits, models.Split{UserID: strings.TrimSpace(user), ShareAmount: minor})
	}
	return splits, nil
}

func parseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
