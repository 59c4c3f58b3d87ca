package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alexanderramin/wbsdesk/internal/cli"
	"github.com/alexanderramin/wbsdesk/internal/config"
	"github.com/alexanderramin/wbsdesk/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	wireOpts := []cli.WireOption{cli.WithLogger(logger)}
	if cfg.LogCalls {
		wireOpts = append(wireOpts, cli.WithObserver(service.NewSlogUseCaseObserver(logger)))
	}

	// The database is opened after flag parsing, so --db and --as apply.
	app := &cli.App{
		Options:       cli.Options{DBPath: cfg.DBPath, User: cfg.User},
		IsInteractive: cli.StdinIsTerminal,
		Open: func(ctx context.Context, opts cli.Options) (*cli.App, error) {
			return cli.Open(ctx, opts, wireOpts...)
		},
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
