package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	formsync "github.com/goliatone/go-formsync"
	"github.com/goliatone/go-formsync/adapters/gologger"
	"github.com/goliatone/go-formsync/core"
)

func main() {
	envFile := flag.String("env-file", ".env", "dotenv file read before the process environment")
	addr := flag.String("addr", "", "listen address, defaults to APP_HOST:APP_PORT")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap := gologger.New(core.DefaultConfig().Logging, os.Stderr)
	cfg, err := core.LoadConfig(ctx, *envFile)
	if err != nil {
		bootstrap.Fatal("formsync: config", "error", err)
	}

	base := gologger.New(cfg.Logging, os.Stderr)
	app, err := formsync.New(cfg,
		formsync.WithLogger(base),
		formsync.WithLoggerProvider(gologger.NewProvider(base)),
		formsync.WithAccessLog(os.Stdout),
	)
	if err != nil {
		base.Fatal("formsync: startup", "error", err)
	}

	errs := make(chan error, 1)
	go func() {
		errs <- app.Listen(*addr)
	}()

	select {
	case err := <-errs:
		if err != nil {
			base.Fatal("formsync: listen", "error", err)
		}
		return
	case <-ctx.Done():
	}

	timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		base.Error("formsync: shutdown", "error", err)
		os.Exit(1)
	}
}
