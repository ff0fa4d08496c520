package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/titansafe/timetable/internal/cli"
	"github.com/titansafe/timetable/internal/logging"
)

func main() {

	cfg, err := cli.ParseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(cfg, os.Stdout, logging.New(os.Stderr, cfg.LogLevel))
	if err := app.Run(ctx); err != nil {
		stop()
		log.Fatalf("%v", err)
	}

}
