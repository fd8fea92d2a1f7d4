package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/billarchive/internal/cli"
	"github.com/dmitrijs2005/billarchive/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, args, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Printf("%v", err)
		return 2
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	defer app.Close()

	if err := app.Run(ctx, args); err != nil {
		log.Printf("%v", err)
		return 1
	}
	return 0
}
