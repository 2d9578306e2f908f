package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"zerostour/cmd/zerosctl/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.NewCommand(ctx).Execute(); err != nil {
		os.Exit(1)
	}
}
