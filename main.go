package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardnew/apibody/cli"
	"github.com/ardnew/apibody/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	if err != nil {
		log.ErrorContext(ctx, "apibody failed", slog.Any("error", err))
		os.Exit(1)
	}
}
