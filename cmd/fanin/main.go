package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/adamzdara/Sample-Codes/app/fanin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := fanin.NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fanin: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fanin: %v\n", err)
		os.Exit(1)
	}
}
