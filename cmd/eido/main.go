// Command eido renders architecture descriptions as Excalidraw scenes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fish-not-phish/eido/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.New(os.Stderr, cli.LogInfo).Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
