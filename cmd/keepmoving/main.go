package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/stigoleg/keep-moving/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), getSignalsForPlatform()...)
	code := cli.Execute(ctx, version, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
