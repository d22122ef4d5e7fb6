package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clambin/ledblink/internal/cmd"
)

var version = "change-me"

func main() {
	ctx, done := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Main(ctx, os.Args[0], os.Args[1:], version)
	done()
	os.Exit(code)
}
