package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/paramguard/cmd/paramguard/cmd"
	"github.com/dmitrymomot/paramguard/pkg/config"
)

func main() {
	var cfg cmd.Config
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "paramguard: %v\n", err)
		os.Exit(cmd.ExitConfig)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx, cfg, os.Args[1:], cmd.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	stop()
	os.Exit(code)
}
