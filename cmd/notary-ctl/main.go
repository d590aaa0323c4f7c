// Command notary-ctl drives a notary agent over its websocket link: stamp a
// hash, wait for confirmation, verify a proof file
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"notary/cmd/notary-ctl/commands"
	"notary/internal/platform/logger"
)

func main() {
	// stdout carries command output; logs go to stderr and stay quiet by default
	lopt := logger.FromEnv("NOTARYCTL_")
	lopt.Writer = os.Stderr
	if os.Getenv("NOTARYCTL_LOG_LEVEL") == "" {
		lopt.Level = "warn"
	}
	logger.Init(lopt)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli := commands.New(os.Stdout)
	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		cancel()
		os.Exit(1)
	}
}
