// Package main is the entry point for the orgbaseline CLI.
//
// orgbaseline bootstraps an AWS Organizations management account: it creates
// or adopts the organization, installs a guardrail service control policy on
// the root, and deploys a baseline CloudFormation stack.
//
// For detailed usage information, run:
//
//	orgbaseline --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/orgbaseline/cmd/orgbaseline/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
