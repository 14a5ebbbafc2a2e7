// Command dietctl validates diet workbooks and assigns them to accounts from
// the terminal, using the same pipeline as the API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/noisevisionproductions/Vitema-sub001/internal/logger"
)

// Context is passed to every command's Run method.
type Context struct {
	Ctx      context.Context
	LogLevel string
}

var CLI struct {
	Version  kong.VersionFlag
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"warn" env:"LOG_LEVEL"`

	Validate ValidateCmd `cmd:"" help:"Validate and parse a diet workbook without saving it."`
	Upload   UploadCmd   `cmd:"" help:"Assign a diet workbook to one or more accounts."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("dietctl"),
		kong.Description("Diet workbook ingestion tool"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := logger.Init(logger.Config{Level: CLI.LogLevel, Prefix: "dietctl"}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := kctx.Run(&Context{Ctx: ctx, LogLevel: CLI.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Error:"), err)
		stop()
		os.Exit(1)
	}
}
