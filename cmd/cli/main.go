package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/projgen/internal/app"
	"github.com/vk/projgen/internal/cli"
	"github.com/vk/projgen/internal/projerr"
)

// main is the entrypoint for the projgen binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and
// error handling.
func run(outW io.Writer, args []string) error {
	ctx := context.Background()

	appConfig, shouldExit, err := cli.Parse(ctx, args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	generator := app.NewApp(outW, appConfig)
	if err := generator.Run(ctx); err != nil {
		// Configuration mistakes get a dedicated exit code so wrapper
		// scripts can tell them apart from I/O failures.
		var cfgErr *projerr.ConfigurationError
		var preErr *projerr.PreconditionError
		if errors.As(err, &cfgErr) || errors.As(err, &preErr) {
			return &cli.ExitError{Code: 2, Message: err.Error()}
		}
		return err
	}
	return nil
}
