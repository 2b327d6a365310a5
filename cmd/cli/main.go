package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/qubelet/qsampler/internal/app"
	"github.com/qubelet/qsampler/internal/cli"
)

// main is the entrypoint for the qsampler application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// NewApp panics on fatal wiring errors such as two backends registering
	// the same name, so recover here to report a clean message instead of a
	// stack trace.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	qsamplerApp := app.NewApp(outW, appConfig)
	return qsamplerApp.Run(context.Background())
}
