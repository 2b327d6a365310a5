package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/qubelet/qsampler/internal/app"
)

// version is stamped on release builds.
const version = "0.1.0"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
// Flags the user set explicitly take precedence over manifest values.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("qsampler", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
qsampler - A seeded quantum circuit sampler.

Usage:
  qsampler [options] MANIFEST_PATH [MANIFEST_PATH ...]

Arguments:
  MANIFEST_PATH
    Path to a single .hcl manifest or a directory containing .hcl manifests.

Options:
`)
		flagSet.PrintDefaults()
	}

	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	shotsFlag := flagSet.Int("shots", 0, "Default shot count per pub. Overrides the manifest value when set.")
	seedFlag := flagSet.Uint64("seed", 0, "Root seed for reproducible sampling. Overrides the manifest value when set.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent pub workers. Overrides the manifest value when set.")
	backendFlag := flagSet.String("backend", "", "Simulation backend name. Overrides the manifest value when set.")
	versionFlag := flagSet.Bool("version", false, "Print the version and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if *versionFlag {
		fmt.Fprintf(output, "qsampler %s\n", version)
		return nil, true, nil
	}

	paths := flagSet.Args()
	if len(paths) == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	// Only flags the user actually passed may override manifest values, so
	// record which ones were set.
	explicit := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	cfg := app.Config{
		ManifestPaths: paths,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		Backend:       *backendFlag,
	}
	if explicit["shots"] {
		cfg.Shots = shotsFlag
	}
	if explicit["seed"] {
		cfg.Seed = seedFlag
	}
	if explicit["workers"] {
		cfg.Workers = workersFlag
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return config, false, nil
}
