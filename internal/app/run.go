package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/qubelet/qsampler/internal/ctxlog"
	"github.com/qubelet/qsampler/internal/manifest"
	"github.com/qubelet/qsampler/internal/sampler"
)

// defaultBackend is used when neither the command line nor a manifest
// sampler block names one.
const defaultBackend = "statevector"

// Run executes the main application logic: load the manifest batch, resolve
// the effective sampler options, dispatch one job, wait for its result, and
// render the per-pub counts.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	// An interrupt cancels the job, which surfaces as a cancelled result.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	batch, err := manifest.Load(ctx, a.config.ManifestPaths...)
	if err != nil {
		return fmt.Errorf("failed to load manifests: %w", err)
	}
	if len(batch.Entries) == 0 {
		a.logger.Warn("No pubs found in manifests, nothing to sample.")
		return nil
	}

	opts, backendName := a.resolveOptions(batch.Sampler)
	be, err := a.registry.Lookup(backendName)
	if err != nil {
		return err
	}

	smp, err := sampler.New(be, opts)
	if err != nil {
		return err
	}

	a.logger.Info("🚀 Starting sampling run.", "pubs", len(batch.Entries), "backend", be.Name(), "default_shots", opts.DefaultShots)
	runJob, err := smp.Run(ctx, batch.Specs())
	if err != nil {
		return fmt.Errorf("failed to dispatch sampling job: %w", err)
	}

	res, err := runJob.Result(ctx)
	if err != nil && ctx.Err() != nil {
		// The wait was interrupted. The job's own context is already
		// cancelled, so a second wait settles its terminal state quickly.
		res, err = runJob.Result(context.Background())
	}
	if err != nil {
		return fmt.Errorf("job %s: %w", runJob.ID(), err)
	}

	if err := a.renderResult(batch, res); err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	a.logger.Info("🏁 Sampling finished.", "job", runJob.ID(), "pubs", res.Len())

	a.logger.Debug("App.Run method finished.")
	return nil
}

// resolveOptions merges the configuration layers. Command line flags take
// precedence over the manifest sampler block, which takes precedence over
// built-in defaults. Per-pub shot counts are untouched here and still win
// inside the sampler.
func (a *App) resolveOptions(mc manifest.SamplerConfig) (sampler.Options, string) {
	opts := sampler.DefaultOptions()
	backendName := defaultBackend

	if mc.DefaultShots != nil {
		opts.DefaultShots = *mc.DefaultShots
	}
	if mc.Seed != nil {
		opts.Seed = mc.Seed
	}
	if mc.Workers != nil {
		opts.Workers = *mc.Workers
	}
	if mc.Backend != nil {
		backendName = *mc.Backend
	}

	if a.config.Shots != nil {
		opts.DefaultShots = *a.config.Shots
	}
	if a.config.Seed != nil {
		opts.Seed = a.config.Seed
	}
	if a.config.Workers != nil {
		opts.Workers = *a.config.Workers
	}
	if a.config.Backend != "" {
		backendName = a.config.Backend
	}

	return opts, backendName
}
