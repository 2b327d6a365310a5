// Package sampler is the public face of the primitive: configure it once
// with a backend and options, then submit pub batches and get asynchronous
// job handles back. Every validation the batch can fail happens inside
// Run, before a job exists; a returned job can only fail for execution
// reasons.
package sampler

import (
	"context"
	"fmt"
	"runtime"

	"github.com/qubelet/qsampler/internal/backend"
	"github.com/qubelet/qsampler/internal/ctxlog"
	"github.com/qubelet/qsampler/internal/executor"
	"github.com/qubelet/qsampler/internal/job"
	"github.com/qubelet/qsampler/internal/pub"
	"github.com/qubelet/qsampler/internal/result"
)

// DefaultShots is the shot count used when neither the batch nor the pub
// specifies one.
const DefaultShots = 1024

// Options configures a Sampler. The zero value is usable: unset fields
// fall back to defaults, only explicitly negative values are rejected.
type Options struct {
	// DefaultShots applies to pubs that specify no shot count when the
	// Run call specifies none either. Zero means DefaultShots (1024).
	DefaultShots int
	// Seed makes every job of this sampler reproducible shot for shot.
	// Nil samples a fresh root seed per job.
	Seed *uint64
	// Workers bounds concurrent pub execution per job. Zero means
	// runtime.NumCPU().
	Workers int
}

// DefaultOptions returns the options an unconfigured sampler runs with.
func DefaultOptions() Options {
	return Options{DefaultShots: DefaultShots, Workers: runtime.NumCPU()}
}

// Sampler executes pub batches against one simulation backend.
type Sampler struct {
	opts Options
	be   backend.Backend
}

// New builds a Sampler over the given backend.
func New(be backend.Backend, opts Options) (*Sampler, error) {
	if be == nil {
		return nil, fmt.Errorf("sampler needs a backend")
	}
	if opts.DefaultShots < 0 {
		return nil, fmt.Errorf("default shots must be a positive integer, got %d", opts.DefaultShots)
	}
	if opts.Workers < 0 {
		return nil, fmt.Errorf("workers must be a positive integer, got %d", opts.Workers)
	}
	if opts.DefaultShots == 0 {
		opts.DefaultShots = DefaultShots
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Sampler{opts: opts, be: be}, nil
}

// Run normalizes and validates the whole batch, then dispatches an
// asynchronous job and returns its handle. The optional shots argument
// (at most one value) sets the batch default; an explicit non-positive
// value is rejected. Any validation failure returns a nil job: nothing
// was dispatched.
//
// The job's lifetime is bound to ctx: cancelling ctx cancels the job.
func (s *Sampler) Run(ctx context.Context, pubs any, shots ...int) (*job.Job, error) {
	logger := ctxlog.FromContext(ctx)

	batchShots := s.opts.DefaultShots
	switch len(shots) {
	case 0:
	case 1:
		if shots[0] <= 0 {
			return nil, fmt.Errorf("shots must be a positive integer, got %d", shots[0])
		}
		batchShots = shots[0]
	default:
		return nil, fmt.Errorf("at most one shots value may be given, got %d", len(shots))
	}

	normalized, err := pub.NormalizeBatch(ctx, pubs, batchShots)
	if err != nil {
		return nil, err
	}

	j := job.Dispatch(ctx, func(runCtx context.Context) (*result.PrimitiveResult, error) {
		return executor.Execute(runCtx, normalized, s.be, executor.Options{
			Workers: s.opts.Workers,
			Seed:    s.opts.Seed,
		})
	})
	logger.Info("📋 Job dispatched.", "job", j.ID(), "pubs", len(normalized), "default_shots", batchShots)
	return j, nil
}
