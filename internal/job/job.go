// Package job provides the asynchronous handle a sampling run returns:
// a state machine over QUEUED, RUNNING and the three terminal states,
// driven by a single worker goroutine, safe to poll, wait on, and cancel
// from any goroutine.
package job

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/qubelet/qsampler/internal/result"
)

// Status is the lifecycle state of a job, managed atomically.
type Status int32

const (
	// StatusQueued means the job was accepted but its goroutine has not
	// started executing yet.
	StatusQueued Status = iota
	// StatusRunning means pubs are executing.
	StatusRunning
	// StatusDone means every pub completed and the result is available.
	StatusDone
	// StatusError means execution failed; Result returns the cause.
	StatusError
	// StatusCancelled means the job was cancelled before completing.
	StatusCancelled
)

// String renders the conventional upper-case state names.
func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "QUEUED"
	case StatusRunning:
		return "RUNNING"
	case StatusDone:
		return "DONE"
	case StatusError:
		return "ERROR"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}

// Terminal reports whether the state is final.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError || s == StatusCancelled
}

// ErrCancelled is returned by Result when the job was cancelled.
var ErrCancelled = errors.New("job cancelled")

// Job is the handle for one asynchronous sampling run.
type Job struct {
	id     string
	status atomic.Int32
	done   chan struct{}
	cancel context.CancelFunc

	res *result.PrimitiveResult
	err error
}

// Dispatch starts run in its own goroutine and returns the handle
// immediately. The context passed to run is cancelled by Cancel (or by
// the parent context); run's return value drives the terminal state:
// nil error lands in DONE, a cancellation error in CANCELLED, anything
// else in ERROR. Each transition happens exactly once and is sticky.
func Dispatch(ctx context.Context, run func(ctx context.Context) (*result.PrimitiveResult, error)) *Job {
	runCtx, cancel := context.WithCancel(ctx)
	j := &Job{
		id:     uuid.NewString(),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	j.status.Store(int32(StatusQueued))
	go func() {
		defer cancel()
		j.transition(StatusQueued, StatusRunning)
		res, err := run(runCtx)
		j.finish(res, err)
	}()
	return j
}

func (j *Job) transition(from, to Status) bool {
	return j.status.CompareAndSwap(int32(from), int32(to))
}

func (j *Job) finish(res *result.PrimitiveResult, err error) {
	next := StatusDone
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrCancelled):
		next = StatusCancelled
		err = ErrCancelled
	default:
		next = StatusError
	}
	if !j.transition(StatusRunning, next) {
		return
	}
	j.res = res
	j.err = err
	close(j.done)
}

// ID returns the job's unique identifier.
func (j *Job) ID() string { return j.id }

// Status returns the current lifecycle state.
func (j *Job) Status() Status { return Status(j.status.Load()) }

// Done returns a channel closed when the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} { return j.done }

// Cancel requests cancellation. It is idempotent and best-effort: pubs
// finish their in-flight simulation call, then the job lands in
// CANCELLED. Cancelling a finished job does nothing.
func (j *Job) Cancel() { j.cancel() }

// Result blocks until the job reaches a terminal state or ctx ends. On
// DONE it returns the assembled result; on CANCELLED it returns
// ErrCancelled; on ERROR it returns the execution failure. A ctx error
// means the wait gave up, not that the job stopped.
func (j *Job) Result(ctx context.Context) (*result.PrimitiveResult, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for job %s: %w", j.id, ctx.Err())
	case <-j.done:
	}
	switch j.Status() {
	case StatusDone:
		return j.res, nil
	case StatusCancelled:
		return nil, ErrCancelled
	default:
		return nil, j.err
	}
}
