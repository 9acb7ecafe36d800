package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"stemsplit/internal/logging"
	"stemsplit/internal/plan"
	"stemsplit/internal/services/ffmpeg"
)

// Transcoder abstracts the transcode collaborator so tests can inject fakes.
type Transcoder interface {
	Extract(ctx context.Context, req ffmpeg.Request) error
}

// FailureReason classifies why a job failed, in operator-readable terms.
type FailureReason string

const (
	ReasonNone          FailureReason = ""
	ReasonToolNotFound  FailureReason = "tool not found"
	ReasonProcessFailed FailureReason = "process failed"
	ReasonTimeout       FailureReason = "timed out"
	ReasonCancelled     FailureReason = "cancelled"
	ReasonPlacement     FailureReason = "placement rejected"
)

// Outcome reports the result of one job. ClipPath is set even on failure so
// cleanup can release whatever the process left behind.
type Outcome struct {
	Job      plan.Job
	ClipPath string
	Err      error
	Reason   FailureReason
}

// OK reports whether the job produced a usable clip.
func (o Outcome) OK() bool { return o.Err == nil }

// Batch groups the outcomes of one ExecuteBatch call with the per-operation
// staging directory that owns their temporary files.
type Batch struct {
	Dir      string
	Outcomes []Outcome
}

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout bounds each job's process invocation.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Executor) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithParallelism bounds how many transcode processes run at once.
func WithParallelism(workers int) Option {
	return func(e *Executor) {
		if workers > 0 {
			e.parallel = workers
		}
	}
}

// Executor runs extraction jobs and owns their temporary files.
type Executor struct {
	transcoder Transcoder
	stagingDir string
	timeout    time.Duration
	parallel   int
	log        *slog.Logger
}

// NewExecutor constructs an Executor writing temporaries under stagingDir.
func NewExecutor(transcoder Transcoder, stagingDir string, logger *slog.Logger, opts ...Option) *Executor {
	e := &Executor{
		transcoder: transcoder,
		stagingDir: stagingDir,
		timeout:    5 * time.Minute,
		parallel:   1,
		log:        logging.NewComponentLogger(logger, "extract"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecuteBatch runs every job against the source file. Jobs may run in
// parallel; each uses an independent process on an independent output path,
// so the only shared state is the read-only source. Outcomes are returned
// in job order regardless of completion order.
func (e *Executor) ExecuteBatch(ctx context.Context, source string, jobs []plan.Job) (*Batch, error) {
	opDir := filepath.Join(e.stagingDir, uuid.NewString())
	if err := os.MkdirAll(opDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	batch := &Batch{Dir: opDir, Outcomes: make([]Outcome, len(jobs))}

	sem := make(chan struct{}, e.parallel)
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(slot int, job plan.Job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			batch.Outcomes[slot] = e.execute(ctx, source, job, opDir)
		}(i, job)
	}
	wg.Wait()

	return batch, nil
}

func (e *Executor) execute(ctx context.Context, source string, job plan.Job, opDir string) Outcome {
	output := filepath.Join(opDir, fmt.Sprintf("%s-%s.wav", uuid.NewString(), job.OutputName))
	outcome := Outcome{Job: job, ClipPath: output}

	if err := ctx.Err(); err != nil {
		outcome.Err = err
		outcome.Reason = ReasonCancelled
		return outcome
	}

	jobCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	channel := -1
	if !job.ForceMono && job.Ordinal >= 0 {
		channel = job.Ordinal
	}

	started := time.Now()
	err := e.transcoder.Extract(jobCtx, ffmpeg.Request{
		Source:     source,
		AudioIndex: job.AudioIndex,
		Channel:    channel,
		ForceMono:  job.ForceMono,
		Output:     output,
	})
	if err != nil {
		outcome.Err = err
		outcome.Reason = classify(ctx, jobCtx, err)
		e.log.Warn("extraction job failed",
			logging.String("role", string(job.Role)),
			logging.String("reason", string(outcome.Reason)),
			logging.Error(err))
		return outcome
	}

	e.log.Debug("extraction job complete",
		logging.String("role", string(job.Role)),
		logging.Duration("elapsed", time.Since(started)),
		logging.String("clip", output))
	return outcome
}

// classify distinguishes timeouts and cancellations from genuine process
// failures. CommandContext kills the process on expiry, so the error itself
// usually reads "signal: killed"; the contexts carry the real cause.
func classify(batchCtx, jobCtx context.Context, err error) FailureReason {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return ReasonToolNotFound
	case errors.Is(batchCtx.Err(), context.Canceled) || errors.Is(err, context.Canceled):
		return ReasonCancelled
	case errors.Is(jobCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	default:
		return ReasonProcessFailed
	}
}

// Cleanup deletes every temporary file in the batch that is not marked for
// retention, then the per-operation directory itself. It runs on all exit
// paths, including partial failure and cancellation; deletion problems are
// logged and never escalate.
func (e *Executor) Cleanup(batch *Batch) {
	if batch == nil {
		return
	}
	retained := 0
	for _, outcome := range batch.Outcomes {
		if outcome.Job.Retain {
			retained++
			continue
		}
		if outcome.ClipPath == "" {
			continue
		}
		if err := os.Remove(outcome.ClipPath); err != nil && !os.IsNotExist(err) {
			e.log.Warn("temp file cleanup failed",
				logging.String("path", outcome.ClipPath),
				logging.Error(err))
		}
	}
	if retained == 0 {
		if err := os.Remove(batch.Dir); err != nil && !os.IsNotExist(err) {
			e.log.Warn("staging directory cleanup failed",
				logging.String("path", batch.Dir),
				logging.Error(err))
		}
	}
}
