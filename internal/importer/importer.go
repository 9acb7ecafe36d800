package importer

import (
	"context"
	"log/slog"
	"time"

	"stemsplit/internal/catalog"
	"stemsplit/internal/extract"
	"stemsplit/internal/history"
	"stemsplit/internal/host"
	"stemsplit/internal/layout"
	"stemsplit/internal/logging"
	"stemsplit/internal/plan"
)

// Status classifies the overall outcome of one import.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// Failure describes one job that produced no clip.
type Failure struct {
	Role   layout.ChannelRole
	Reason extract.FailureReason
	Err    error
}

// Result aggregates everything one import produced.
type Result struct {
	Clips     []host.ClipHandle
	VideoClip *host.ClipHandle
	Failures  []Failure
	Status    Status
}

// Options tune one import invocation.
type Options struct {
	// WithVideo also places the container's video stream, when present.
	// Its failure never aborts the audio import.
	WithVideo bool
	// StartPosition is the timeline position handed to the host for every
	// placed clip.
	StartPosition float64
}

// Coordinator wires planner, executor, host, and the optional ledger.
type Coordinator struct {
	planner  *plan.Planner
	executor *extract.Executor
	placer   host.Host
	ledger   *history.Store // nil disables recording
	log      *slog.Logger
}

// NewCoordinator constructs a Coordinator. The ledger may be nil.
func NewCoordinator(planner *plan.Planner, executor *extract.Executor, placer host.Host, ledger *history.Store, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		planner:  planner,
		executor: executor,
		placer:   placer,
		ledger:   ledger,
		log:      logging.NewComponentLogger(logger, "import"),
	}
}

// Import runs one full import operation against the catalog's scanned file.
// Planning errors return immediately with zero jobs run; job failures are
// accumulated, never fatal to siblings. Cleanup of non-retained temporary
// files happens on every path once extraction has started.
func (c *Coordinator) Import(ctx context.Context, cat *catalog.Catalog, req plan.Request, opts Options) (Result, error) {
	release, err := cat.BeginOperation()
	if err != nil {
		return Result{Status: StatusFailed}, err
	}
	defer release()

	result := Result{Status: StatusFailed}
	source := cat.MediaPath()

	jobs, err := c.planner.Plan(req)
	if err != nil {
		return result, err
	}

	if opts.WithVideo && cat.HasVideo() {
		c.placeVideo(source, opts, &result)
	}

	batch, err := c.executor.ExecuteBatch(ctx, source, jobs)
	if err != nil {
		return result, err
	}
	defer c.executor.Cleanup(batch)

	baseSlot := c.placer.NextFreeTrackSlot()
	slot := baseSlot
	for _, outcome := range batch.Outcomes {
		if !outcome.OK() {
			result.Failures = append(result.Failures, Failure{
				Role:   outcome.Job.Role,
				Reason: outcome.Reason,
				Err:    outcome.Err,
			})
			continue
		}

		handle, placeErr := c.placer.CreateAudioClip(outcome.ClipPath, slot, opts.StartPosition)
		if placeErr != nil {
			result.Failures = append(result.Failures, Failure{
				Role:   outcome.Job.Role,
				Reason: extract.ReasonPlacement,
				Err:    placeErr,
			})
			continue
		}
		slot++

		if panErr := c.placer.SetClipPan(handle, outcome.Job.Pan); panErr != nil {
			c.log.Warn("pan could not be applied",
				logging.String("role", string(outcome.Job.Role)),
				logging.Error(panErr))
		}
		result.Clips = append(result.Clips, handle)
	}

	result.Status = classify(len(result.Clips), len(result.Failures))
	c.log.Info("import finished",
		logging.String("status", string(result.Status)),
		logging.Int("clips", len(result.Clips)),
		logging.Int("failures", len(result.Failures)))

	c.record(source, req, batch, result)
	return result, nil
}

func (c *Coordinator) placeVideo(source string, opts Options, result *Result) {
	slot := c.placer.NextFreeTrackSlot()
	handle, err := c.placer.CreateVideoClip(source, slot, opts.StartPosition)
	if err != nil {
		// Independent failure: audio import proceeds regardless.
		c.log.Warn("video placement failed", logging.Error(err))
		return
	}
	result.VideoClip = &handle
}

func classify(placed, failed int) Status {
	switch {
	case placed > 0 && failed == 0:
		return StatusSuccess
	case placed > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}

func (c *Coordinator) record(source string, req plan.Request, batch *extract.Batch, result Result) {
	if c.ledger == nil {
		return
	}

	jobs := make([]history.JobRecord, 0, len(batch.Outcomes))
	for _, outcome := range batch.Outcomes {
		record := history.JobRecord{
			Role:     string(outcome.Job.Role),
			Pan:      outcome.Job.Pan,
			Status:   "ok",
			ClipPath: outcome.ClipPath,
		}
		if !outcome.OK() {
			record.Status = "failed"
			record.Reason = string(outcome.Reason)
		}
		jobs = append(jobs, record)
	}

	op := history.Operation{
		MediaPath:   source,
		StreamIndex: req.Stream.AudioIndex,
		Mode:        string(req.Mode),
		Status:      string(result.Status),
		Clips:       len(result.Clips),
		Failures:    len(result.Failures),
		CreatedAt:   time.Now().UTC(),
	}
	// Recording survives operation cancellation; the ledger is exactly the
	// place a cancelled import should show up.
	recordCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := c.ledger.Record(recordCtx, op, jobs); err != nil {
		c.log.Warn("history recording failed", logging.Error(err))
	}
}
