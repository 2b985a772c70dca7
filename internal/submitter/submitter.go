// Package submitter issues pipeline jobs to the external platform: one
// createJob, one uploadPayload, one startJob per (batch, pipeline) pair.
package submitter

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/codeninja55/radx-adapter/internal/model"
)

// JobsService is the external RPC surface for job lifecycle calls.
// Grounded on the create->upload->start shape used by cloud job
// platforms (e.g. Azure azcopy's JobsAdmin/JobMgr lifecycle).
type JobsService interface {
	CreateJob(ctx context.Context, pipelineID, jobName string, priority model.Priority) (model.JobReceipt, error)
	StartJob(ctx context.Context, receipt model.JobReceipt) error
}

// PayloadsService uploads the files that make up a job's payload.
type PayloadsService interface {
	UploadPayload(ctx context.Context, payloadID string, files []string) error
}

// Request is one (batch, pipeline) unit of submission work.
type Request struct {
	PipelineID string
	JobName    string
	Priority   model.Priority
	Files      []string
}

// Submitter issues Requests against JobsService/PayloadsService with
// bounded concurrency. It is stateless between calls; retry policy
// lives in the caller (internal/processor), per spec: step 1
// (createJob) is not retryable within one attempt.
type Submitter struct {
	jobs     JobsService
	payloads PayloadsService
	workers  int
}

// DefaultWorkers is the worker-pool size when none is configured.
const DefaultWorkers = 4

// New creates a Submitter backed by jobs/payloads with the given bounded
// worker count. workers <= 0 falls back to DefaultWorkers.
func New(jobs JobsService, payloads PayloadsService, workers int) *Submitter {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Submitter{jobs: jobs, payloads: payloads, workers: workers}
}

// Submit runs one Request to completion: createJob, uploadPayload,
// startJob, in order. Any step's failure fails the whole attempt; the
// caller is responsible for retrying (a retry creates a brand new job,
// since createJob is not retryable within an attempt).
func (s *Submitter) Submit(ctx context.Context, req Request) (model.JobReceipt, error) {
	receipt, err := s.jobs.CreateJob(ctx, req.PipelineID, req.JobName, req.Priority)
	if err != nil {
		return model.JobReceipt{}, fmt.Errorf("create job %s: %w", req.JobName, err)
	}

	if err := s.payloads.UploadPayload(ctx, receipt.PayloadID, req.Files); err != nil {
		return model.JobReceipt{}, fmt.Errorf("upload payload for job %s: %w", req.JobName, err)
	}

	if err := s.jobs.StartJob(ctx, receipt); err != nil {
		return model.JobReceipt{}, fmt.Errorf("start job %s: %w", req.JobName, err)
	}

	return receipt, nil
}

// SubmitAll runs every Request concurrently, bounded by s.workers, and
// returns one result per input request in order. A single request's
// failure does not cancel the others.
func (s *Submitter) SubmitAll(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			receipt, err := s.Submit(gctx, req)
			results[i] = Result{Receipt: receipt, Err: err}
			return nil // collect per-request errors in Result, never abort siblings
		})
	}
	_ = g.Wait()

	return results
}

// Result is one Request's outcome.
type Result struct {
	Receipt model.JobReceipt
	Err     error
}
