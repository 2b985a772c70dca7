// Package processor groups instances streamed from one called AE into
// batches by a configured DICOM tag, seals them on quiescence, and
// submits one job per configured pipeline.
package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/codeninja55/radx-adapter/dicom"
	"github.com/codeninja55/radx-adapter/internal/model"
	"github.com/codeninja55/radx-adapter/internal/reclaim"
	"github.com/codeninja55/radx-adapter/internal/submitter"
)

// tickInterval is the quiescence-check period, per spec §4.5.
const tickInterval = 1 * time.Second

// Submitter is the subset of *submitter.Submitter the processor needs.
type Submitter interface {
	Submit(ctx context.Context, req submitter.Request) (model.JobReceipt, error)
}

// Processor is one long-lived grouping-and-submission loop for a single
// called AE.
type Processor struct {
	calledAETitle string
	cfg           Config
	in            <-chan model.InstanceRef
	submitter     Submitter
	reclaimQueue  *reclaim.Queue
	logger        *log.Logger

	mu      sync.Mutex
	batches map[string]*model.Batch
}

// New creates a Processor for calledAETitle, consuming from in
// (normally a bus subscription) and submitting through sub. Every sealed
// batch is handed to reclaimQueue once submission ends, whether it
// succeeded or exhausted its retries.
func New(calledAETitle string, cfg Config, in <-chan model.InstanceRef, sub Submitter, reclaimQueue *reclaim.Queue, logger *log.Logger) *Processor {
	return &Processor{
		calledAETitle: calledAETitle,
		cfg:           cfg,
		in:            in,
		submitter:     sub,
		reclaimQueue:  reclaimQueue,
		logger:        logger,
		batches:       make(map[string]*model.Batch),
	}
}

// Run consumes instances and drives the quiescence timer until ctx is
// done or in is closed. On exit it hands every in-progress batch
// (sealed or not) to the reclaim queue so no instance is left dangling.
func (p *Processor) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.drainToReclaim()
			return

		case ref, ok := <-p.in:
			if !ok {
				p.drainToReclaim()
				return
			}
			p.receive(ref)

		case now := <-ticker.C:
			p.sealAndSubmit(ctx, now)
		}
	}
}

// receive implements the §4.5 reception rule: read the grouping tag
// from the persisted file, upsert the batch for that key.
func (p *Processor) receive(ref model.InstanceRef) {
	key, err := p.groupKey(ref)
	if err != nil {
		if p.logger != nil {
			p.logger.Error("processor: grouping tag unreadable, dropping instance", "calledAe", p.calledAETitle, "path", ref.AbsolutePath, "error", err)
		}
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	batch, ok := p.batches[key]
	if !ok {
		batch = model.NewBatch(key)
		p.batches[key] = batch
	}
	batch.Append(ref, time.Now())
}

func (p *Processor) groupKey(ref model.InstanceRef) (string, error) {
	ds, err := dicom.ParseFile(ref.AbsolutePath)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", ref.AbsolutePath, err)
	}
	elem, err := ds.Get(p.cfg.GroupBy)
	if err != nil {
		return "", fmt.Errorf("grouping tag %s not present: %w", p.cfg.GroupBy, err)
	}
	value := elem.Value().String()
	if value == "" {
		return "", fmt.Errorf("grouping tag %s is empty", p.cfg.GroupBy)
	}
	return value, nil
}

// sealAndSubmit implements the §4.5 timer and submit-loop rules: seal
// every batch past quiescence, then submit each sealed batch once per
// configured pipeline, retrying the whole batch up to model.MaxRetry
// times before handing it to reclaim.
func (p *Processor) sealAndSubmit(ctx context.Context, now time.Time) {
	sealed := p.sealQuiescent(now)
	for _, batch := range sealed {
		p.submitBatch(ctx, batch)
	}
}

func (p *Processor) sealQuiescent(now time.Time) []*model.Batch {
	p.mu.Lock()
	defer p.mu.Unlock()

	var sealed []*model.Batch
	for key, batch := range p.batches {
		if now.Sub(batch.LastArrivalAt) < p.cfg.Timeout {
			continue
		}
		delete(p.batches, key)
		if batch.Empty() {
			if p.logger != nil {
				p.logger.Warn("processor: discarding empty batch", "calledAe", p.calledAETitle, "key", key)
			}
			continue
		}
		sealed = append(sealed, batch)
	}
	return sealed
}

// submitBatch runs the retry loop synchronously in the processor's own
// goroutine: submissions for one batch do not overlap with receiving
// new instances for other batches, since each called AE has its own
// Processor instance and goroutine.
func (p *Processor) submitBatch(ctx context.Context, batch *model.Batch) {
	files := make([]string, len(batch.Items))
	for i, item := range batch.Items {
		files[i] = item.AbsolutePath
	}

	for attempt := 0; attempt < model.MaxRetry; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				p.reclaimAll(batch)
				return
			case <-time.After(p.cfg.JobRetryDelay):
			}
		}

		if p.submitAllPipelines(ctx, batch, files) {
			p.reclaimAll(batch)
			return
		}
		batch.Retries++
	}

	if p.logger != nil {
		p.logger.Error("processor: batch exhausted retries, reclaiming", "calledAe", p.calledAETitle, "key", batch.Key, "retries", batch.Retries)
	}
	p.reclaimAll(batch)
}

// submitAllPipelines submits batch once per configured pipeline,
// returning true only if every pipeline succeeded.
func (p *Processor) submitAllPipelines(ctx context.Context, batch *model.Batch, files []string) bool {
	jobNameStamp := time.Now().Format("20060102150405")
	ok := true
	for pipelineName, pipelineID := range p.cfg.Pipelines {
		jobName := fmt.Sprintf("%s-%s-%s", p.calledAETitle, pipelineName, jobNameStamp)
		_, err := p.submitter.Submit(ctx, submitter.Request{
			PipelineID: pipelineID,
			JobName:    jobName,
			Priority:   p.cfg.Priority,
			Files:      files,
		})
		if err != nil {
			if p.logger != nil {
				p.logger.Error("processor: pipeline submission failed", "calledAe", p.calledAETitle, "pipeline", pipelineName, "jobName", jobName, "error", err)
			}
			ok = false
		}
	}
	return ok
}

func (p *Processor) reclaimAll(batch *model.Batch) {
	if p.reclaimQueue == nil {
		return
	}
	for _, item := range batch.Items {
		p.reclaimQueue.Enqueue(item)
	}
}

// drainToReclaim hands every in-progress batch to reclaim on shutdown,
// per §5's cancellation contract.
func (p *Processor) drainToReclaim() {
	p.mu.Lock()
	batches := p.batches
	p.batches = make(map[string]*model.Batch)
	p.mu.Unlock()

	for _, batch := range batches {
		p.reclaimAll(batch)
	}
}
