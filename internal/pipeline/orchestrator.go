package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docsift/internal/config"
)

// Orchestrator accepts outline and rank jobs, holds them in a bounded queue
// and hands each one to a Worker. Finished jobs stay readable from the
// JobStore until their TTL lapses.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	worker *Worker
	log    *slog.Logger
	cfg    config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator wires a JobStore and Worker from cfg. Nothing runs until Start.
func NewOrchestrator(cfg config.Config, models Models, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		worker: NewWorker(models, cfg, log),
		log:    log,
		cfg:    cfg,
	}
}

// Start launches cfg.WorkerCount job runners plus the expiry sweep. All of
// them exit when ctx is cancelled or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.log.Debug("job picked up", "job_id", job.ID, "kind", job.Kind, "waited_ms", time.Since(job.CreatedAt).Milliseconds())
					o.worker.Process(workerCtx, job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(sweepInterval(o.cfg.JobTTL))
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// sweepInterval is how often expired jobs are dropped: half the TTL, between
// one second and five minutes.
func sweepInterval(ttl time.Duration) time.Duration {
	d := ttl / 2
	switch {
	case d < time.Second:
		return time.Second
	case d > 5*time.Minute:
		return 5 * time.Minute
	}
	return d
}

// Stop cancels running jobs, drains the runners and stops accepting work.
// Submit must not be called after Stop.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit registers job and queues it. When the queue is full the job is
// still stored, finished as failed with phase "queue_full", and an error
// is returned so the caller can answer 503.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		o.log.Info("job queued", "job_id", job.ID, "kind", job.Kind, "documents", len(job.Filenames))
		return nil
	default:
		job.AddError("queue full")
		job.finish(nil, StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns the job with id, or nil once it is unknown or expired.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// DeleteJob forgets a job. A running job still completes but its result is
// no longer reachable.
func (o *Orchestrator) DeleteJob(id string) bool {
	return o.jobs.Delete(id)
}

// ListJobs returns snapshots of all known jobs, newest first.
func (o *Orchestrator) ListJobs() []JobSnapshot {
	return o.jobs.List()
}

// QueueDepth is the number of jobs waiting for a free runner.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
