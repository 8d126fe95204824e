package pipeline

import (
	"context"
	"testing"
	"time"
)

func waitDone(t *testing.T, job *Job) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := job.Snapshot()
		if snap.Status.Done() {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", job.ID)
	return JobSnapshot{}
}

func TestOrchestrator_RunsSubmittedJobs(t *testing.T) {
	o := NewOrchestrator(testConfig(), Models{}, quietLog())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob(KindOutline, guideFiles())
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if o.GetJob(job.ID) != job {
		t.Fatal("expected submitted job to be retrievable")
	}

	snap := waitDone(t, job)
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (errors %v)", snap.Status, snap.Progress.Errors)
	}
	res, ok := job.Result()
	if !ok || len(res.([]OutlineResult)) != 2 {
		t.Fatalf("expected 2 outline results, got %v", res)
	}
	if len(o.ListJobs()) != 1 {
		t.Errorf("expected 1 listed job, got %d", len(o.ListJobs()))
	}
	if !o.DeleteJob(job.ID) || o.GetJob(job.ID) != nil {
		t.Error("expected job to be deleted")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	// Not started: nothing drains the queue.
	o := NewOrchestrator(cfg, Models{}, quietLog())

	if err := o.Submit(NewJob(KindOutline, nil)); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second := NewJob(KindOutline, nil)
	if err := o.Submit(second); err == nil {
		t.Fatal("expected queue full error")
	}
	if snap := second.Snapshot(); snap.Status != StatusFailed || snap.Phase != "queue_full" {
		t.Errorf("expected failed/queue_full, got %s/%s", snap.Status, snap.Phase)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestSweepInterval(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{time.Hour, 5 * time.Minute},
		{4 * time.Minute, 2 * time.Minute},
		{time.Second, time.Second},
		{0, time.Second},
	}
	for _, tt := range tests {
		if got := sweepInterval(tt.ttl); got != tt.want {
			t.Errorf("sweepInterval(%v) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}
