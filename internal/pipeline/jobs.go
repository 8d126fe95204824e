package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobKind selects what a job computes.
type JobKind string

const (
	KindOutline JobKind = "outline"
	KindRank    JobKind = "rank"
)

// JobStatus represents the state of a job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusOutlining  JobStatus = "outlining"
	StatusSegmenting JobStatus = "segmenting"
	StatusRanking    JobStatus = "ranking"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusPartial
}

// File is one uploaded document.
type File struct {
	Name string
	Data []byte
}

// RankParams are the persona/task inputs of a rank job. Zero TopN and nil
// Lambda use the configured defaults.
type RankParams struct {
	Persona string   `json:"persona"`
	Task    string   `json:"job_to_be_done"`
	TopN    int      `json:"top_n,omitempty"`
	Lambda  *float64 `json:"lambda,omitempty"`
}

// Job tracks the state of one outline or rank request.
type Job struct {
	mu sync.Mutex

	ID   string  `json:"job_id"`
	Kind JobKind `json:"kind"`

	Status    JobStatus  `json:"status"`
	Phase     string     `json:"phase"`
	Filenames []string   `json:"filenames"`
	Rank      RankParams `json:"rank"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	files  []File
	result any
	errors []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalDocuments  int      `json:"total_documents"`
	DocumentsParsed int      `json:"documents_parsed"`
	Sections        int      `json:"sections"`
	Errors          []string `json:"errors"`
}

// NewJob creates a queued job over files. Job IDs are UUIDv7, so they sort
// by creation time.
func NewJob(kind JobKind, files []File) *Job {
	now := time.Now()
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return &Job{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Kind:      kind,
		Status:    StatusQueued,
		Phase:     "queued",
		Filenames: names,
		Progress:  Progress{TotalDocuments: len(files)},
		CreatedAt: now,
		UpdatedAt: now,
		files:     files,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Delete removes a job and reports whether it existed.
func (s *JobStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[id]
	delete(s.jobs, id)
	return ok
}

// List returns snapshots of all jobs, newest first.
func (s *JobStore) List() []JobSnapshot {
	s.mu.Lock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.Unlock()

	out := make([]JobSnapshot, len(jobs))
	for i, j := range jobs {
		out[i] = j.Snapshot()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrParsed atomically increments the parsed document count.
func (j *Job) IncrParsed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.DocumentsParsed++
	j.UpdatedAt = time.Now()
}

// SetSections records how many sections were segmented.
func (j *Job) SetSections(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Sections = n
	j.UpdatedAt = time.Now()
}

// Files returns the uploaded documents.
func (j *Job) Files() []File {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.files
}

// finish stores the result, releases the uploaded bytes and sets the
// terminal status.
func (j *Job) finish(result any, status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = result
	j.files = nil
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// Result returns the job output once the job has finished. ok is false
// while the job is still running or when it produced nothing.
func (j *Job) Result() (result any, ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.Status.Done() || j.result == nil {
		return nil, false
	}
	return j.result, true
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Kind      JobKind   `json:"kind"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filenames []string  `json:"filenames"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	names := make([]string, len(j.Filenames))
	copy(names, j.Filenames)
	return JobSnapshot{
		ID:        j.ID,
		Kind:      j.Kind,
		Status:    j.Status,
		Phase:     j.Phase,
		Filenames: names,
		Progress: Progress{
			TotalDocuments:  j.Progress.TotalDocuments,
			DocumentsParsed: j.Progress.DocumentsParsed,
			Sections:        j.Progress.Sections,
			Errors:          errs,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
