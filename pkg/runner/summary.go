package runner

import (
	"sync"
	"time"
)

// FamilyJobStatus represents the lifecycle of one family derivation.
type FamilyJobStatus string

const (
	FamilyJobQueued    FamilyJobStatus = "queued"
	FamilyJobRunning   FamilyJobStatus = "running"
	FamilyJobCompleted FamilyJobStatus = "completed"
	FamilyJobFailed    FamilyJobStatus = "failed"
)

// FamilyJob keeps track of one family file while its worker runs.
type FamilyJob struct {
	ID             string
	FamID          string
	Rescue         bool
	Status         FamilyJobStatus
	Error          string
	Systems        int
	SkippedSystems int
	SkippedRecords int
	Empty          bool
	Characteristic []string
	Plots          []string
	CSV            string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FamilyResult is what a finished worker hands back.
type FamilyResult struct {
	Systems        int
	SkippedSystems int
	SkippedRecords int
	Empty          bool
	Characteristic []string
	Plots          []string
	CSV            string
}

// RunSummary stores family job states indexed by job ID. Workers update it
// concurrently; readers get copies.
type RunSummary struct {
	RunID string

	mu    sync.RWMutex
	jobs  map[string]*FamilyJob
	order []string
}

// NewRunSummary constructs a summary with no jobs.
func NewRunSummary(runID string) *RunSummary {
	return &RunSummary{
		RunID: runID,
		jobs:  make(map[string]*FamilyJob),
	}
}

// NewJob registers a queued job for one family file.
func (m *RunSummary) NewJob(jobID, famID string, rescue bool) *FamilyJob {
	job := &FamilyJob{
		ID:        jobID,
		FamID:     famID,
		Rescue:    rescue,
		Status:    FamilyJobQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.order = append(m.order, job.ID)
	m.mu.Unlock()
	return job
}

// SetRunning marks the job as running.
func (m *RunSummary) SetRunning(jobID string) {
	m.updateJob(jobID, func(job *FamilyJob) {
		job.Status = FamilyJobRunning
	})
}

// CompleteJob stores the family outcome and marks the job complete.
func (m *RunSummary) CompleteJob(jobID string, res FamilyResult) {
	m.updateJob(jobID, func(job *FamilyJob) {
		job.Status = FamilyJobCompleted
		job.Systems = res.Systems
		job.SkippedSystems = res.SkippedSystems
		job.SkippedRecords = res.SkippedRecords
		job.Empty = res.Empty
		job.Characteristic = res.Characteristic
		job.Plots = res.Plots
		job.CSV = res.CSV
	})
}

// FailJob records a failure and attaches the error message.
func (m *RunSummary) FailJob(jobID string, err error) {
	m.updateJob(jobID, func(job *FamilyJob) {
		job.Status = FamilyJobFailed
		job.Error = err.Error()
	})
}

// Jobs returns snapshots in registration order.
func (m *RunSummary) Jobs() []FamilyJob {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := make([]FamilyJob, 0, len(m.order))
	for _, id := range m.order {
		jobs = append(jobs, *m.jobs[id])
	}
	return jobs
}

// Totals rolls the per-family numbers up for the end-of-run log line.
func (m *RunSummary) Totals() (families, systems, skippedSystems, skippedRecords, failed int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, job := range m.jobs {
		families++
		systems += job.Systems
		skippedSystems += job.SkippedSystems
		skippedRecords += job.SkippedRecords
		if job.Status == FamilyJobFailed {
			failed++
		}
	}
	return
}

func (m *RunSummary) updateJob(jobID string, update func(job *FamilyJob)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return
	}

	update(job)
	job.UpdatedAt = time.Now()
}
