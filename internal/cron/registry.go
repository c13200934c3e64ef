package cron

import (
	"context"
	"time"
)

// Job represents a scheduled task that runs inside the cron worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry tracks registered cron jobs.
type Registry struct {
	jobs []Job
}

// NewRegistry builds a registry preloaded with the provided jobs.
func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{}
	for _, job := range jobs {
		if job == nil {
			continue
		}
		registry.jobs = append(registry.jobs, job)
	}
	return registry
}

// Register adds a job to the registry.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	r.jobs = append(r.jobs, job)
}

// Jobs returns the registered jobs in the order they were added.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}

// Every throttles a job to at most one run per interval; cycles inside the
// window are no-ops.
func Every(interval time.Duration, job Job) Job {
	if interval <= 0 || job == nil {
		return job
	}
	return &throttledJob{job: job, interval: interval, now: time.Now}
}

type throttledJob struct {
	job      Job
	interval time.Duration
	lastRun  time.Time
	now      func() time.Time
}

func (t *throttledJob) Name() string { return t.job.Name() }

func (t *throttledJob) Run(ctx context.Context) error {
	now := t.now()
	if !t.lastRun.IsZero() && now.Sub(t.lastRun) < t.interval {
		return nil
	}
	t.lastRun = now
	return t.job.Run(ctx)
}
