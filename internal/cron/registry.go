package cron

import "context"

// Job is a unit of scheduled work run by the publish worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the worker's jobs, keyed by name. Registering a job
// under an existing name replaces the earlier one; run order follows
// first registration.
type Registry struct {
	order  []string
	byName map[string]Job
}

// NewRegistry builds a registry seeded with the given jobs. Nil jobs
// are ignored.
func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{byName: make(map[string]Job)}
	for _, job := range jobs {
		r.Register(job)
	}
	return r
}

// Register adds or replaces a job.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	name := job.Name()
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = job
}

// Jobs lists the registered jobs in registration order.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, 0, len(r.order))
	for _, name := range r.order {
		jobs = append(jobs, r.byName[name])
	}
	return jobs
}
