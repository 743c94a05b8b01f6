package scheduler

import (
	"context"
	"sync"
	"time"
)

const DefaultResolution = time.Second

type Scheduler struct {
	jobs       []*Job
	resolution time.Duration
	mu         sync.Mutex
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		jobs:       make([]*Job, 0),
		resolution: DefaultResolution,
	}
}

// WithResolution sets how often due jobs are checked.
func (scheduler *Scheduler) WithResolution(resolution time.Duration) *Scheduler {
	if resolution > 0 {
		scheduler.resolution = resolution
	}
	return scheduler
}

func (scheduler *Scheduler) AddJob(job *Job) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if job.nextExecuteAt.IsZero() {
		job.nextExecuteAt = time.Now().Add(job.interval)
	}

	scheduler.jobs = append(scheduler.jobs, job)
}

func (scheduler *Scheduler) RemoveJob(id uint64) bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	for i, job := range scheduler.jobs {
		if job.id == id {
			scheduler.jobs = append(scheduler.jobs[:i], scheduler.jobs[i+1:]...)
			return true
		}
	}

	return false
}

func (scheduler *Scheduler) Len() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	return len(scheduler.jobs)
}

type Job struct {
	id                uint64
	tasks             []Task
	interval          time.Duration
	nextExecuteAt     time.Time
	previousExecuteAt time.Time
	fired             bool
}

func NewJob(id uint64) *Job {
	return &Job{
		id:    id,
		tasks: make([]Task, 0),
	}
}

func (job *Job) ID() uint64 {
	return job.id
}

func (job *Job) WithTasks(tasks ...Task) *Job {
	job.tasks = tasks
	return job
}

func (job *Job) WithInterval(interval time.Duration) *Job {
	job.interval = interval
	return job
}

func (job *Job) WithExecuteAt(executeAt time.Time) *Job {
	job.nextExecuteAt = executeAt
	return job
}

func (job *Job) AddTask(task Task) {
	job.tasks = append(job.tasks, task)
}

// Task receives the tick time it was fired for.
type Task func(now time.Time)

// Run fires due jobs until ctx is done. Tasks of one job run sequentially on the
// scheduler goroutine, so a slow task delays the following ticks.
func (scheduler *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(scheduler.resolution)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			for _, job := range scheduler.due(now) {
				for _, task := range job.tasks {
					task(now)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (scheduler *Scheduler) due(now time.Time) []*Job {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	var due []*Job
	for _, job := range scheduler.jobs {
		if job.nextExecuteAt.After(now) || (job.fired && job.interval <= 0) {
			continue
		}

		job.fired = true
		job.previousExecuteAt = now
		job.nextExecuteAt = now.Add(job.interval)
		due = append(due, job)
	}

	return due
}
