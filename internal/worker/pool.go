// Package worker runs export jobs on a fixed pool of workers behind a
// buffered queue, so HTTP handlers can hand a render off and return
// immediately.
package worker

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// Job is a unit of asynchronous work.
type Job interface {
	Execute() error
	ID() string
}

// ErrQueueFull is returned when the job queue cannot accept more work.
var ErrQueueFull = errors.New("job queue full")

// Dispatcher owns the job queue and the worker pool.
type Dispatcher struct {
	maxWorkers int
	jobQueue   chan Job
	quit       chan struct{}
	wg         sync.WaitGroup
	log        *logrus.Logger
}

// NewDispatcher creates a dispatcher with the given pool size and
// queue capacity.
func NewDispatcher(maxWorkers, queueSize int, log *logrus.Logger) *Dispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Dispatcher{
		maxWorkers: maxWorkers,
		jobQueue:   make(chan Job, queueSize),
		quit:       make(chan struct{}),
		log:        log,
	}
}

// Run starts the workers. Each pulls jobs from the shared queue until
// Stop is called.
func (d *Dispatcher) Run() {
	d.log.WithField("workers", d.maxWorkers).Info("starting worker pool")
	for i := 1; i <= d.maxWorkers; i++ {
		d.wg.Add(1)
		go d.work(i)
	}
}

func (d *Dispatcher) work(id int) {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.jobQueue:
			log := d.log.WithFields(logrus.Fields{"worker": id, "job_id": job.ID()})
			log.Info("job started")
			if err := job.Execute(); err != nil {
				log.WithError(err).Error("job failed")
			} else {
				log.Info("job finished")
			}
		case <-d.quit:
			d.log.WithField("worker", id).Debug("worker stopping")
			return
		}
	}
}

// Submit enqueues a job without blocking. Returns ErrQueueFull when the
// queue is at capacity; the caller decides how to surface that.
func (d *Dispatcher) Submit(job Job) error {
	select {
	case d.jobQueue <- job:
		d.log.WithField("job_id", job.ID()).Debug("job queued")
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop shuts the pool down and waits for in-flight jobs to finish.
// Queued but unstarted jobs are dropped.
func (d *Dispatcher) Stop() {
	close(d.quit)
	d.wg.Wait()
	d.log.Info("worker pool stopped")
}
