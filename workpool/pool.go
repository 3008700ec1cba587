// Package workpool provides the fixed-size, named worker pool the parallel
// runner dispatches shard jobs onto. The pool is intended to live for the
// lifetime of the process; create it once and share it across systems.
package workpool

import (
	"sync"

	"github.com/zeusync/zecs/pkg/log"
)

// Pool runs submitted jobs on a fixed set of worker goroutines. Jobs carry
// no results through the pool; callers that need completion signalling build
// it into the job, which is what the parallel runner's waiter does.
type Pool struct {
	name   string
	tasks  chan func()
	wg     sync.WaitGroup
	logger log.Log

	mu     sync.RWMutex
	closed bool
}

// New creates a pool with the given name and worker count and a nop logger.
func New(name string, workers int) *Pool {
	p, err := NewFromConfig(Config{Name: name, Workers: workers}, log.Nop())
	if err != nil {
		panic(err)
	}
	return p
}

// NewFromConfig creates a pool from a validated config, logging lifecycle
// events through logger.
func NewFromConfig(cfg Config, logger log.Log) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	queue := cfg.QueueSize
	if queue == 0 {
		queue = DefaultQueueSize
	}
	p := &Pool{
		name:   cfg.Name,
		tasks:  make(chan func(), queue),
		logger: logger.With(log.String("pool", cfg.Name)),
	}
	p.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go p.worker(i)
	}
	p.logger.Info("pool started", log.Int("workers", cfg.Workers), log.Int("queue_size", queue))
	return p, nil
}

// Name returns the pool's name.
func (p *Pool) Name() string { return p.name }

// Submit enqueues a job, blocking while the queue is full. It returns
// ErrPoolClosed after Shutdown.
func (p *Pool) Submit(job func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn("job rejected after shutdown")
		return ErrPoolClosed
	}
	p.tasks <- job
	return nil
}

// Shutdown stops accepting jobs and blocks until every queued job has run.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
	p.logger.Info("pool stopped")
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for job := range p.tasks {
		job()
	}
	p.logger.Debug("worker exited", log.Int("worker", id))
}
