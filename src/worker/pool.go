// Package worker runs session stage tasks off the event loop goroutine.
package worker

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Task is one unit of background work. It must return once ctx is done.
type Task func(ctx context.Context)

// Pool runs tasks on a fixed set of goroutines behind a one-slot queue, so a
// submitter learns at once when work is already backed up.
type Pool struct {
	queue  chan submission
	active atomic.Int32
	wg     sync.WaitGroup
	once   sync.Once
}

type submission struct {
	ctx  context.Context
	name string
	task Task
}

// New starts workers goroutines; values below 1 mean one.
func New(workers int) *Pool {
	p := &Pool{queue: make(chan submission, 1)}
	for i := 0; i < max(workers, 1); i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for s := range p.queue {
		p.exec(s)
	}
}

// exec runs s even when its context is already done so the task can report
// the cancellation. A panicking task is logged and the worker keeps going.
func (p *Pool) exec(s submission) {
	p.active.Add(1)
	defer p.active.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("worker: %s panicked: %v", s.name, r)
		}
	}()

	start := time.Now()
	s.task(s.ctx)
	log.Printf("worker: %s finished in %s (ctx err=%v)", s.name, time.Since(start).Round(time.Millisecond), s.ctx.Err())
}

// Submit queues task unless the slot is taken. It reports whether the task
// was accepted.
func (p *Pool) Submit(ctx context.Context, name string, task Task) bool {
	select {
	case p.queue <- submission{ctx: ctx, name: name, task: task}:
		return true
	default:
		log.Printf("worker: dropped %s, queue full", name)
		return false
	}
}

// Active is the number of tasks running right now.
func (p *Pool) Active() int { return int(p.active.Load()) }

// Close waits for queued and running tasks. It is safe to call twice.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.queue) })
	p.wg.Wait()
}
