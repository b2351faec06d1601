// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package transport

import (
	"context"
	"sync"
)

// queue runs jobs one at a time, in the order they were added, on a single
// goroutine that exits once the queue is empty.
//
// The zero value is ready to use.
type queue struct {
	mu      sync.Mutex
	jobs    []func()
	running bool
	idle    chan struct{}
}

// add appends job without waiting for it to run.
func (queue *queue) add(job func()) {
	queue.mu.Lock()
	defer queue.mu.Unlock()

	queue.jobs = append(queue.jobs, job)
	if !queue.running {
		queue.running = true
		queue.idle = make(chan struct{})
		go queue.run()
	}
}

func (queue *queue) run() {
	for {
		queue.mu.Lock()
		if len(queue.jobs) == 0 {
			queue.running = false
			close(queue.idle)
			queue.mu.Unlock()
			return
		}
		job := queue.jobs[0]
		queue.jobs[0] = nil
		queue.jobs = queue.jobs[1:]
		queue.mu.Unlock()

		job()
	}
}

// wait blocks until every added job has run or ctx is done.
func (queue *queue) wait(ctx context.Context) error {
	queue.mu.Lock()
	if !queue.running {
		queue.mu.Unlock()
		return nil
	}
	idle := queue.idle
	queue.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
