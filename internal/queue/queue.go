// Package queue provides the unbounded FIFO job queue shared by the
// ingestion path (producers) and the worker pool (consumers).
package queue

import (
	"sync"

	"github.com/wis2kit/downloader/internal/worker/domain"
)

// Queue is an unbounded concurrent FIFO of jobs. Enqueue never blocks
// and never drops; Dequeue blocks the caller until a job is available
// or the queue is closed and drained.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []*domain.Job
	closed bool
}

// New creates an empty queue.
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a job to the tail of the queue. Jobs enqueued after
// Close are discarded; the pipeline is shutting down at that point.
func (q *Queue) Enqueue(job *domain.Job) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.jobs = append(q.jobs, job)
	q.cond.Signal()
}

// Dequeue removes and returns the job at the head of the queue,
// blocking until one is available. It returns ok=false once the queue
// has been closed and all remaining jobs have been drained.
func (q *Queue) Dequeue() (*domain.Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.jobs) == 0 && !q.closed {
		q.cond.Wait()
	}

	if len(q.jobs) == 0 {
		return nil, false
	}

	job := q.jobs[0]
	q.jobs[0] = nil
	q.jobs = q.jobs[1:]
	return job, true
}

// Size returns the number of queued jobs. It is safe to call
// concurrently with Enqueue and Dequeue and does not affect ordering.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Close marks the queue as closed and wakes all blocked consumers.
// Already-queued jobs can still be drained with Dequeue.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	q.cond.Broadcast()
}
