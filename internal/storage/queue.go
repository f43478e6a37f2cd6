package storage

import "sync"

// SaveQueue serializes saves within one session: each enqueued save runs
// only after every earlier save has settled, so rapid edits cannot persist
// out of order. It provides no cross-session ordering; two clients editing
// the same record race and the later full-record write wins.
type SaveQueue struct {
	mu      sync.Mutex
	jobs    chan saveJob
	wg      sync.WaitGroup
	started bool
}

type saveJob struct {
	fn   func() error
	done chan error
}

func NewSaveQueue() *SaveQueue {
	q := &SaveQueue{
		jobs: make(chan saveJob, 64),
	}
	return q
}

func (q *SaveQueue) start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for job := range q.jobs {
			job.done <- job.fn()
			close(job.done)
		}
	}()
}

// Enqueue schedules a save and returns a channel that yields its result.
// Saves run strictly in enqueue order.
func (q *SaveQueue) Enqueue(fn func() error) <-chan error {
	q.start()
	done := make(chan error, 1)
	q.jobs <- saveJob{fn: fn, done: done}
	return done
}

// Do runs the save through the queue and blocks for its result.
func (q *SaveQueue) Do(fn func() error) error {
	return <-q.Enqueue(fn)
}

// Close drains pending saves and stops the worker. The queue must not be
// used after Close.
func (q *SaveQueue) Close() {
	q.mu.Lock()
	started := q.started
	q.mu.Unlock()
	close(q.jobs)
	if started {
		q.wg.Wait()
	}
}
