package cache

import (
	"context"
	"sync"
)

type refreshJob struct {
	ctx context.Context
	key Key
}

// refreshLane runs background reloads one at a time. Offers never block: a
// full queue rejects the job.
type refreshLane struct {
	mu     sync.RWMutex
	closed bool
	jobs   chan refreshJob
	wg     sync.WaitGroup
}

func newRefreshLane(size int, run func(refreshJob)) *refreshLane {
	l := &refreshLane{jobs: make(chan refreshJob, size)}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for job := range l.jobs {
			run(job)
		}
	}()
	return l
}

// offer queues job and reports whether it was accepted.
func (l *refreshLane) offer(job refreshJob) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return false
	}
	select {
	case l.jobs <- job:
		return true
	default:
		return false
	}
}

// close stops accepting jobs and waits for queued ones to drain.
func (l *refreshLane) close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.jobs)
	l.mu.Unlock()
	l.wg.Wait()
}
