package qdie

import (
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

// Result is what a job produced, held until it is awaited or expires.
type Result struct {
	Value     any
	Error     error
	CreatedAt time.Time
	TTL       time.Duration
}

// ResultSpace stores job results by ID and hands them to whoever awaits them.
type ResultSpace struct {
	mu      sync.Mutex
	values  map[string]Result
	waiting map[string][]chan Result
	wg      sync.WaitGroup
	done    chan struct{}
	once    sync.Once
}

func newResultSpace(interval time.Duration) *ResultSpace {
	rs := &ResultSpace{
		values:  make(map[string]Result),
		waiting: make(map[string][]chan Result),
		done:    make(chan struct{}),
	}

	rs.wg.Add(1)
	go func() {
		defer rs.wg.Done()
		rs.cleanup(interval)
	}()

	return rs
}

// Store records a result and wakes every waiter for id.
func (rs *ResultSpace) Store(id string, value any, err error, ttl time.Duration) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	result := Result{
		Value:     value,
		Error:     err,
		CreatedAt: time.Now(),
		TTL:       ttl,
	}
	rs.values[id] = result

	channels := rs.waiting[id]
	for _, ch := range channels {
		ch <- result
		close(ch)
	}
	delete(rs.waiting, id)

	errnie.Debug("ResultSpace.Store - job %s, value %v, err %v, waiters %d", id, value, err, len(channels))
}

// Await returns a channel that receives the result for id once it is stored.
func (rs *ResultSpace) Await(id string) <-chan Result {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	ch := make(chan Result, 1)

	if result, ok := rs.values[id]; ok {
		ch <- result
		close(ch)
		return ch
	}

	rs.waiting[id] = append(rs.waiting[id], ch)
	return ch
}

// Forget drops a stored result.
func (rs *ResultSpace) Forget(id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	delete(rs.values, id)
}

func (rs *ResultSpace) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rs.done:
			return
		case <-ticker.C:
			rs.mu.Lock()
			rs.cleanupExpiredValues()
			rs.mu.Unlock()
		}
	}
}

func (rs *ResultSpace) cleanupExpiredValues() {
	now := time.Now()
	for id, result := range rs.values {
		if result.TTL > 0 && now.Sub(result.CreatedAt) > result.TTL {
			delete(rs.values, id)
		}
	}
}

// Close stops the cleanup loop.
func (rs *ResultSpace) Close() {
	rs.once.Do(func() {
		close(rs.done)
	})
	rs.wg.Wait()
}
