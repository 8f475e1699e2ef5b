package qdie

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

/*
Q is a worker pool that throws dice in parallel against one register
backend. Every throw is its own job with its own plan execution, so throws
share no register state and need no coordination beyond the backend's
circuit breaker.
*/
type Q struct {
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	workers    chan chan Job
	jobs       chan Job
	space      *ResultSpace
	backend    Backend
	metrics    *Metrics
	breakers   map[string]*CircuitBreaker
	breakersMu sync.Mutex
	config     *Config
	sequence   atomic.Uint64
}

// NewQ starts a pool of config.Workers workers. metrics may be nil.
func NewQ(ctx context.Context, backend Backend, config *Config, metrics *Metrics) *Q {
	if config == nil {
		config = NewConfig()
	}

	workers := max(config.Workers, 1)
	capacity := max(config.MaxWorkers, workers)

	ctx, cancel := context.WithCancel(ctx)
	q := &Q{
		ctx:      ctx,
		cancel:   cancel,
		workers:  make(chan chan Job, capacity),
		jobs:     make(chan Job, capacity*10),
		space:    newResultSpace(time.Minute),
		backend:  backend,
		metrics:  metrics,
		breakers: make(map[string]*CircuitBreaker),
		config:   config,
	}

	for i := 0; i < workers; i++ {
		q.startWorker()
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.manage()
	}()

	return q
}

// Pool management
func (q *Q) manage() {
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			select {
			case <-q.ctx.Done():
				return
			case workerChan := <-q.workers:
				select {
				case workerChan <- job:
				case <-q.ctx.Done():
					return
				}
			case <-time.After(q.getSchedulingTimeout()):
				log.Printf("No available workers for job: %s, timeout occurred", job.ID)
				q.metrics.recordRejected()
				q.space.Store(job.ID, nil, fmt.Errorf("no available workers"), job.TTL)
			}
		}
	}
}

// Schedule queues fn and returns a channel that receives its result.
func (q *Q) Schedule(id string, fn func() (any, error), opts ...JobOption) <-chan Result {
	ctx, cancel := context.WithTimeout(q.ctx, q.getSchedulingTimeout())
	defer cancel()

	job := Job{
		ID:        id,
		Fn:        fn,
		StartTime: time.Now(),
	}

	defaults := WithRetry(
		max(q.config.RetryAttempts, 1),
		&ExponentialBackoff{Initial: q.config.RetryInitial},
	)

	for _, opt := range append([]JobOption{defaults}, opts...) {
		opt(&job)
	}

	if breaker := q.getCircuitBreaker(job); breaker != nil && !breaker.Allow() {
		q.metrics.recordRejected()
		return failed(fmt.Errorf("circuit breaker %s is open", job.CircuitID))
	}

	select {
	case q.jobs <- job:
		// Await sees results stored before it registers.
		return q.space.Await(id)
	case <-ctx.Done():
		q.metrics.recordRejected()
		return failed(fmt.Errorf("job scheduling timeout: %w", ctx.Err()))
	}
}

/*
Roll throws an n-sided die count times across the pool and returns the
outcomes in scheduling order. All throws share one plan; each executes it as
its own batch on the backend.
*/
func (q *Q) Roll(ctx context.Context, n, count int) ([]int, error) {
	if count < 0 {
		return nil, fmt.Errorf("roll %d throws: %w", count, ErrInvalidArity)
	}

	plan, err := Encode(n)
	if err != nil {
		return nil, err
	}

	batch := q.sequence.Add(1)
	ids := make([]string, count)
	pending := make([]<-chan Result, count)

	for i := range pending {
		ids[i] = fmt.Sprintf("d%d-%d-%d", n, batch, i)
		scheduled := time.Now()

		pending[i] = q.Schedule(ids[i], func() (any, error) {
			outcome, err := Throw(ctx, q.backend, plan)
			if err != nil {
				return nil, err
			}

			q.metrics.recordThrow(plan, outcome, scheduled)
			return outcome, nil
		},
			WithCircuitBreaker("backend", q.config.BreakerFailures, q.config.BreakerReset),
			WithRetryFilter(retryable),
			WithTTL(time.Minute),
		)
	}

	outcomes := make([]int, count)
	var errs []error

	for i, ch := range pending {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-ch:
			q.space.Forget(ids[i])
			if result.Error != nil {
				errs = append(errs, fmt.Errorf("%s: %w", ids[i], result.Error))
				continue
			}
			outcomes[i] = result.Value.(int)
		}
	}

	if len(errs) > 0 {
		return outcomes, errors.Join(errs...)
	}

	return outcomes, nil
}

// Breaker returns the named circuit breaker, or nil if no job has used it yet.
func (q *Q) Breaker(id string) *CircuitBreaker {
	q.breakersMu.Lock()
	defer q.breakersMu.Unlock()
	return q.breakers[id]
}

func (q *Q) startWorker() {
	worker := &Worker{
		pool: q,
		jobs: make(chan Job),
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		worker.run(q.ctx)
	}()
}

func (q *Q) getCircuitBreaker(job Job) *CircuitBreaker {
	if job.CircuitID == "" || job.CircuitConfig == nil {
		return nil
	}

	q.breakersMu.Lock()
	defer q.breakersMu.Unlock()

	breaker, exists := q.breakers[job.CircuitID]
	if !exists {
		breaker = NewCircuitBreaker(
			job.CircuitConfig.MaxFailures,
			job.CircuitConfig.ResetTimeout,
			job.CircuitConfig.HalfOpenMax,
		)
		q.breakers[job.CircuitID] = breaker
	}

	return breaker
}

func (q *Q) getSchedulingTimeout() time.Duration {
	if q.config != nil && q.config.SchedulingTimeout > 0 {
		return q.config.SchedulingTimeout
	}
	return 5 * time.Second
}

// Close stops the workers and waits for them to exit.
func (q *Q) Close() {
	if q == nil {
		return
	}

	log.Println("Closing throw pool")

	q.cancel()
	q.wg.Wait()
	q.space.Close()

	log.Println("Throw pool closed")
}

// Validation failures and cancellation are final; only backend trouble is retried.
func retryable(err error) bool {
	for _, final := range []error{
		ErrInvalidArity, ErrDomain, ErrLengthMismatch, ErrInvalidBit,
		ErrDimension, ErrArityMismatch, context.Canceled, context.DeadlineExceeded,
	} {
		if errors.Is(err, final) {
			return false
		}
	}
	return true
}

func failed(err error) <-chan Result {
	ch := make(chan Result, 1)
	ch <- Result{Error: err, CreatedAt: time.Now()}
	close(ch)
	return ch
}
