package qdie

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Worker processes jobs
type Worker struct {
	pool *Q
	jobs chan Job
}

func (w *Worker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case w.pool.workers <- w.jobs:
		}

		select {
		case <-ctx.Done():
			return
		case job := <-w.jobs:
			result, err := w.processJob(ctx, job)
			w.pool.space.Store(job.ID, result, err, job.TTL)
		}
	}
}

func (w *Worker) processJob(ctx context.Context, job Job) (any, error) {
	breaker := w.pool.getCircuitBreaker(job)

	if breaker != nil && !breaker.Allow() {
		log.Printf("Job %s not allowed by circuit breaker %s", job.ID, job.CircuitID)
		w.pool.metrics.recordRejected()
		return nil, fmt.Errorf("circuit breaker open for %s", job.CircuitID)
	}

	result, err := w.executeWithRetries(ctx, job, breaker)
	if err != nil {
		return nil, err
	}

	if breaker != nil {
		breaker.RecordSuccess()
	}

	return result, nil
}

func (w *Worker) executeWithRetries(ctx context.Context, job Job, breaker *CircuitBreaker) (any, error) {
	for job.Attempt = 0; job.Attempt < job.RetryPolicy.MaxAttempts; job.Attempt++ {
		if job.Attempt > 0 {
			delay := job.RetryPolicy.Strategy.NextDelay(job.Attempt)
			log.Printf("Job %s retrying attempt %d after %v", job.ID, job.Attempt+1, delay)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := job.Fn()
		if err == nil {
			return result, nil
		}

		job.LastError = err
		log.Printf("Job %s attempt %d failed with error: %v", job.ID, job.Attempt+1, err)
		w.pool.metrics.recordFailure()

		if breaker != nil {
			breaker.RecordFailure()
		}

		if job.RetryPolicy.Filter != nil && !job.RetryPolicy.Filter(err) {
			break
		}
	}

	return nil, fmt.Errorf("all retries failed for job %s: %w", job.ID, job.LastError)
}
