package qdie

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const timeoutMsg = "Test timed out waiting for value retrieval"

func TestWorker(t *testing.T) {
	Convey("Given a worker attached to a bare pool", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		pool := &Q{
			ctx:      ctx,
			workers:  make(chan chan Job, 1),
			space:    newResultSpace(time.Minute),
			breakers: make(map[string]*CircuitBreaker),
			config:   NewConfig(),
		}
		worker := &Worker{pool: pool, jobs: make(chan Job)}

		done := make(chan struct{})
		go func() {
			defer close(done)
			worker.run(ctx)
		}()

		Reset(func() {
			cancel()
			<-done
			pool.space.Close()
		})

		dispatch := func(job Job) Result {
			results := pool.space.Await(job.ID)

			select {
			case jobs := <-pool.workers:
				jobs <- job
			case <-time.After(2 * time.Second):
				t.Fatal("worker never offered itself")
			}

			select {
			case result := <-results:
				return result
			case <-time.After(2 * time.Second):
				t.Fatal(timeoutMsg)
			}
			return Result{}
		}

		Convey("It should process a job successfully", func() {
			result := dispatch(Job{
				ID:          "job_success",
				Fn:          func() (any, error) { return "result", nil },
				RetryPolicy: &RetryPolicy{MaxAttempts: 1, Strategy: &ExponentialBackoff{}},
				TTL:         10 * time.Second,
			})

			So(result.Error, ShouldBeNil)
			So(result.Value, ShouldEqual, "result")
		})

		Convey("It should give up after the last retry", func() {
			attempts := 0
			result := dispatch(Job{
				ID: "job_failure",
				Fn: func() (any, error) {
					attempts++
					return nil, errBackendDown
				},
				RetryPolicy: &RetryPolicy{MaxAttempts: 3, Strategy: &ExponentialBackoff{Initial: time.Millisecond}},
			})

			So(errors.Is(result.Error, errBackendDown), ShouldBeTrue)
			So(attempts, ShouldEqual, 3)
		})

		Convey("It should refuse jobs behind an open breaker", func() {
			breaker := NewCircuitBreaker(1, time.Minute, 1)
			breaker.RecordFailure()
			pool.breakers["backend"] = breaker

			result := dispatch(Job{
				ID:            "job_blocked",
				Fn:            func() (any, error) { return 1, nil },
				RetryPolicy:   &RetryPolicy{MaxAttempts: 1, Strategy: &ExponentialBackoff{}},
				CircuitID:     "backend",
				CircuitConfig: &CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Minute, HalfOpenMax: 1},
			})

			So(result.Error, ShouldNotBeNil)
		})
	})
}

func TestExponentialBackoff(t *testing.T) {
	Convey("Given an exponential backoff", t, func() {
		backoff := &ExponentialBackoff{Initial: 10 * time.Millisecond}

		So(backoff.NextDelay(1), ShouldEqual, 10*time.Millisecond)
		So(backoff.NextDelay(2), ShouldEqual, 20*time.Millisecond)
		So(backoff.NextDelay(4), ShouldEqual, 80*time.Millisecond)
	})
}
