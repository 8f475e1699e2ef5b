package qdie

import "time"

// Job is one unit of work for the throw pool, usually a single die throw.
type Job struct {
	ID            string
	Fn            func() (any, error)
	RetryPolicy   *RetryPolicy
	CircuitID     string
	CircuitConfig *CircuitBreakerConfig
	TTL           time.Duration
	Attempt       int
	LastError     error
	StartTime     time.Time
}

// JobOption is a function type for configuring jobs
type JobOption func(*Job)

// CircuitBreakerConfig struct
type CircuitBreakerConfig struct {
	MaxFailures  int
	ResetTimeout time.Duration
	HalfOpenMax  int
}

// WithTTL configures how long a job's result stays awaitable.
func WithTTL(ttl time.Duration) JobOption {
	return func(j *Job) {
		j.TTL = ttl
	}
}
