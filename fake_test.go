package qdie

import (
	"context"
	"errors"
	"sync"
)

var errBackendDown = errors.New("backend down")

/*
fakeBackend returns scripted bit vectors instead of measuring anything. When
script runs out it falls back to delegate, and failures fails the first calls.
*/
type fakeBackend struct {
	mu       sync.Mutex
	script   []BitVector
	failures int
	calls    int
	trials   [][]Trial
	delegate Backend
}

func (f *fakeBackend) ExecuteTrials(ctx context.Context, trials []Trial) (BitVector, error) {
	f.mu.Lock()
	f.calls++
	f.trials = append(f.trials, trials)

	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()
		return nil, errBackendDown
	}

	if len(f.script) > 0 {
		bits := f.script[0]
		f.script = f.script[1:]
		f.mu.Unlock()
		return bits, nil
	}
	f.mu.Unlock()

	if f.delegate == nil {
		return nil, errBackendDown
	}
	return f.delegate.ExecuteTrials(ctx, trials)
}

func (f *fakeBackend) Reset(ctx context.Context, width int) error {
	return f.delegate.Reset(ctx, width)
}

func (f *fakeBackend) ApplyCustomUnitary(ctx context.Context, m Matrix, targets []int) error {
	return f.delegate.ApplyCustomUnitary(ctx, m, targets)
}

func (f *fakeBackend) Wavefunction(ctx context.Context) ([]complex128, error) {
	return f.delegate.Wavefunction(ctx)
}

func (f *fakeBackend) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
