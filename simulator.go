package qdie

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/theapemachine/errnie"
)

/*
Simulator is an in-process state-vector Backend. It holds one register for
custom operations and builds a fresh register for every trial batch, so
trial batches never disturb the held state.
*/
type Simulator struct {
	mu       sync.Mutex
	state    *QuantumState
	rng      *rand.Rand
	maxSlots int
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithSeed makes measurement outcomes reproducible.
func WithSeed(seed uint64) SimulatorOption {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithMaxSlots caps the register width.
func WithMaxSlots(n int) SimulatorOption {
	return func(s *Simulator) {
		s.maxSlots = n
	}
}

// NewSimulator returns a simulator holding a single blank slot.
func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		state:    NewQuantumState(1),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		maxSlots: defaultMaxSlots,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ExecuteTrials runs one batch of independent trials on a fresh register.
func (s *Simulator) ExecuteTrials(ctx context.Context, trials []Trial) (BitVector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(trials) == 0 {
		return BitVector{}, nil
	}

	ordered := make([]Trial, len(trials))
	copy(ordered, trials)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Slot < ordered[j].Slot
	})

	for i, trial := range ordered {
		if trial.Slot < 0 || (i > 0 && ordered[i-1].Slot == trial.Slot) {
			return nil, fmt.Errorf("trial slot %d: %w", trial.Slot, ErrArityMismatch)
		}
	}

	width := ordered[len(ordered)-1].Slot + 1
	if err := s.checkWidth(width); err != nil {
		return nil, err
	}

	register := NewQuantumState(width)
	for _, trial := range ordered {
		if err := register.Apply(RX(trial.Angle), []int{trial.Slot}); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bits := make(BitVector, len(ordered))
	for i, trial := range ordered {
		bits[i] = register.Measure(trial.Slot, s.rng.Float64())
	}

	errnie.Debug("ExecuteTrials - width %d, bits %v", width, bits)
	return bits, nil
}

// Reset replaces the held register with width blank slots.
func (s *Simulator) Reset(ctx context.Context, width int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if width < 1 {
		return fmt.Errorf("reset to %d slots: %w", width, ErrInvalidArity)
	}

	if err := s.checkWidth(width); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = NewQuantumState(width)
	return nil
}

// ApplyCustomUnitary applies m to the held register over targets.
func (s *Simulator) ApplyCustomUnitary(ctx context.Context, m Matrix, targets []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Apply(m, targets)
}

// Wavefunction returns a copy of the held register's amplitudes.
func (s *Simulator) Wavefunction(ctx context.Context) ([]complex128, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Snapshot(), nil
}

func (s *Simulator) checkWidth(width int) error {
	if width > s.maxSlots {
		return fmt.Errorf("register of %d slots exceeds %d: %w", width, s.maxSlots, ErrArityMismatch)
	}
	return nil
}
