// Package simulation reproduces the latency and intermittent failures of the
// console's original mock back end. It is disabled unless configured.
package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/tilab/tilab/internal/config"
	"github.com/tilab/tilab/internal/pkg/apperrors"
	"github.com/tilab/tilab/internal/pkg/logger"
)

// Kind selects which latency applies to an operation
type Kind int

const (
	List Kind = iota
	Get
	Write
	Delete
)

// Simulator injects latency and failures. A nil *Simulator is a no-op.
type Simulator struct {
	failureRate float64
	failOps     map[string]bool
	latency     map[Kind]time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// Options configures a Simulator
type Options struct {
	FailureRate    float64
	FailOperations []string
	Latency        map[Kind]time.Duration
	Seed           uint64
}

// New creates a Simulator
func New(opts Options) *Simulator {
	s := &Simulator{
		failureRate: opts.FailureRate,
		failOps:     make(map[string]bool, len(opts.FailOperations)),
		latency:     make(map[Kind]time.Duration, len(opts.Latency)),
	}
	for _, op := range opts.FailOperations {
		s.failOps[op] = true
	}
	for k, d := range opts.Latency {
		s.latency[k] = d
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s.rnd = rand.New(rand.NewPCG(seed, seed>>1|1))
	return s
}

// FromConfig builds a Simulator, returning nil when simulation is disabled
func FromConfig(cfg *config.Config) (*Simulator, error) {
	if !cfg.Simulation.Enabled {
		return nil, nil
	}

	latency := make(map[Kind]time.Duration, 4)
	for kind, raw := range map[Kind]string{
		List:   cfg.Simulation.ListLatency,
		Get:    cfg.Simulation.GetLatency,
		Write:  cfg.Simulation.WriteLatency,
		Delete: cfg.Simulation.DeleteLatency,
	} {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid simulation latency %q: %w", raw, err)
		}
		latency[kind] = d
	}

	logger.Info().
		Float64("failure_rate", cfg.Simulation.FailureRate).
		Strs("fail_operations", cfg.Simulation.FailOperations).
		Msg("Backend simulation enabled")

	return New(Options{
		FailureRate:    cfg.Simulation.FailureRate,
		FailOperations: cfg.Simulation.FailOperations,
		Latency:        latency,
	}), nil
}

// Delay sleeps for the latency configured for kind, returning early with the
// context's error if it is cancelled.
func (s *Simulator) Delay(ctx context.Context, kind Kind) error {
	if s == nil {
		return ctx.Err()
	}
	d := s.latency[kind]
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Fail returns ErrInjectedFailure with the configured probability when op is
// one of the failing operations.
func (s *Simulator) Fail(op string) error {
	if s == nil || !s.failOps[op] || s.failureRate <= 0 {
		return nil
	}

	s.mu.Lock()
	roll := s.rnd.Float64()
	s.mu.Unlock()

	if roll < s.failureRate {
		logger.Warn().Str("operation", op).Msg("Injected failure")
		return fmt.Errorf("%w: %s", apperrors.ErrInjectedFailure, op)
	}
	return nil
}

// Run applies latency then the failure check for op
func (s *Simulator) Run(ctx context.Context, kind Kind, op string) error {
	if err := s.Delay(ctx, kind); err != nil {
		return err
	}
	return s.Fail(op)
}
