package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilab/tilab/internal/config"
	"github.com/tilab/tilab/internal/pkg/apperrors"
)

func TestFail_Rates(t *testing.T) {
	always := New(Options{FailureRate: 1, FailOperations: []string{"component.create"}, Seed: 7})
	never := New(Options{FailureRate: 0, FailOperations: []string{"component.create"}, Seed: 7})

	for i := 0; i < 50; i++ {
		assert.ErrorIs(t, always.Fail("component.create"), apperrors.ErrInjectedFailure)
		assert.NoError(t, never.Fail("component.create"))
	}
}

func TestFail_OnlyListedOperations(t *testing.T) {
	s := New(Options{FailureRate: 1, FailOperations: []string{"component.create"}})
	assert.NoError(t, s.Fail("course.create"))
}

func TestNilSimulator(t *testing.T) {
	var s *Simulator
	assert.NoError(t, s.Run(context.Background(), Write, "component.create"))
}

func TestDelay_HonoursCancellation(t *testing.T) {
	s := New(Options{Latency: map[Kind]time.Duration{List: time.Hour}})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := s.Delay(ctx, List)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDelay_Sleeps(t *testing.T) {
	s := New(Options{Latency: map[Kind]time.Duration{Get: 20 * time.Millisecond}})
	start := time.Now()
	require.NoError(t, s.Delay(context.Background(), Get))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	s, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Nil(t, s)

	cfg.Simulation.Enabled = true
	s, err = FromConfig(cfg)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 500*time.Millisecond, s.latency[List])
	assert.Equal(t, time.Second, s.latency[Write])
	assert.True(t, s.failOps["component.create"])
}
