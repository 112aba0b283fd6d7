package orchestrator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/logger"
	"github.com/quantnexus/nexus-trader/internal/monitoring"
	"github.com/quantnexus/nexus-trader/internal/strategy"
)

type fakeStrategy struct {
	name    string
	ticks   atomic.Int64
	closed  atomic.Int64
	tickErr error
	panics  bool
}

func (f *fakeStrategy) Name() string   { return f.name }
func (f *fakeStrategy) Symbol() string { return "BTCUSDT" }

func (f *fakeStrategy) ProcessTick(context.Context) error {
	f.ticks.Add(1)
	if f.panics {
		panic("boom")
	}
	return f.tickErr
}

func (f *fakeStrategy) Close() error {
	f.closed.Add(1)
	return nil
}

func newTestOrchestrator(tasks []Task) (*Orchestrator, *monitoring.HealthChecker) {
	health := monitoring.NewHealthChecker()
	o := New(tasks, health, logger.NewDiscard())
	o.staggerMin = time.Millisecond
	o.staggerMax = 5 * time.Millisecond
	return o, health
}

func TestRunTicksUntilCancelled(t *testing.T) {
	s := &fakeStrategy{name: "trend_following"}
	o, _ := newTestOrchestrator([]Task{
		{Key: "trend", Strategy: s, Interval: 10 * time.Millisecond},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	o.Run(ctx)

	assert.Greater(t, s.ticks.Load(), int64(2))
	assert.Equal(t, int64(1), s.closed.Load())
}

func TestFailingTaskDoesNotStopSiblings(t *testing.T) {
	bad := &fakeStrategy{name: "bad", tickErr: errors.New("terminal")}
	good := &fakeStrategy{name: "good"}
	o, _ := newTestOrchestrator([]Task{
		{Key: "bad", Strategy: bad, Interval: 10 * time.Millisecond},
		{Key: "good", Strategy: good, Interval: 10 * time.Millisecond},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	o.Run(ctx)

	assert.Equal(t, int64(1), bad.ticks.Load())
	assert.Greater(t, good.ticks.Load(), int64(2))
	assert.Equal(t, int64(1), bad.closed.Load())
	assert.Equal(t, int64(1), good.closed.Load())
}

func TestPanickingTaskIsContainedAndSessionReleased(t *testing.T) {
	bad := &fakeStrategy{name: "bad", panics: true}
	good := &fakeStrategy{name: "good"}
	o, _ := newTestOrchestrator([]Task{
		{Key: "bad", Strategy: bad, Interval: 10 * time.Millisecond},
		{Key: "good", Strategy: good, Interval: 10 * time.Millisecond},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	o.Run(ctx)

	assert.Equal(t, int64(1), bad.ticks.Load())
	assert.Equal(t, int64(1), bad.closed.Load())
	assert.Greater(t, good.ticks.Load(), int64(2))
}

// Launches a wide batch of tasks at once; under -race this exercises
// the startup path where every stagger is drawn from the shared rng.
func TestManyTasksStartWithoutInterference(t *testing.T) {
	var tasks []Task
	var strategies []*fakeStrategy
	for i := 0; i < 32; i++ {
		s := &fakeStrategy{name: "trend"}
		strategies = append(strategies, s)
		tasks = append(tasks, Task{Key: "trend", Strategy: s, Interval: 10 * time.Millisecond})
	}
	o, _ := newTestOrchestrator(tasks)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	o.Run(ctx)

	for _, s := range strategies {
		assert.Greater(t, s.ticks.Load(), int64(0))
		assert.Equal(t, int64(1), s.closed.Load())
	}
}

func TestCancelBeforeStaggerStillClosesSession(t *testing.T) {
	s := &fakeStrategy{name: "trend"}
	o, _ := newTestOrchestrator([]Task{
		{Key: "trend", Strategy: s, Interval: 10 * time.Millisecond},
	})
	o.staggerMin = time.Second
	o.staggerMax = 2 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o.Run(ctx)

	assert.Equal(t, int64(0), s.ticks.Load())
	assert.Equal(t, int64(1), s.closed.Load())
}

func TestBuildTasksExpandsSymbols(t *testing.T) {
	cfg := &config.Config{
		Strategies: map[string]config.StrategyBlock{
			"trend": {
				Enabled:      true,
				Variant:      strategy.VariantTrendFollowing,
				Symbols:      []string{"BTCUSDT", "ETHUSDT"},
				TickInterval: config.Duration{Duration: 30 * time.Second},
			},
			"disabled": {
				Enabled: false,
				Variant: strategy.VariantGrid,
				Symbols: []string{"BTCUSDT"},
			},
		},
	}

	tasks, err := BuildTasks(cfg, strategy.Deps{
		NewSession: nopSessionFactory(),
		Log:        logger.NewDiscard(),
	})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 30*time.Second, tasks[0].Interval)
}

func TestBuildTasksRejectsBadVariant(t *testing.T) {
	cfg := &config.Config{
		Strategies: map[string]config.StrategyBlock{
			"bad": {Enabled: true, Variant: "nope", Symbols: []string{"BTCUSDT"}},
		},
	}

	_, err := BuildTasks(cfg, strategy.Deps{
		NewSession: nopSessionFactory(),
		Log:        logger.NewDiscard(),
	})
	assert.Error(t, err)
}
