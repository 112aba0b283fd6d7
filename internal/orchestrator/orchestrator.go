package orchestrator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/logger"
	"github.com/quantnexus/nexus-trader/internal/monitoring"
	"github.com/quantnexus/nexus-trader/internal/strategy"
)

const (
	staggerMin = 1 * time.Second
	staggerMax = 15 * time.Second
)

// Task is one scheduled strategy instance: the instance itself plus
// its tick interval.
type Task struct {
	Key      string
	Strategy strategy.Strategy
	Interval time.Duration
}

// Orchestrator owns the lifecycle of all strategy tasks: it launches
// one goroutine per task with a randomized startup stagger, keeps a
// panicking task from taking down its siblings, and guarantees every
// gateway session is released on the way out.
type Orchestrator struct {
	tasks  []Task
	health *monitoring.HealthChecker
	log    *logger.ComponentLogger
	rng    *rand.Rand

	staggerMin time.Duration
	staggerMax time.Duration

	wg sync.WaitGroup
}

// New creates an orchestrator over the given tasks.
func New(tasks []Task, health *monitoring.HealthChecker, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		tasks:      tasks,
		health:     health,
		log:        log.Component("orchestrator"),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		staggerMin: staggerMin,
		staggerMax: staggerMax,
	}
}

// BuildTasks expands every enabled strategy block into scheduled tasks.
func BuildTasks(cfg *config.Config, deps strategy.Deps) ([]Task, error) {
	var tasks []Task
	for key, block := range cfg.EnabledStrategies() {
		instances, err := strategy.Build(key, block, deps)
		if err != nil {
			return nil, fmt.Errorf("strategy %q: %w", key, err)
		}
		for _, s := range instances {
			tasks = append(tasks, Task{
				Key:      fmt.Sprintf("%s/%s[%s]", key, s.Name(), s.Symbol()),
				Strategy: s,
				Interval: block.TickInterval.Duration,
			})
		}
	}
	return tasks, nil
}

// Run launches every task and blocks until ctx is cancelled and all
// tasks have unwound. Individual task failures never abort the run;
// they are recorded and the remaining tasks keep trading.
func (o *Orchestrator) Run(ctx context.Context) {
	o.log.Info("launching %d strategy tasks", len(o.tasks))

	for _, task := range o.tasks {
		// The rng is not goroutine-safe, so the stagger is drawn here
		// and handed to the task.
		stagger := o.staggerMin + time.Duration(o.rng.Int63n(int64(o.staggerMax-o.staggerMin)))
		o.wg.Add(1)
		o.health.TaskStarted()
		go o.runTask(ctx, task, stagger)
	}

	o.wg.Wait()
	o.log.Info("all strategy tasks stopped")
}

// runTask is the lifetime of one strategy instance: stagger, then tick
// until cancellation. The session is released on every exit path,
// panics included.
func (o *Orchestrator) runTask(ctx context.Context, task Task, stagger time.Duration) {
	defer o.wg.Done()

	failed := false
	defer func() {
		if r := recover(); r != nil {
			failed = true
			o.log.Error("task %s panicked: %v", task.Key, r)
			monitoring.RecordTaskFailure(task.Key)
		}
		if err := task.Strategy.Close(); err != nil {
			o.log.Warning("task %s session close: %v", task.Key, err)
		}
		o.health.TaskStopped(task.Key, failed)
		o.log.Info("task %s stopped", task.Key)
	}()

	// Staggered start spreads the initial burst of market-data calls
	// across the shared account rate-limit budget.
	o.log.Info("task %s starting in %s (tick %s)", task.Key, stagger.Round(time.Second), task.Interval)

	select {
	case <-ctx.Done():
		return
	case <-time.After(stagger):
	}

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		if err := task.Strategy.ProcessTick(ctx); err != nil {
			// ProcessTick absorbs recoverable errors itself; anything
			// returned is terminal for this task.
			failed = true
			o.log.Error("task %s failed: %v", task.Key, err)
			monitoring.RecordTaskFailure(task.Key)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
