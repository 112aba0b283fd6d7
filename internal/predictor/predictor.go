package predictor

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/quantnexus/nexus-trader/internal/strategy"
	"github.com/quantnexus/nexus-trader/pkg/types"
)

// Simulated is a stand-in model: it emits a random directional call
// with a confidence drawn uniformly from [0.60, 0.99). It exists so
// the signal-filtered pipeline is fully exercisable before a real
// model is plugged in behind the same interface.
type Simulated struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulated creates a simulated predictor seeded from the clock.
func NewSimulated() *Simulated {
	return NewSimulatedWithSeed(time.Now().UnixNano())
}

// NewSimulatedWithSeed creates a deterministic simulated predictor.
func NewSimulatedWithSeed(seed int64) *Simulated {
	return &Simulated{rng: rand.New(rand.NewSource(seed))}
}

// Predict implements strategy.Predictor.
func (p *Simulated) Predict(_ context.Context, candles []types.OHLCV) (strategy.Direction, float64, error) {
	if len(candles) == 0 {
		return strategy.None, 0, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	direction := strategy.Long
	if p.rng.Intn(2) == 1 {
		direction = strategy.Short
	}
	confidence := 0.60 + p.rng.Float64()*0.39
	return direction, confidence, nil
}
