package strategy

import (
	"context"
	"fmt"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/errors"
	"github.com/quantnexus/nexus-trader/internal/gateway"
	"github.com/quantnexus/nexus-trader/internal/journal"
	"github.com/quantnexus/nexus-trader/internal/logger"
	"github.com/quantnexus/nexus-trader/internal/monitoring"
)

// Direction is the side of a signal.
type Direction int

const (
	None Direction = iota
	Long
	Short
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "NONE"
	}
}

// Signal is the transient outcome of one evaluation cycle. It is
// computed fresh every tick and never stored.
type Signal struct {
	Direction Direction
	Entry     float64
	Stop      float64
	Target    float64
}

// Strategy is one schedulable strategy instance. ProcessTick runs one
// evaluation cycle; recoverable errors are absorbed inside, anything
// returned terminates the owning task. Close releases the gateway
// session and must be called exactly once on teardown.
type Strategy interface {
	Name() string
	Symbol() string
	ProcessTick(ctx context.Context) error
	Close() error
}

// Variant identifiers, the closed set of strategy kinds selectable
// from configuration.
const (
	VariantTrendFollowing = "trend_following"
	VariantMeanReversion  = "mean_reversion"
	VariantStatArbitrage  = "statistical_arbitrage"
	VariantTriangularArb  = "triangular_arbitrage"
	VariantMarketMaking   = "market_making"
	VariantGrid           = "grid"
	VariantSignalFiltered = "signal_filtered"
)

// Deps carries the collaborators every strategy instance is built
// with. Sessions come from a SessionFactory so each instance owns and
// releases its own gateway session.
type Deps struct {
	Platform   config.Platform
	NewSession func() gateway.Session
	Log        *logger.Logger
	Journal    *journal.Journal
	Health     *monitoring.HealthChecker // optional, fed last-seen balances
	Predictor  Predictor                 // used by the signal-filtered variant only
}

// Build constructs all instances for one configured strategy block.
// Per-instrument variants yield one instance per symbol; pair and
// triangle variants consume the symbol list as a whole. Configuration
// problems are fatal here, before anything is scheduled.
func Build(key string, block config.StrategyBlock, deps Deps) ([]Strategy, error) {
	switch block.Variant {
	case VariantTrendFollowing:
		return buildPerSymbol(block, func(symbol string) (Strategy, error) {
			return NewTrendFollowing(symbol, block, deps)
		})

	case VariantMeanReversion:
		return buildPerSymbol(block, func(symbol string) (Strategy, error) {
			return NewMeanReversion(symbol, block, deps)
		})

	case VariantStatArbitrage:
		s, err := NewStatArbitrage(block, deps)
		if err != nil {
			return nil, err
		}
		return []Strategy{s}, nil

	case VariantTriangularArb:
		s, err := NewTriangularArbitrage(block, deps)
		if err != nil {
			return nil, err
		}
		return []Strategy{s}, nil

	case VariantMarketMaking:
		return buildPerSymbol(block, func(symbol string) (Strategy, error) {
			return NewMarketMaking(symbol, block, deps)
		})

	case VariantGrid:
		return buildPerSymbol(block, func(symbol string) (Strategy, error) {
			return NewGrid(symbol, block, deps)
		})

	case VariantSignalFiltered:
		return buildPerSymbol(block, func(symbol string) (Strategy, error) {
			return NewSignalFiltered(symbol, block, deps)
		})

	default:
		return nil, errors.NewConfig("strategy", "build",
			"strategy %q: unknown variant %q", key, block.Variant)
	}
}

func buildPerSymbol(block config.StrategyBlock, build func(symbol string) (Strategy, error)) ([]Strategy, error) {
	instances := make([]Strategy, 0, len(block.Symbols))
	for _, symbol := range block.Symbols {
		s, err := build(symbol)
		if err != nil {
			return nil, fmt.Errorf("symbol %s: %w", symbol, err)
		}
		instances = append(instances, s)
	}
	return instances, nil
}
