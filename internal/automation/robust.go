package automation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/subsim/internal/control"
	"github.com/san-kum/subsim/internal/experiment"
	"github.com/san-kum/subsim/internal/physics"
	"github.com/san-kum/subsim/internal/sim"
	"github.com/san-kum/subsim/internal/submarine"
)

var ErrSpread = errors.New("automation: spread must be in [0, 1)")

// MonteCarlo scores one gain set against randomly perturbed hulls. Each
// physical parameter is scaled by a factor drawn uniformly from
// [1-Spread, 1+Spread].
type MonteCarlo struct {
	Scenario    experiment.Scenario
	Gains       control.Gains
	Params      physics.Params
	Height      float64
	Spread      float64
	Trials      int
	Seed        uint64
	Metric      string
	SettleAfter float64
	Logger      *zap.Logger
}

type Trial struct {
	Params physics.Params
	Score  float64
	Stable bool
}

type Summary struct {
	Trials []Trial
	Mean   float64
	StdDev float64
	Worst  float64
	Stable int
}

func (mc *MonteCarlo) perturb(rng *rand.Rand) physics.Params {
	scale := func(v float64) float64 {
		return v * (1 + mc.Spread*(2*rng.Float64()-1))
	}
	return physics.Params{
		BuoyancyFactor: scale(mc.Params.BuoyancyFactor),
		Gravity:        scale(mc.Params.Gravity),
		Mass:           scale(mc.Params.Mass),
		Drag:           scale(mc.Params.Drag),
		AirChangeRate:  scale(mc.Params.AirChangeRate),
	}
}

// Run executes the trials serially. A trial whose state blows up counts as
// unstable and is left out of the score statistics.
func (mc *MonteCarlo) Run(ctx context.Context) (*Summary, error) {
	if !(mc.Spread >= 0 && mc.Spread < 1) {
		return nil, fmt.Errorf("%w, got %v", ErrSpread, mc.Spread)
	}
	if !experiment.IsMetric(mc.Metric) {
		return nil, fmt.Errorf("automation: unknown metric %q (available: %v)", mc.Metric, experiment.MetricNames())
	}
	if err := mc.Scenario.Validate(); err != nil {
		return nil, err
	}
	logger := mc.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("automation")

	rng := rand.New(rand.NewPCG(mc.Seed, mc.Seed^0x9e3779b97f4a7c15))
	summary := &Summary{Trials: make([]Trial, 0, mc.Trials)}
	var scores []float64

	for i := 0; i < mc.Trials; i++ {
		p := mc.perturb(rng)
		s, err := submarine.New(p, mc.Height)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		exp := experiment.New(mc.Scenario, s, mc.Gains, nil)
		for _, m := range experiment.DefaultMetrics(mc.SettleAfter) {
			exp.AddMetric(m)
		}

		res, err := exp.Run(ctx)
		trial := Trial{Params: p, Stable: true}
		switch {
		case errors.Is(err, sim.ErrInvalidState):
			trial.Stable = false
		case err != nil:
			return nil, fmt.Errorf("trial %d: %w", i, err)
		default:
			trial.Score = res.Metrics[mc.Metric]
			scores = append(scores, trial.Score)
			summary.Stable++
		}
		summary.Trials = append(summary.Trials, trial)
	}

	if len(scores) > 0 {
		summary.Mean = stat.Mean(scores, nil)
		summary.Worst = floats.Max(scores)
	}
	if len(scores) > 1 {
		summary.StdDev = stat.StdDev(scores, nil)
	}
	logger.Info("monte carlo finished",
		zap.Int("trials", mc.Trials),
		zap.Int("stable", summary.Stable),
		zap.String("metric", mc.Metric),
		zap.Float64("mean", summary.Mean),
		zap.Float64("worst", summary.Worst))
	return summary, nil
}
