package optim

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/san-kum/subsim/internal/control"
	"github.com/san-kum/subsim/internal/experiment"
	"github.com/san-kum/subsim/internal/physics"
	"github.com/san-kum/subsim/internal/submarine"
)

var (
	ErrUnknownMetric = errors.New("optim: unknown metric")
	ErrEmptyGrid     = errors.New("optim: grid has no candidates")
)

// Grid lists the candidate values for each gain. The sweep runs the
// cartesian product.
type Grid struct {
	Kp []float64
	Ki []float64
	Kd []float64
}

func (g Grid) Size() int {
	return len(g.Kp) * len(g.Ki) * len(g.Kd)
}

// Candidates enumerates the grid with Kd varying fastest.
func (g Grid) Candidates() []control.Gains {
	ranges := [][]float64{g.Kp, g.Ki, g.Kd}
	out := make([]control.Gains, 0, g.Size())
	g.searchRecursive(ranges, 0, control.Gains{}, &out)
	return out
}

func (g Grid) searchRecursive(ranges [][]float64, depth int, current control.Gains, out *[]control.Gains) {
	if depth == len(control.GainFields) {
		*out = append(*out, current)
		return
	}
	field := control.GainFields[depth]
	for _, val := range ranges[depth] {
		g.searchRecursive(ranges, depth+1, current.With(field, val), out)
	}
}

type Candidate struct {
	Gains   control.Gains      `json:"gains"`
	Score   float64            `json:"score"`
	Metrics map[string]float64 `json:"metrics"`
}

// GridSearch scores every gain set in a Grid against one scenario.
type GridSearch struct {
	Scenario    experiment.Scenario
	Params      physics.Params
	Height      float64
	Metric      string
	SettleAfter float64
	Workers     int
	Logger      *zap.Logger
}

func NewGridSearch(sc experiment.Scenario, metric string) *GridSearch {
	return &GridSearch{
		Scenario:    sc,
		Params:      physics.DefaultParams(),
		Height:      submarine.DefaultHeight,
		Metric:      metric,
		SettleAfter: experiment.DefaultSettleAfter,
		Workers:     runtime.NumCPU(),
	}
}

// Search runs the grid on a bounded worker pool and returns every candidate
// ordered best first (lowest score).
func (gs *GridSearch) Search(ctx context.Context, grid Grid) ([]Candidate, error) {
	if !experiment.IsMetric(gs.Metric) {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownMetric, gs.Metric, experiment.MetricNames())
	}
	gains := grid.Candidates()
	if len(gains) == 0 {
		return nil, ErrEmptyGrid
	}
	if err := gs.Scenario.Validate(); err != nil {
		return nil, err
	}
	logger := gs.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("optim")

	workers := gs.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(gains) {
		workers = len(gains)
	}

	results := make([]Candidate, len(gains))
	errs := make([]error, len(gains))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx], errs[idx] = gs.evaluate(ctx, gains[idx])
			}
		}()
	}

feed:
	for i := range gains {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := multierr.Combine(errs...); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score < results[j].Score })
	logger.Info("sweep finished",
		zap.Int("candidates", len(results)),
		zap.String("metric", gs.Metric),
		zap.Stringer("best", results[0].Gains),
		zap.Float64("score", results[0].Score))
	return results, nil
}

func (gs *GridSearch) evaluate(ctx context.Context, g control.Gains) (Candidate, error) {
	s, err := submarine.New(gs.Params, gs.Height)
	if err != nil {
		return Candidate{}, err
	}
	exp := experiment.New(gs.Scenario, s, g, nil)
	for _, m := range experiment.DefaultMetrics(gs.SettleAfter) {
		exp.AddMetric(m)
	}
	res, err := exp.Run(ctx)
	if err != nil {
		return Candidate{}, fmt.Errorf("gains %v: %w", g, err)
	}
	return Candidate{Gains: g, Score: res.Metrics[gs.Metric], Metrics: res.Metrics}, nil
}
