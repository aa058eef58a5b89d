// Package optim tunes spring parameters by exhaustive search.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/springsim/internal/experiment"
)

// Candidate is one evaluated point of the grid.
type Candidate struct {
	Params map[string]float64
	Score  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// Search runs one experiment per grid point and returns every candidate,
// best (lowest score) first. Points whose experiment fails to build or run
// are skipped; cancellation stops the search.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	score func(metrics map[string]float64) float64,
) ([]Candidate, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("grid has %d names and %d ranges", len(g.paramNames), len(g.ranges))
	}

	var results []Candidate
	if err := g.searchRecursive(ctx, 0, map[string]float64{}, buildExperiment, score, &results); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score < results[j].Score })
	return results, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	score func(map[string]float64) float64,
	results *[]Candidate,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return nil
		}

		result, err := exp.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}

		val := score(result.Metrics)
		if math.IsNaN(val) {
			return nil
		}
		*results = append(*results, Candidate{Params: current, Score: val})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, score, results); err != nil {
			return err
		}
	}
	return nil
}

// SettleWithin scores a run by settling time, rejecting runs whose
// overshoot exceeds limit.
func SettleWithin(limit float64) func(map[string]float64) float64 {
	return func(m map[string]float64) float64 {
		if m["overshoot"] > limit {
			return math.Inf(1)
		}
		return m["settling_time"]
	}
}
