// Package rank runs weighted PageRank over a graph.Graph.
package rank

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agenthands/textrank/internal/core/graph"
	"github.com/agenthands/textrank/internal/core/model"
)

// StopReason says why the iteration loop ended.
type StopReason string

const (
	StopConverged    StopReason = "converged"
	StopIterationCap StopReason = "iteration_cap"
	StopCancelled    StopReason = "cancelled"
)

// minParallelNodes is the smallest graph worth splitting across workers.
const minParallelNodes = 256

// Options configures the solver.
type Options struct {
	Damping       float64
	Epsilon       float64
	MaxIterations int
	Policy        model.IsolatedNodePolicy
	Workers       int
	Timeout       time.Duration
}

// DefaultOptions returns d=0.85, eps=1e-4, 100 iterations.
func DefaultOptions() Options {
	return Options{
		Damping:       0.85,
		Epsilon:       1e-4,
		MaxIterations: 100,
		Policy:        model.NoRedistribution,
		Workers:       1,
	}
}

// FromModel maps engine options onto solver options.
func FromModel(o model.Options) Options {
	return Options{
		Damping:       o.DampingFactor,
		Epsilon:       o.ConvergenceThreshold,
		MaxIterations: o.MaxIterations,
		Policy:        o.IsolatedNodePolicy,
		Workers:       o.Workers,
		Timeout:       o.Timeout,
	}
}

func (o Options) validate() error {
	if math.IsNaN(o.Damping) || o.Damping < 0 || o.Damping >= 1 {
		return &model.InvalidConfigurationError{Field: "damping_factor", Reason: fmt.Sprintf("must be in [0,1), got %v", o.Damping)}
	}
	if math.IsNaN(o.Epsilon) || o.Epsilon <= 0 {
		return &model.InvalidConfigurationError{Field: "convergence_threshold", Reason: fmt.Sprintf("must be > 0, got %v", o.Epsilon)}
	}
	if o.MaxIterations <= 0 {
		return &model.InvalidConfigurationError{Field: "max_iterations", Reason: fmt.Sprintf("must be > 0, got %d", o.MaxIterations)}
	}
	switch o.Policy {
	case model.NoRedistribution, model.UniformRedistribution, "":
	default:
		return &model.InvalidConfigurationError{Field: "isolated_node_policy", Reason: fmt.Sprintf("unknown policy %q", o.Policy)}
	}
	return nil
}

// Result is the final score vector, aligned with graph node order.
type Result struct {
	Scores     []float64
	Iterations int
	MaxDelta   float64
	Converged  bool
	Stop       StopReason
}

// DidNotConvergeWarning reports a best-effort result. It is not fatal.
type DidNotConvergeWarning struct {
	Iterations int
	MaxDelta   float64
	Stop       StopReason
}

func (w *DidNotConvergeWarning) Error() string {
	return fmt.Sprintf("did not converge: stopped by %s after %d iterations (max delta %g)", w.Stop, w.Iterations, w.MaxDelta)
}

// Warning returns a *DidNotConvergeWarning when the run stopped early.
func (r *Result) Warning() error {
	if r.Converged {
		return nil
	}
	return &DidNotConvergeWarning{Iterations: r.Iterations, MaxDelta: r.MaxDelta, Stop: r.Stop}
}

type inbound struct {
	from  int
	share float64 // weight(from->i) / outWeight(from)
}

// Solve runs the damped update
//
//	s'(i) = (1-d) + d * sum_j w(j->i) * s(j) / out(j)
//
// from s = 1 for every node until the largest per-node change drops below
// Epsilon, the iteration cap is hit, or ctx is done. Each iteration reads a
// frozen snapshot and writes a second buffer.
func Solve(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	n := g.Len()
	res := &Result{Scores: []float64{}, Converged: true, Stop: StopConverged}
	if n == 0 {
		return res, nil
	}

	in := make([][]inbound, n)
	var isolated []int
	for j := range n {
		out := g.OutWeight(j)
		if out == 0 {
			isolated = append(isolated, j)
			continue
		}
		for _, e := range g.Out(j) {
			in[e.To] = append(in[e.To], inbound{from: j, share: e.Weight / out})
		}
	}
	redistribute := opts.Policy == model.UniformRedistribution && len(isolated) > 0

	prev := make([]float64, n)
	next := make([]float64, n)
	for i := range prev {
		prev[i] = 1.0
	}

	d := opts.Damping
	base := 1 - d
	chunks := chunkRanges(n, opts.Workers)

	res.Converged = false
	res.Stop = StopIterationCap
	for iter := 1; iter <= opts.MaxIterations; iter++ {
		if ctx.Err() != nil {
			res.Stop = StopCancelled
			break
		}

		teleport := base
		if redistribute {
			mass := 0.0
			for _, j := range isolated {
				mass += prev[j]
			}
			teleport += d * mass / float64(n)
		}

		update := func(lo, hi int) float64 {
			maxDelta := 0.0
			for i := lo; i < hi; i++ {
				sum := 0.0
				for _, e := range in[i] {
					sum += e.share * prev[e.from]
				}
				next[i] = teleport + d*sum
				if delta := math.Abs(next[i] - prev[i]); delta > maxDelta {
					maxDelta = delta
				}
			}
			return maxDelta
		}

		var maxDelta float64
		if len(chunks) == 1 {
			maxDelta = update(0, n)
		} else {
			deltas := make([]float64, len(chunks))
			var eg errgroup.Group
			for c, r := range chunks {
				eg.Go(func() error {
					deltas[c] = update(r[0], r[1])
					return nil
				})
			}
			_ = eg.Wait()
			for _, dl := range deltas {
				maxDelta = max(maxDelta, dl)
			}
		}

		prev, next = next, prev
		res.Iterations = iter
		res.MaxDelta = maxDelta
		if maxDelta < opts.Epsilon {
			res.Converged = true
			res.Stop = StopConverged
			break
		}
	}

	res.Scores = prev
	return res, nil
}

func chunkRanges(n, workers int) [][2]int {
	if workers <= 1 || n < minParallelNodes {
		return [][2]int{{0, n}}
	}
	workers = min(workers, n)
	size := (n + workers - 1) / workers
	out := make([][2]int, 0, workers)
	for lo := 0; lo < n; lo += size {
		out = append(out, [2]int{lo, min(lo+size, n)})
	}
	return out
}
