// Package comparator runs the same workload under every scheduling
// policy and collects final metrics — the only client the external ML
// recommender depends on (spec §4.5).
//
// Each policy gets its own Engine; per spec §5 ("if the surrounding
// service needs parallelism, it must instantiate independent engines per
// session"), the eight runs execute concurrently. Fan-out uses
// golang.org/x/sync/errgroup (one goroutine per policy, first error
// propagated);
// fan-in uses channerics.Merge, the same primitive the teacher uses to
// merge per-agent episode channels into a single estimator feed.
package comparator

import (
	"context"
	"errors"

	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"schedsim/internal/engine"
	"schedsim/internal/metrics"
	"schedsim/internal/process"
)

// ErrEmptyWorkload is returned when Compare/CompareDetailed is invoked
// with no processes (spec §7: bubbled up by the façade as 4xx, never
// thrown into the engine).
var ErrEmptyWorkload = errors.New("comparator: empty workload")

// Algorithms is the fixed set of policies every comparison runs, in
// display order.
var Algorithms = []string{"FCFS", "SJF", "SRTF", "Priority", "RR", "LJF", "LRTF", "MLFQ"}

// Detailed is CompareDetailed's per-policy result: final metrics plus
// per-process records and the Gantt chart.
type Detailed struct {
	Metrics   metrics.Final      `json:"metrics"`
	Processes []process.Snapshot `json:"processes"`
	Gantt     []engine.GanttSegment `json:"gantt"`
}

type namedResult struct {
	name     string
	metrics  metrics.Final
	detailed Detailed
}

// Compare runs processConfigs under every algorithm and returns a map of
// algorithm name to final metrics.
func Compare(ctx context.Context, processConfigs []process.Spec, timeQuantum int) (map[string]metrics.Final, error) {
	results, err := run(ctx, processConfigs, timeQuantum, false)
	if err != nil {
		return nil, err
	}
	out := make(map[string]metrics.Final, len(results))
	for name, r := range results {
		out[name] = r.metrics
	}
	return out, nil
}

// CompareDetailed is Compare plus per-policy processes and Gantt chart.
func CompareDetailed(ctx context.Context, processConfigs []process.Spec, timeQuantum int) (map[string]Detailed, error) {
	results, err := run(ctx, processConfigs, timeQuantum, true)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Detailed, len(results))
	for name, r := range results {
		out[name] = r.detailed
	}
	return out, nil
}

func run(ctx context.Context, processConfigs []process.Spec, timeQuantum int, detailed bool) (map[string]namedResult, error) {
	if len(processConfigs) == 0 {
		return nil, ErrEmptyWorkload
	}

	g, gctx := errgroup.WithContext(ctx)
	workers := make([]<-chan namedResult, len(Algorithms))

	for i, name := range Algorithms {
		name := name
		ch := make(chan namedResult, 1)
		workers[i] = ch

		g.Go(func() error {
			defer close(ch)

			eng := engine.New()
			eng.SetPolicy(name)
			eng.SetTimeQuantum(timeQuantum)
			for _, spec := range processConfigs {
				eng.AddProcess(spec.Arrival, spec.Burst, spec.Priority)
			}
			runToCompletion(gctx, eng)

			res := namedResult{name: name, metrics: eng.GetFinalMetrics()}
			if detailed {
				state := eng.GetState()
				res.detailed = Detailed{
					Metrics:   res.metrics,
					Processes: state.Processes,
					Gantt:     state.Gantt,
				}
			}

			select {
			case ch <- res:
			case <-gctx.Done():
			}
			return gctx.Err()
		})
	}

	merged := channerics.Merge(gctx.Done(), workers...)
	results := make(map[string]namedResult, len(Algorithms))
	for r := range merged {
		results[r.name] = r
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runToCompletion drives an engine to completion, honoring external
// cancellation. The engine itself has no cancellation concept (spec
// §5) — this loop is the caller-side wrapper the spec describes.
func runToCompletion(ctx context.Context, eng *engine.Engine) {
	ticks := 0
	for ticks < engine.RunawayTickCap {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !eng.Tick() {
			return
		}
		ticks++
	}
}
