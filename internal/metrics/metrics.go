// Package metrics implements the per-tick metrics collector: incremental
// snapshots recorded at the end of every tick, plus the final summary
// computed once the simulation completes.
//
// RecordTick takes primitive values rather than an *engine.Engine so this
// package stays below engine in the dependency graph — the engine owns
// the collector, not the other way around.
package metrics

import (
	"schedsim/internal/process"
)

// TickSnapshot is one per-tick metrics record.
type TickSnapshot struct {
	Tick              int     `json:"tick"`
	RunningPID        int     `json:"runningPid"`
	ReadyQueueLength  int     `json:"readyQueueLength"`
	CPUUtilization    float64 `json:"cpuUtilization"`
	Throughput        float64 `json:"throughput"`
	ContextSwitches   int     `json:"contextSwitches"`
	AvgWaitTime       float64 `json:"avgWaitTime"`
	AvgTurnaroundTime float64 `json:"avgTurnaroundTime"`
	AvgResponseTime   float64 `json:"avgResponseTime"`
}

// Final is the post-completion summary metrics.
type Final struct {
	AvgWaitTime        float64 `json:"avgWaitTime"`
	AvgTurnaroundTime  float64 `json:"avgTurnaroundTime"`
	AvgResponseTime    float64 `json:"avgResponseTime"`
	CPUUtilization     float64 `json:"cpuUtilization"`
	Throughput         float64 `json:"throughput"`
	ContextSwitches    int     `json:"contextSwitches"`
	TotalIdleTime      int     `json:"totalIdleTime"`
	TotalExecutionTime int     `json:"totalExecutionTime"`
}

// Collector accumulates per-tick snapshots and busy-tick/completion
// counters incrementally, as the teacher's MetricsCollector analogue
// does for training-progress state.
type Collector struct {
	Snapshots  []TickSnapshot
	busyTicks  int
	completed  int
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{}
}

// Reset clears all recorded data.
func (c *Collector) Reset() {
	c.Snapshots = nil
	c.busyTicks = 0
	c.completed = 0
}

// RecordTick appends one snapshot for the tick that just executed.
//
// currentTime is the engine's clock *before* advancing (0-indexed), so
// totalTicks = currentTime + 1. runningPID is -1 when idle this tick.
func (c *Collector) RecordTick(currentTime, runningPID, readyQueueLength, contextSwitches int, processes []*process.Process) {
	if runningPID != -1 {
		c.busyTicks++
	}

	totalTicks := currentTime + 1

	completed := 0
	for _, p := range processes {
		if p.State == process.Terminated {
			completed++
		}
	}
	c.completed = completed

	n := len(processes)
	if n == 0 {
		n = 1
	}

	var waitSum, tatSum, respSum float64
	var tatN, respN int
	for _, p := range processes {
		waitSum += float64(p.WaitTime)
		if p.State == process.Terminated {
			tatSum += float64(p.TurnaroundTime)
			tatN++
		}
		if p.StartTime != -1 {
			respSum += float64(p.ResponseTime)
			respN++
		}
	}

	snap := TickSnapshot{
		Tick:             currentTime,
		RunningPID:       runningPID,
		ReadyQueueLength: readyQueueLength,
		CPUUtilization:   round2(float64(c.busyTicks) / float64(maxInt(totalTicks, 1)) * 100),
		Throughput:       round4(float64(c.completed) / float64(maxInt(totalTicks, 1))),
		ContextSwitches:  contextSwitches,
		AvgWaitTime:      round2(waitSum / float64(n)),
	}
	if tatN > 0 {
		snap.AvgTurnaroundTime = round2(tatSum / float64(tatN))
	}
	if respN > 0 {
		snap.AvgResponseTime = round2(respSum / float64(respN))
	}

	c.Snapshots = append(c.Snapshots, snap)
}

// FinalMetrics computes the post-completion summary from the process
// table and the engine's context-switch counter.
func FinalMetrics(processes []*process.Process, contextSwitches int) Final {
	if len(processes) == 0 {
		return Empty()
	}

	n := len(processes)
	var totalBurst int
	var waitSum, tatSum, respSum float64
	var tatN, respN int
	maxFinish := 0
	minArrival := processes[0].Arrival
	anyCompleted := false

	for _, p := range processes {
		totalBurst += p.Burst
		waitSum += float64(p.WaitTime)
		if p.Arrival < minArrival {
			minArrival = p.Arrival
		}
		if p.State == process.Terminated {
			anyCompleted = true
			tatSum += float64(p.TurnaroundTime)
			tatN++
			if p.FinishTime > maxFinish {
				maxFinish = p.FinishTime
			}
		}
		if p.StartTime != -1 {
			respSum += float64(p.ResponseTime)
			respN++
		}
	}

	totalTime := 1
	if anyCompleted && maxFinish > minArrival {
		totalTime = maxFinish - minArrival
	}

	f := Final{
		AvgWaitTime:        round2(waitSum / float64(n)),
		CPUUtilization:     round2(float64(totalBurst) / float64(totalTime) * 100),
		Throughput:         round4(float64(tatN) / float64(totalTime)),
		ContextSwitches:    contextSwitches,
		TotalIdleTime:      totalTime - totalBurst,
		TotalExecutionTime: totalTime,
	}
	if tatN > 0 {
		f.AvgTurnaroundTime = round2(tatSum / float64(tatN))
	}
	if respN > 0 {
		f.AvgResponseTime = round2(respSum / float64(respN))
	}
	return f
}

// Empty is the metrics payload reported before a simulation completes.
func Empty() Final {
	return Final{}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func round2(v float64) float64 {
	return roundTo(v, 100)
}

func round4(v float64) float64 {
	return roundTo(v, 10000)
}

func roundTo(v, factor float64) float64 {
	if v == 0 {
		return 0
	}
	scaled := v * factor
	if scaled >= 0 {
		scaled += 0.5
	} else {
		scaled -= 0.5
	}
	return float64(int64(scaled)) / factor
}
