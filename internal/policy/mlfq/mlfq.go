// Package mlfq implements the Multi-Level Feedback Queue scheduling
// policy: three levels (0 highest … 2 lowest), quanta {4, 8, ∞}, demotion
// on quantum expiry, and cross-level preemption. It is kept as its own
// package because it carries a level map across ticks — state the other,
// stateless policies don't need.
package mlfq

import (
	"schedsim/internal/process"
	"schedsim/internal/readyqueue"
)

// Quanta per level; level 2 runs to completion unless cross-level
// preemption intervenes, modelled as a very large quantum.
var Quanta = [3]int{4, 8, 1 << 30}

// MLFQ is the 3-level feedback queue policy.
type MLFQ struct {
	level map[int]int // pid -> queue level, initialised to 0 on first sight
}

// New returns a fresh MLFQ policy with an empty level map.
func New() *MLFQ {
	return &MLFQ{level: make(map[int]int)}
}

func (m *MLFQ) Name() string       { return "MLFQ" }
func (m *MLFQ) IsPreemptive() bool { return true }
func (m *MLFQ) UsesQuantum() bool  { return true }

func (m *MLFQ) levelOf(pid int) int {
	if lvl, ok := m.level[pid]; ok {
		return lvl
	}
	m.level[pid] = 0
	return 0
}

// SelectNext returns the PID at the smallest level, ties broken by the
// smaller PID.
func (m *MLFQ) SelectNext(rq *readyqueue.ReadyQueue, _ []*process.Process) int {
	pids := rq.PIDs()
	if len(pids) == 0 {
		return -1
	}
	best, bestLevel := -1, 1<<30
	for _, pid := range pids {
		lvl := m.levelOf(pid)
		if lvl < bestLevel || (lvl == bestLevel && pid < best) {
			best, bestLevel = pid, lvl
		}
	}
	return best
}

// ShouldPreempt reports whether any ready PID sits at a strictly smaller
// level than the running PID.
func (m *MLFQ) ShouldPreempt(runningPID int, rq *readyqueue.ReadyQueue, _ []*process.Process) bool {
	runningLevel := m.levelOf(runningPID)
	for _, pid := range rq.PIDs() {
		if m.levelOf(pid) < runningLevel {
			return true
		}
	}
	return false
}

// QuantumForPID returns the quantum of the level this PID currently
// occupies.
func (m *MLFQ) QuantumForPID(pid int) int {
	return Quanta[m.levelOf(pid)]
}

// OnQuantumExpire demotes a process to the next lower level (floor at 2).
// Demotion does not change queue membership: the engine re-enqueues.
func (m *MLFQ) OnQuantumExpire(pid int) {
	lvl := m.levelOf(pid)
	if lvl < 2 {
		lvl++
	}
	m.level[pid] = lvl
}

// Level reports the queue level the policy currently assigns to pid,
// recording level 0 for a PID it has not seen before (used by the engine
// to set Process.MLFQLevel on the snapshot).
func (m *MLFQ) Level(pid int) int {
	return m.levelOf(pid)
}

// QueueLevelSnapshot describes one level of the feedback queue for the
// external state snapshot.
type QueueLevelSnapshot struct {
	Level   int   `json:"level"`
	Quantum int   `json:"quantum"`
	PIDs    []int `json:"pids"`
}

// QueueStateSnapshot is the mlfqState payload: {queues:[{level,quantum,pids}]}.
type QueueStateSnapshot struct {
	Queues []QueueLevelSnapshot `json:"queues"`
}

// QueueState returns the current per-level contents of the ready queue,
// for visualization. Level 2's quantum is reported as -1 (unbounded),
// since the spec models it as "effectively infinite" rather than a
// meaningful numeric quantum for display.
func (m *MLFQ) QueueState(rq *readyqueue.ReadyQueue) interface{} {
	buckets := [3][]int{{}, {}, {}}
	for _, pid := range rq.PIDs() {
		lvl := m.levelOf(pid)
		buckets[lvl] = append(buckets[lvl], pid)
	}
	return QueueStateSnapshot{
		Queues: []QueueLevelSnapshot{
			{Level: 0, Quantum: Quanta[0], PIDs: buckets[0]},
			{Level: 1, Quantum: Quanta[1], PIDs: buckets[1]},
			{Level: 2, Quantum: -1, PIDs: buckets[2]},
		},
	}
}

// Reset clears the level map, used by engine.Reset/Clear.
func (m *MLFQ) Reset() {
	m.level = make(map[int]int)
}
