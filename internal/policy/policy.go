// Package policy implements the Strategy contract every scheduling
// algorithm plugs into the simulation engine through, plus the seven
// non-feedback-queue policies. The MLFQ policy lives in the mlfq
// subpackage, since it carries its own state machine.
//
// Policies never hold a back-reference to the engine: they receive the
// ready queue and process table as arguments on every call and must not
// mutate either.
package policy

import (
	"schedsim/internal/policy/mlfq"
	"schedsim/internal/process"
	"schedsim/internal/readyqueue"
)

// Policy is the interface every scheduling algorithm implements so the
// engine can treat them uniformly.
type Policy interface {
	// Name is the human-readable algorithm name, e.g. "FCFS".
	Name() string
	// IsPreemptive reports whether this algorithm can preempt a running
	// process via ShouldPreempt.
	IsPreemptive() bool
	// UsesQuantum reports whether this algorithm is subject to
	// quantum-expiry preemption (Round Robin, MLFQ).
	UsesQuantum() bool
	// SelectNext chooses the next process to run from the ready queue,
	// or -1 if none are eligible. Must not mutate either argument.
	SelectNext(rq *readyqueue.ReadyQueue, processes []*process.Process) int
	// ShouldPreempt reports whether the running process should yield the
	// CPU this tick. Only consulted for preemptive policies.
	ShouldPreempt(runningPID int, rq *readyqueue.ReadyQueue, processes []*process.Process) bool
}

// QuantumAware is implemented by policies whose quantum varies per
// process (MLFQ). Policies without it use the engine's flat time quantum.
type QuantumAware interface {
	QuantumForPID(pid int) int
	OnQuantumExpire(pid int)
}

// QueueStateReporter is implemented by policies that expose an internal
// multi-queue view for the state snapshot (MLFQ's mlfqState).
type QueueStateReporter interface {
	QueueState(rq *readyqueue.ReadyQueue) interface{}
}

// Resettable is implemented by policies that carry state across ticks
// which must be cleared on engine Reset/Clear (MLFQ's level map).
type Resettable interface {
	Reset()
}

// Factory constructs a fresh policy instance. Policies carry per-run
// state (MLFQ's level map), so the registry holds constructors, not
// shared instances.
type Factory func() Policy

// IDs, matching the wire-stable algorithm selector in spec §6.
const (
	IDFCFS = iota
	IDSJF
	IDSRTF
	IDPriority
	IDRoundRobin
	IDLJF
	IDLRTF
	IDMLFQ
)

var byID = map[int]Factory{
	IDFCFS:       func() Policy { return &FCFS{} },
	IDSJF:        func() Policy { return &SJF{} },
	IDSRTF:       func() Policy { return &SRTF{} },
	IDPriority:   func() Policy { return &Priority{} },
	IDRoundRobin: func() Policy { return &RoundRobin{} },
	IDLJF:        func() Policy { return &LJF{} },
	IDLRTF:       func() Policy { return &LRTF{} },
	IDMLFQ:       func() Policy { return mlfq.New() },
}

var byName = map[string]Factory{
	"FCFS":        func() Policy { return &FCFS{} },
	"SJF":         func() Policy { return &SJF{} },
	"SRTF":        func() Policy { return &SRTF{} },
	"Priority":    func() Policy { return &Priority{} },
	"RR":          func() Policy { return &RoundRobin{} },
	"Round Robin": func() Policy { return &RoundRobin{} },
	"LJF":         func() Policy { return &LJF{} },
	"LRTF":        func() Policy { return &LRTF{} },
	"MLFQ":        func() Policy { return mlfq.New() },
}

// ByID returns a fresh policy for the given numeric ID, falling back to
// FCFS for an unknown ID (spec §7: invalid policy never panics).
func ByID(id int) Policy {
	if f, ok := byID[id]; ok {
		return f()
	}
	return &FCFS{}
}

// ByName returns a fresh policy for the given display name, falling back
// to FCFS for an unknown name (spec §7).
func ByName(name string) Policy {
	if f, ok := byName[name]; ok {
		return f()
	}
	return &FCFS{}
}

// minBy returns the PID in pids minimizing key, breaking ties by the
// smaller PID (spec §4.1: "smaller PID wins").
func minBy(pids []int, key func(pid int) int) int {
	best := -1
	bestKey := 0
	for _, pid := range pids {
		k := key(pid)
		if best == -1 || k < bestKey || (k == bestKey && pid < best) {
			best = pid
			bestKey = k
		}
	}
	return best
}

// maxBy returns the PID in pids maximizing key, breaking ties by the
// smaller PID.
func maxBy(pids []int, key func(pid int) int) int {
	best := -1
	bestKey := 0
	for _, pid := range pids {
		k := key(pid)
		if best == -1 || k > bestKey || (k == bestKey && pid < best) {
			best = pid
			bestKey = k
		}
	}
	return best
}
