// Package engine implements the discrete-event simulation engine: the
// tick loop that admits arrivals, preempts, dispatches, executes, and
// accounts for one unit of simulated time per Tick call.
//
// The engine is strictly single-threaded and synchronous (spec §5):
// Tick is the only mutation entry point, nothing suspends or yields, and
// two successive Tick calls never interleave. Concurrency, if needed, is
// the caller's responsibility — run independent engines in parallel, the
// pattern internal/comparator uses.
package engine

import (
	"schedsim/internal/metrics"
	"schedsim/internal/policy"
	"schedsim/internal/process"
	"schedsim/internal/readyqueue"
)

// RunawayTickCap bounds RunToCompletion against processes that never
// terminate — should not occur if invariants hold, but guards runaway
// loops regardless (spec §4.3, §5).
const RunawayTickCap = 10000

// GanttSegment is one contiguous run of a single PID (or -1 for idle) on
// the CPU. Segments are contiguous, non-overlapping, and cover
// [0, currentTime) with adjacent same-PID segments coalesced.
type GanttSegment struct {
	PID       int `json:"pid"`
	StartTime int `json:"startTime"`
	EndTime   int `json:"endTime"`
	CoreID    int `json:"coreId"`
}

// KernelEvent is one entry in the kernel event log.
type KernelEvent struct {
	Tick  int    `json:"tick"`
	Event string `json:"event"`

	PID     int    `json:"pid,omitempty"`
	FromPID int    `json:"from,omitempty"`
	ToPID   int    `json:"to,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// kernelLogTail is how many trailing kernel log entries get_state()
// exposes; the full log remains internal for tests (spec §9).
const kernelLogTail = 50

// Engine is the tick-based CPU scheduler simulation engine.
type Engine struct {
	processes   []*process.Process
	readyQueue  *readyqueue.ReadyQueue
	policy      policy.Policy
	currentTime int
	runningPID  int
	timeQuantum int

	contextSwitches int
	gantt           []GanttSegment
	kernelLog       []KernelEvent
	metrics         *metrics.Collector
	isCompleted     bool

	lastRunningPID int // for context-switch detection across dispatches
}

// New returns an engine defaulted to FCFS with a time quantum of 2,
// matching the spec's default round-robin slice when none is configured.
func New() *Engine {
	return &Engine{
		readyQueue:     readyqueue.New(),
		policy:         &policy.FCFS{},
		runningPID:     -1,
		timeQuantum:    2,
		metrics:        metrics.New(),
		lastRunningPID: -1,
	}
}

// ── Configuration ──

// SetPolicy sets the scheduling policy by display name, falling back to
// FCFS for an unrecognized name (spec §7 — never panics).
func (e *Engine) SetPolicy(name string) {
	e.policy = policy.ByName(name)
}

// SetPolicyByID sets the scheduling policy by numeric ID, falling back
// to FCFS for an unrecognized ID.
func (e *Engine) SetPolicyByID(id int) {
	e.policy = policy.ByID(id)
}

// SetTimeQuantum sets the Round Robin time quantum, clamped to a minimum
// of 1 (spec §7).
func (e *Engine) SetTimeQuantum(q int) {
	if q < 1 {
		q = 1
	}
	e.timeQuantum = q
}

// ── Process management ──

// AddProcess appends a new process and returns its dense, 0-based PID.
// If the simulation had completed, adding a process reopens it: is
// completed clears and the new process is admitted on the next tick,
// even if its arrival time is already in the past (spec §7).
func (e *Engine) AddProcess(arrival, burst, priority int) int {
	pid := len(e.processes)
	e.processes = append(e.processes, process.NewProcess(pid, process.Spec{
		Arrival:  arrival,
		Burst:    burst,
		Priority: priority,
	}))
	if e.isCompleted {
		e.isCompleted = false
	}
	return pid
}

// Clear removes all processes and resets all simulation state, including
// policy state.
func (e *Engine) Clear() {
	e.processes = nil
	e.resetRuntimeState()
}

// Reset keeps the processes but clears all dynamic fields, the Gantt
// chart, the kernel log, the clock, and policy state.
func (e *Engine) Reset() {
	e.resetRuntimeState()
	for _, p := range e.processes {
		p.Reset()
	}
}

func (e *Engine) resetRuntimeState() {
	e.readyQueue.Clear()
	e.gantt = nil
	e.kernelLog = nil
	e.currentTime = 0
	e.runningPID = -1
	e.lastRunningPID = -1
	e.contextSwitches = 0
	e.isCompleted = false
	e.metrics.Reset()
	if r, ok := e.policy.(policy.Resettable); ok {
		r.Reset()
	}
}

// ── Kernel log ──

func (e *Engine) logEvent(ev KernelEvent) {
	ev.Tick = e.currentTime
	e.kernelLog = append(e.kernelLog, ev)
}

// ── Core tick loop ──

// Tick executes one clock tick in the normative order (spec §4.3):
// admit arrivals, check preemption, dispatch, execute, account waiting
// time, record a metrics snapshot, advance the clock, check completion.
//
// Returns true if the simulation should continue.
func (e *Engine) Tick() bool {
	if e.isCompleted {
		return false
	}
	if len(e.processes) == 0 {
		return false
	}

	e.admitArrivals()
	e.handlePreemption()
	if e.runningPID == -1 {
		e.dispatchNext()
	}
	e.executeTick()
	e.updateWaitingTimes()
	e.metrics.RecordTick(e.currentTime, e.runningPID, e.readyQueue.Len(), e.contextSwitches, e.processes)
	e.currentTime++
	e.checkCompletion()

	return !e.isCompleted
}

// RunToCompletion ticks until the simulation completes or the runaway
// cap is hit.
func (e *Engine) RunToCompletion() {
	ticks := 0
	for ticks < RunawayTickCap && e.Tick() {
		ticks++
	}
}

func (e *Engine) admitArrivals() {
	for _, p := range e.processes {
		if p.State == process.New && p.Arrival <= e.currentTime {
			p.State = process.Ready
			e.readyQueue.Enqueue(p.PID)
			e.logEvent(KernelEvent{Event: "arrive", PID: p.PID})
		}
	}
}

func (e *Engine) handlePreemption() {
	if e.runningPID == -1 {
		return
	}
	proc := e.processes[e.runningPID]

	if e.policy.UsesQuantum() {
		quantum := e.timeQuantum
		if qa, ok := e.policy.(policy.QuantumAware); ok {
			quantum = qa.QuantumForPID(e.runningPID)
		}
		if proc.QuantumUsed >= quantum {
			if qa, ok := e.policy.(policy.QuantumAware); ok {
				qa.OnQuantumExpire(e.runningPID)
				e.syncMLFQLevel(proc)
				e.logEvent(KernelEvent{Event: "demote", PID: e.runningPID})
			}
			proc.State = process.Ready
			proc.QuantumUsed = 0
			e.readyQueue.Enqueue(e.runningPID)
			e.logEvent(KernelEvent{Event: "preempt", PID: e.runningPID, Reason: "quantum"})
			e.lastRunningPID = e.runningPID
			e.runningPID = -1
			return
		}
	}

	if e.policy.IsPreemptive() {
		if e.policy.ShouldPreempt(e.runningPID, e.readyQueue, e.processes) {
			proc.State = process.Ready
			e.readyQueue.Enqueue(e.runningPID)
			e.logEvent(KernelEvent{Event: "preempt", PID: e.runningPID, Reason: "policy"})
			e.lastRunningPID = e.runningPID
			e.runningPID = -1
		}
	}
}

func (e *Engine) dispatchNext() {
	next := e.policy.SelectNext(e.readyQueue, e.processes)
	if next == -1 {
		return
	}

	if e.lastRunningPID != -1 && e.lastRunningPID != next {
		e.contextSwitches++
		e.logEvent(KernelEvent{Event: "context_switch", FromPID: e.lastRunningPID, ToPID: next})
	}

	e.readyQueue.Remove(next)
	e.runningPID = next

	proc := e.processes[next]
	proc.State = process.Running
	e.logEvent(KernelEvent{Event: "dispatch", PID: next})

	if proc.StartTime == -1 {
		proc.StartTime = e.currentTime
		proc.ResponseTime = e.currentTime - proc.Arrival
	}

	if e.policy.UsesQuantum() {
		proc.QuantumUsed = 0
	}
}

func (e *Engine) executeTick() {
	if e.runningPID != -1 {
		proc := e.processes[e.runningPID]
		proc.ExecuteTick()
		e.addGantt(e.runningPID, e.currentTime, e.currentTime+1)

		if proc.IsComplete() {
			proc.State = process.Terminated
			proc.FinishTime = e.currentTime + 1
			proc.TurnaroundTime = proc.FinishTime - proc.Arrival
			e.logEvent(KernelEvent{Event: "complete", PID: e.runningPID})
			e.lastRunningPID = e.runningPID
			e.runningPID = -1
		}
	} else {
		e.addGantt(-1, e.currentTime, e.currentTime+1)
		e.logEvent(KernelEvent{Event: "idle"})
	}
}

func (e *Engine) updateWaitingTimes() {
	for _, pid := range e.readyQueue.PIDs() {
		e.processes[pid].WaitTime++
	}
}

func (e *Engine) checkCompletion() {
	if len(e.processes) == 0 {
		return
	}
	for _, p := range e.processes {
		if p.State != process.Terminated {
			return
		}
	}
	e.isCompleted = true
	e.logEvent(KernelEvent{Event: "simulation_complete"})
}

func (e *Engine) addGantt(pid, start, end int) {
	if n := len(e.gantt); n > 0 {
		last := &e.gantt[n-1]
		if last.PID == pid && last.EndTime == start {
			last.EndTime = end
			return
		}
	}
	e.gantt = append(e.gantt, GanttSegment{PID: pid, StartTime: start, EndTime: end, CoreID: 0})
}

// syncMLFQLevel keeps Process.MLFQLevel (the field exposed on the
// snapshot) mirrored to the MLFQ policy's internal level map, which is
// the policy's own bookkeeping, not the engine's.
func (e *Engine) syncMLFQLevel(p *process.Process) {
	if leveler, ok := e.policy.(interface{ Level(int) int }); ok {
		p.MLFQLevel = leveler.Level(p.PID)
	}
}

// ── State serialization ──

// State is the full get_state() response.
type State struct {
	CurrentTime     int                  `json:"currentTime"`
	RunningPID      int                  `json:"runningPid"`
	IsCompleted     bool                 `json:"isCompleted"`
	Algorithm       string               `json:"algorithm"`
	TimeQuantum     int                  `json:"timeQuantum"`
	ContextSwitches int                  `json:"contextSwitches"`
	Processes       []process.Snapshot   `json:"processes"`
	Gantt           []GanttSegment       `json:"gantt"`
	ReadyQueue      []int                `json:"readyQueue"`
	MetricsHistory  []metrics.TickSnapshot `json:"metricsHistory"`
	KernelLog       []KernelEvent        `json:"kernelLog"`
	Metrics         metrics.Final        `json:"metrics"`
	MLFQState       interface{}          `json:"mlfqState,omitempty"`
}

// GetState returns the full simulation state for API responses.
func (e *Engine) GetState() State {
	snapshots := make([]process.Snapshot, len(e.processes))
	for i, p := range e.processes {
		snapshots[i] = p.Snapshot()
	}

	tail := e.kernelLog
	if len(tail) > kernelLogTail {
		tail = tail[len(tail)-kernelLogTail:]
	}

	m := metrics.Empty()
	if e.isCompleted {
		m = metrics.FinalMetrics(e.processes, e.contextSwitches)
	}

	state := State{
		CurrentTime:     e.currentTime,
		RunningPID:      e.runningPID,
		IsCompleted:     e.isCompleted,
		Algorithm:       e.policy.Name(),
		TimeQuantum:     e.timeQuantum,
		ContextSwitches: e.contextSwitches,
		Processes:       snapshots,
		Gantt:           append([]GanttSegment(nil), e.gantt...),
		ReadyQueue:      e.readyQueue.PIDs(),
		MetricsHistory:  e.metrics.Snapshots,
		KernelLog:       append([]KernelEvent(nil), tail...),
		Metrics:         m,
	}

	if reporter, ok := e.policy.(policy.QueueStateReporter); ok {
		state.MLFQState = reporter.QueueState(e.readyQueue)
	}

	return state
}

// GetFinalMetrics is a convenience accessor equivalent to GetState().Metrics
// when the simulation has completed (or the empty payload otherwise).
func (e *Engine) GetFinalMetrics() metrics.Final {
	if !e.isCompleted {
		return metrics.Empty()
	}
	return metrics.FinalMetrics(e.processes, e.contextSwitches)
}

// IsCompleted reports whether every process has terminated.
func (e *Engine) IsCompleted() bool {
	return e.isCompleted
}

// CurrentTime returns the engine's simulated clock.
func (e *Engine) CurrentTime() int {
	return e.currentTime
}

// ProcessCount returns the number of processes added to the engine.
func (e *Engine) ProcessCount() int {
	return len(e.processes)
}
