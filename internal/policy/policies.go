package policy

import (
	"schedsim/internal/process"
	"schedsim/internal/readyqueue"
)

// FCFS — First Come First Served: dispatch the front of the ready queue.
type FCFS struct{}

func (p *FCFS) Name() string      { return "FCFS" }
func (p *FCFS) IsPreemptive() bool { return false }
func (p *FCFS) UsesQuantum() bool  { return false }

func (p *FCFS) SelectNext(rq *readyqueue.ReadyQueue, _ []*process.Process) int {
	return rq.Peek()
}

func (p *FCFS) ShouldPreempt(int, *readyqueue.ReadyQueue, []*process.Process) bool {
	return false
}

// SJF — Shortest Job First (non-preemptive): dispatch the smallest burst.
type SJF struct{}

func (p *SJF) Name() string      { return "SJF" }
func (p *SJF) IsPreemptive() bool { return false }
func (p *SJF) UsesQuantum() bool  { return false }

func (p *SJF) SelectNext(rq *readyqueue.ReadyQueue, processes []*process.Process) int {
	if rq.Len() == 0 {
		return -1
	}
	return minBy(rq.PIDs(), func(pid int) int { return processes[pid].Burst })
}

func (p *SJF) ShouldPreempt(int, *readyqueue.ReadyQueue, []*process.Process) bool {
	return false
}

// SRTF — Shortest Remaining Time First (preemptive SJF).
type SRTF struct{}

func (p *SRTF) Name() string      { return "SRTF" }
func (p *SRTF) IsPreemptive() bool { return true }
func (p *SRTF) UsesQuantum() bool  { return false }

func (p *SRTF) SelectNext(rq *readyqueue.ReadyQueue, processes []*process.Process) int {
	if rq.Len() == 0 {
		return -1
	}
	return minBy(rq.PIDs(), func(pid int) int { return processes[pid].RemainingTime })
}

func (p *SRTF) ShouldPreempt(runningPID int, rq *readyqueue.ReadyQueue, processes []*process.Process) bool {
	if rq.Len() == 0 {
		return false
	}
	shortest := minBy(rq.PIDs(), func(pid int) int { return processes[pid].RemainingTime })
	return processes[shortest].RemainingTime < processes[runningPID].RemainingTime
}

// Priority — non-preemptive priority scheduling; lower value = higher priority.
type Priority struct{}

func (p *Priority) Name() string      { return "Priority" }
func (p *Priority) IsPreemptive() bool { return false }
func (p *Priority) UsesQuantum() bool  { return false }

func (p *Priority) SelectNext(rq *readyqueue.ReadyQueue, processes []*process.Process) int {
	if rq.Len() == 0 {
		return -1
	}
	return minBy(rq.PIDs(), func(pid int) int { return processes[pid].Priority })
}

func (p *Priority) ShouldPreempt(int, *readyqueue.ReadyQueue, []*process.Process) bool {
	return false
}

// RoundRobin — quantum-preemptive FIFO.
type RoundRobin struct{}

func (p *RoundRobin) Name() string      { return "Round Robin" }
func (p *RoundRobin) IsPreemptive() bool { return true }
func (p *RoundRobin) UsesQuantum() bool  { return true }

func (p *RoundRobin) SelectNext(rq *readyqueue.ReadyQueue, _ []*process.Process) int {
	return rq.Peek()
}

// ShouldPreempt always returns false for Round Robin: preemption is
// entirely quantum-driven (engine step 2a). The engine still consults it
// in step 2b because Round Robin reports IsPreemptive, but it never fires.
func (p *RoundRobin) ShouldPreempt(int, *readyqueue.ReadyQueue, []*process.Process) bool {
	return false
}

// LJF — Longest Job First (non-preemptive): dispatch the largest burst.
type LJF struct{}

func (p *LJF) Name() string      { return "LJF" }
func (p *LJF) IsPreemptive() bool { return false }
func (p *LJF) UsesQuantum() bool  { return false }

func (p *LJF) SelectNext(rq *readyqueue.ReadyQueue, processes []*process.Process) int {
	if rq.Len() == 0 {
		return -1
	}
	return maxBy(rq.PIDs(), func(pid int) int { return processes[pid].Burst })
}

func (p *LJF) ShouldPreempt(int, *readyqueue.ReadyQueue, []*process.Process) bool {
	return false
}

// LRTF — Longest Remaining Time First (preemptive LJF).
type LRTF struct{}

func (p *LRTF) Name() string      { return "LRTF" }
func (p *LRTF) IsPreemptive() bool { return true }
func (p *LRTF) UsesQuantum() bool  { return false }

func (p *LRTF) SelectNext(rq *readyqueue.ReadyQueue, processes []*process.Process) int {
	if rq.Len() == 0 {
		return -1
	}
	return maxBy(rq.PIDs(), func(pid int) int { return processes[pid].RemainingTime })
}

func (p *LRTF) ShouldPreempt(runningPID int, rq *readyqueue.ReadyQueue, processes []*process.Process) bool {
	if rq.Len() == 0 {
		return false
	}
	longest := maxBy(rq.PIDs(), func(pid int) int { return processes[pid].RemainingTime })
	return processes[longest].RemainingTime > processes[runningPID].RemainingTime
}
