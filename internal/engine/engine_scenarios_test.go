package engine

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"schedsim/internal/policy"
	"schedsim/internal/process"
)

// TestSJFWorkedExample covers the spec's second worked example: bursts
// 7,4,1,4 arriving at 0,2,4,5. The dispatch order (P0, P2, P1, P3) and
// finish times (7,12,8,16) are the textbook GeeksforGeeks SJF solution;
// wait/turnaround are derived from those finish times rather than typed
// in from the prose, since start_time-arrival_time is what wait_time
// actually accumulates to for a non-preemptive policy.
func TestSJFWorkedExample(t *testing.T) {
	Convey("Given the SJF worked example (arrivals 0,2,4,5; bursts 7,4,1,4)", t, func() {
		e := New()
		e.SetPolicy("SJF")
		e.AddProcess(0, 7, 0)
		e.AddProcess(2, 4, 0)
		e.AddProcess(4, 1, 0)
		e.AddProcess(5, 4, 0)

		e.RunToCompletion()
		st := e.GetState()

		Convey("finish times match the textbook solution", func() {
			So(st.Processes[0].FinishTime, ShouldEqual, 7)
			So(st.Processes[1].FinishTime, ShouldEqual, 12)
			So(st.Processes[2].FinishTime, ShouldEqual, 8)
			So(st.Processes[3].FinishTime, ShouldEqual, 16)
		})

		Convey("dispatch order is P0, P2, P1, P3", func() {
			nonIdle := make([]int, 0, 4)
			for _, seg := range st.Gantt {
				if seg.PID != -1 {
					nonIdle = append(nonIdle, seg.PID)
				}
			}
			So(nonIdle, ShouldResemble, []int{0, 2, 1, 3})
		})

		Convey("wait + burst equals turnaround for every process", func() {
			for i, p := range st.Processes {
				So(p.WaitTime+e.processes[i].Burst, ShouldEqual, p.TurnaroundTime)
			}
		})
	})
}

// TestSRTFWorkedExample is the spec's third worked example, run under
// the preemptive SRTF variant of the same workload as TestSJFWorkedExample.
func TestSRTFWorkedExample(t *testing.T) {
	Convey("Given the SRTF worked example (arrivals 0,2,4,5; bursts 7,4,1,4)", t, func() {
		e := New()
		e.SetPolicy("SRTF")
		e.AddProcess(0, 7, 0)
		e.AddProcess(2, 4, 0)
		e.AddProcess(4, 1, 0)
		e.AddProcess(5, 4, 0)

		e.RunToCompletion()
		st := e.GetState()

		Convey("completion order is P2(5), P1(7), P3(11), P0(16)", func() {
			So(st.Processes[2].FinishTime, ShouldEqual, 5)
			So(st.Processes[1].FinishTime, ShouldEqual, 7)
			So(st.Processes[3].FinishTime, ShouldEqual, 11)
			So(st.Processes[0].FinishTime, ShouldEqual, 16)
		})

		Convey("average wait is 3.0 and average turnaround is 7.0", func() {
			m := e.GetFinalMetrics()
			So(m.AvgWaitTime, ShouldAlmostEqual, 3.0, 0.01)
			So(m.AvgTurnaroundTime, ShouldAlmostEqual, 7.0, 0.01)
		})
	})
}

// TestRoundRobinWorkedExample is the spec's fourth worked example:
// quantum 2 over five processes, checked against the Gantt chart prefix
// the spec calls out plus the total makespan.
func TestRoundRobinWorkedExample(t *testing.T) {
	Convey("Given the Round Robin worked example, quantum=2", t, func() {
		e := New()
		e.SetPolicy("RR")
		e.SetTimeQuantum(2)
		e.AddProcess(0, 5, 0)
		e.AddProcess(1, 3, 0)
		e.AddProcess(2, 8, 0)
		e.AddProcess(3, 2, 0)
		e.AddProcess(5, 4, 0)

		e.RunToCompletion()
		st := e.GetState()

		Convey("the Gantt chart begins P0[0,2) P1[2,4) P2[4,6) P0[6,8) P3[8,10) P1[10,11) P4[11,13)", func() {
			want := []GanttSegment{
				{PID: 0, StartTime: 0, EndTime: 2},
				{PID: 1, StartTime: 2, EndTime: 4},
				{PID: 2, StartTime: 4, EndTime: 6},
				{PID: 0, StartTime: 6, EndTime: 8},
				{PID: 3, StartTime: 8, EndTime: 10},
				{PID: 1, StartTime: 10, EndTime: 11},
				{PID: 4, StartTime: 11, EndTime: 13},
			}
			So(len(st.Gantt) >= len(want), ShouldBeTrue)
			for i, seg := range want {
				So(st.Gantt[i], ShouldResemble, seg)
			}
		})

		Convey("the simulation finishes at tick 22", func() {
			So(st.CurrentTime, ShouldEqual, 22)
		})
	})
}

// TestPriorityWorkedExample is the spec's fifth worked example:
// non-preemptive priority scheduling, lower value meaning higher priority.
func TestPriorityWorkedExample(t *testing.T) {
	Convey("Given the Priority worked example (arrivals 0,2,4,5; priorities 2,1,3,2)", t, func() {
		e := New()
		e.SetPolicy("Priority")
		e.AddProcess(0, 7, 2)
		e.AddProcess(2, 4, 1)
		e.AddProcess(4, 1, 3)
		e.AddProcess(5, 4, 2)

		e.RunToCompletion()
		st := e.GetState()

		Convey("at t=7 the engine picks the priority-1 process over the priority-2 process", func() {
			So(st.Processes[1].StartTime, ShouldEqual, 7)
		})

		Convey("final completion order is P0, P1, P3, P2", func() {
			So(st.Processes[0].FinishTime, ShouldEqual, 7)
			So(st.Processes[1].FinishTime, ShouldEqual, 11)
			So(st.Processes[3].FinishTime, ShouldEqual, 15)
			So(st.Processes[2].FinishTime, ShouldEqual, 16)
		})
	})
}

// TestMLFQQuantumExpiryDemotesExactlyOneLevel checks the MLFQ-specific
// testable properties from spec §8: a process that exhausts its level-0
// quantum without completing demotes to level 1, demotes again to level
// 2 on a second expiry, and never leaves level 2 afterward.
func TestMLFQQuantumExpiryDemotesExactlyOneLevel(t *testing.T) {
	Convey("Given a single long process under MLFQ", t, func() {
		e := New()
		e.SetPolicy("MLFQ")
		e.AddProcess(0, 100, 0)

		// The 4 quantum-0 ticks run at ticks 0-3; expiry is only detected
		// by the preemption check at the start of the 5th tick (spec
		// §4.3 step 2 runs before step 4 execute, so the demotion that
		// "consuming the quantum" triggers is only visible a tick later).
		for i := 0; i < 5; i++ {
			e.Tick()
		}
		Convey("after consuming exactly its level-0 quantum it demotes to level 1", func() {
			So(e.GetState().Processes[0].MLFQQueue, ShouldEqual, 1)
		})

		for i := 0; i < 8; i++ {
			e.Tick()
		}
		Convey("after consuming its level-1 quantum it demotes to level 2", func() {
			So(e.GetState().Processes[0].MLFQQueue, ShouldEqual, 2)
		})

		for i := 0; i < 50; i++ {
			e.Tick()
		}
		Convey("it never leaves level 2", func() {
			So(e.GetState().Processes[0].MLFQQueue, ShouldEqual, 2)
		})
	})
}

// TestMLFQLevel0ArrivalPreemptsWithinOneTick covers the other MLFQ
// testable property: a level-0 arrival while a lower-priority process
// runs preempts within a single tick.
func TestMLFQLevel0ArrivalPreemptsWithinOneTick(t *testing.T) {
	Convey("Given a process already demoted to level 1, running", t, func() {
		e := New()
		e.SetPolicy("MLFQ")
		e.AddProcess(0, 100, 0)
		for i := 0; i < 5; i++ {
			e.Tick() // consumes the level-0 quantum, demotes to level 1, resumes running
		}
		So(e.GetState().RunningPID, ShouldEqual, 0)
		So(e.GetState().Processes[0].MLFQQueue, ShouldEqual, 1)

		Convey("a freshly arriving process preempts within one tick", func() {
			e.AddProcess(e.CurrentTime(), 2, 0)
			e.Tick()
			So(e.GetState().RunningPID, ShouldEqual, 1)
		})
	})
}

// TestUniversalPropertiesAcrossRandomWorkloads is the spec §8 property
// test: for every policy and many random workloads (n in [1,20],
// bursts in [1,50]), run_to_completion leaves every process terminated,
// wait+burst==turnaround for each, response<=turnaround for each, and
// the Gantt chart covers [0, currentTime) with no gaps.
func TestUniversalPropertiesAcrossRandomWorkloads(t *testing.T) {
	policies := []string{"FCFS", "SJF", "SRTF", "Priority", "RR", "LJF", "LRTF", "MLFQ"}

	Convey("Given many random workloads run under every policy", t, func() {
		rng := rand.New(rand.NewSource(42))

		for _, name := range policies {
			for trial := 0; trial < 15; trial++ {
				n := 1 + rng.Intn(20)
				e := New()
				e.SetPolicy(name)
				e.SetTimeQuantum(2 + rng.Intn(4))

				bursts := make([]int, n)
				arrivals := make([]int, n)
				for i := 0; i < n; i++ {
					arrivals[i] = rng.Intn(30)
					bursts[i] = 1 + rng.Intn(50)
					e.AddProcess(arrivals[i], bursts[i], rng.Intn(5))
				}

				e.RunToCompletion()
				st := e.GetState()

				So(st.IsCompleted, ShouldBeTrue)
				for _, p := range st.Processes {
					So(p.State, ShouldEqual, int(process.Terminated))
				}

				for i, p := range st.Processes {
					So(p.WaitTime+bursts[i], ShouldEqual, p.TurnaroundTime)
					So(p.ResponseTime, ShouldBeLessThanOrEqualTo, p.TurnaroundTime)
				}

				cursor := 0
				busyTicks := 0
				for _, seg := range st.Gantt {
					So(seg.StartTime, ShouldEqual, cursor)
					if seg.PID != -1 {
						busyTicks += seg.EndTime - seg.StartTime
					}
					cursor = seg.EndTime
				}
				So(cursor, ShouldEqual, st.CurrentTime)

				totalBurst := 0
				for _, b := range bursts {
					totalBurst += b
				}
				So(busyTicks, ShouldEqual, totalBurst)
			}
		}
	})
}

// TestFCFSOrderMatchesArrivalOrderWhenAllArriveAtZero pins down another
// spec §8 property independent of the explicit worked examples.
func TestFCFSOrderMatchesArrivalOrderWhenAllArriveAtZero(t *testing.T) {
	Convey("Given FCFS with every process arriving at time zero", t, func() {
		e := New()
		e.SetPolicy("FCFS")
		e.AddProcess(0, 3, 0)
		e.AddProcess(0, 5, 0)
		e.AddProcess(0, 1, 0)
		e.AddProcess(0, 2, 0)
		e.RunToCompletion()

		Convey("Gantt order equals input PID order", func() {
			st := e.GetState()
			got := make([]int, 0, 4)
			for _, seg := range st.Gantt {
				got = append(got, seg.PID)
			}
			So(got, ShouldResemble, []int{0, 1, 2, 3})
		})
	})
}

// TestSetPolicyByIDMatchesDocumentedOrdering exercises the wire-stable
// policy ID table from spec §6.
func TestSetPolicyByIDMatchesDocumentedOrdering(t *testing.T) {
	Convey("Given the documented policy ID ordering", t, func() {
		ids := map[int]string{
			policy.IDFCFS:       "FCFS",
			policy.IDSJF:        "SJF",
			policy.IDSRTF:       "SRTF",
			policy.IDPriority:   "Priority",
			policy.IDRoundRobin: "Round Robin",
			policy.IDLJF:        "LJF",
			policy.IDLRTF:       "LRTF",
			policy.IDMLFQ:       "MLFQ",
		}
		for id, name := range ids {
			e := New()
			e.SetPolicyByID(id)
			So(e.GetState().Algorithm, ShouldEqual, name)
		}
	})
}
