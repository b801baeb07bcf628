package metrics

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"schedsim/internal/process"
)

func terminated(pid, arrival, burst, wait, finish int) *process.Process {
	p := process.NewProcess(pid, process.Spec{Arrival: arrival, Burst: burst})
	p.WaitTime = wait
	p.FinishTime = finish
	p.StartTime = arrival + wait
	p.ResponseTime = wait
	p.TurnaroundTime = finish - arrival
	p.State = process.Terminated
	p.RemainingTime = 0
	return p
}

func TestFinalMetrics(t *testing.T) {
	Convey("Given the spec's FCFS worked example (arrivals 0,1,2; bursts 5,3,8)", t, func() {
		processes := []*process.Process{
			terminated(0, 0, 5, 0, 5),
			terminated(1, 1, 3, 4, 8),
			terminated(2, 2, 8, 6, 16),
		}

		f := FinalMetrics(processes, 2)

		Convey("average wait and turnaround match the hand-worked values", func() {
			So(f.AvgWaitTime, ShouldAlmostEqual, 3.33, 0.01)
			So(f.AvgTurnaroundTime, ShouldAlmostEqual, 8.67, 0.01)
		})

		Convey("CPU utilization is 100% since the CPU never idles", func() {
			So(f.CPUUtilization, ShouldEqual, 100)
		})

		Convey("context switches pass through unchanged", func() {
			So(f.ContextSwitches, ShouldEqual, 2)
		})

		Convey("throughput is completions over total elapsed time", func() {
			So(f.Throughput, ShouldAlmostEqual, 0.1875, 0.0001)
		})

		Convey("total execution and idle time sum to the makespan", func() {
			So(f.TotalExecutionTime, ShouldEqual, 16)
			So(f.TotalIdleTime, ShouldEqual, 0)
		})
	})
}

func TestEmptyMetrics(t *testing.T) {
	Convey("Empty and a zero-process FinalMetrics both report the zero value", t, func() {
		So(Empty(), ShouldResemble, Final{})
		So(FinalMetrics(nil, 0), ShouldResemble, Final{})
	})
}

func TestRecordTick(t *testing.T) {
	Convey("Given a fresh collector", t, func() {
		c := New()
		p0 := process.NewProcess(0, process.Spec{Arrival: 0, Burst: 5})
		p1 := process.NewProcess(1, process.Spec{Arrival: 1, Burst: 3})
		procs := []*process.Process{p0, p1}

		Convey("recording a busy tick bumps CPU utilization to 100%", func() {
			c.RecordTick(0, 0, 1, 0, procs)
			So(c.Snapshots, ShouldHaveLength, 1)
			So(c.Snapshots[0].CPUUtilization, ShouldEqual, 100)
			So(c.Snapshots[0].RunningPID, ShouldEqual, 0)
		})

		Convey("recording an idle tick does not advance busy ticks", func() {
			c.RecordTick(0, -1, 0, 0, procs)
			So(c.Snapshots[0].CPUUtilization, ShouldEqual, 0)
		})

		Convey("Reset clears all recorded snapshots", func() {
			c.RecordTick(0, 0, 1, 0, procs)
			c.Reset()
			So(c.Snapshots, ShouldBeEmpty)
		})
	})
}
