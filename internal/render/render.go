// Package render formats engine state as plain text for the CLI: a
// one-line ASCII Gantt bar and a fixed-width metrics/process table.
//
// This is deliberately not the excluded terminal front-end (spec §1):
// no colour, no interactive input, no screen redraw — just a printer.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"schedsim/internal/engine"
	"schedsim/internal/metrics"
	"schedsim/internal/process"
)

// Gantt writes every contiguous segment on a single line, e.g. "[P0 0-5) [idle 5-6) [P1 6-9)".
func Gantt(w io.Writer, segments []engine.GanttSegment) {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		label := fmt.Sprintf("P%d", seg.PID)
		if seg.PID == -1 {
			label = "idle"
		}
		parts[i] = fmt.Sprintf("[%s %d-%d)", label, seg.StartTime, seg.EndTime)
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}

// ProcessTable writes a fixed-width table of per-process timing fields.
func ProcessTable(w io.Writer, snapshots []process.Snapshot) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tARRIVAL\tBURST\tSTART\tFINISH\tWAIT\tRESPONSE\tTURNAROUND\tSTATE")
	for _, p := range snapshots {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			p.PID, p.ArrivalTime, p.BurstTime, p.StartTime, p.FinishTime,
			p.WaitTime, p.ResponseTime, p.TurnaroundTime, p.StateName)
	}
	tw.Flush()
}

// Metrics writes the final summary metrics as a small two-column table.
func Metrics(w io.Writer, m metrics.Final) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "avgWaitTime\t%.2f\n", m.AvgWaitTime)
	fmt.Fprintf(tw, "avgTurnaroundTime\t%.2f\n", m.AvgTurnaroundTime)
	fmt.Fprintf(tw, "avgResponseTime\t%.2f\n", m.AvgResponseTime)
	fmt.Fprintf(tw, "cpuUtilization\t%.2f%%\n", m.CPUUtilization)
	fmt.Fprintf(tw, "throughput\t%.4f\n", m.Throughput)
	fmt.Fprintf(tw, "contextSwitches\t%d\n", m.ContextSwitches)
	fmt.Fprintf(tw, "totalIdleTime\t%d\n", m.TotalIdleTime)
	fmt.Fprintf(tw, "totalExecutionTime\t%d\n", m.TotalExecutionTime)
	tw.Flush()
}

// Comparison writes a side-by-side table of final metrics across
// policies, in the given display order.
func Comparison(w io.Writer, order []string, results map[string]metrics.Final) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tAVG WAIT\tAVG TAT\tAVG RESP\tCPU%\tTHROUGHPUT\tCTX SWITCHES")
	for _, name := range order {
		m, ok := results[name]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.4f\t%d\n",
			name, m.AvgWaitTime, m.AvgTurnaroundTime, m.AvgResponseTime,
			m.CPUUtilization, m.Throughput, m.ContextSwitches)
	}
	tw.Flush()
}
