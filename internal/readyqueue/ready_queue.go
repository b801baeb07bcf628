// Package readyqueue implements the engine's FIFO ready queue: an ordered
// set of eligible PIDs. Algorithm-specific selection lives in the policy
// layer, not here — this is deliberately just a queue.
package readyqueue

// ReadyQueue is a FIFO-ordered queue of process IDs with a duplicate
// guard: enqueueing a PID already present is a no-op.
type ReadyQueue struct {
	order   []int
	present map[int]bool
}

// New returns an empty ReadyQueue.
func New() *ReadyQueue {
	return &ReadyQueue{
		present: make(map[int]bool),
	}
}

// Enqueue adds a PID to the back of the queue. A no-op if already present.
func (q *ReadyQueue) Enqueue(pid int) {
	if q.present[pid] {
		return
	}
	q.present[pid] = true
	q.order = append(q.order, pid)
}

// Dequeue removes and returns the front PID, or -1 if empty.
func (q *ReadyQueue) Dequeue() int {
	if len(q.order) == 0 {
		return -1
	}
	pid := q.order[0]
	q.order = q.order[1:]
	delete(q.present, pid)
	return pid
}

// Remove deletes a specific PID from anywhere in the queue.
func (q *ReadyQueue) Remove(pid int) {
	if !q.present[pid] {
		return
	}
	for i, p := range q.order {
		if p == pid {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	delete(q.present, pid)
}

// Peek returns the front PID without removing it, or -1 if empty.
func (q *ReadyQueue) Peek() int {
	if len(q.order) == 0 {
		return -1
	}
	return q.order[0]
}

// Clear removes all PIDs.
func (q *ReadyQueue) Clear() {
	q.order = q.order[:0]
	q.present = make(map[int]bool)
}

// Len returns the number of PIDs currently queued.
func (q *ReadyQueue) Len() int {
	return len(q.order)
}

// Contains reports whether pid is currently queued.
func (q *ReadyQueue) Contains(pid int) bool {
	return q.present[pid]
}

// PIDs returns a copy of the queue contents in FIFO order, safe for a
// policy to range over without risk of mutating engine state.
func (q *ReadyQueue) PIDs() []int {
	out := make([]int, len(q.order))
	copy(out, q.order)
	return out
}
