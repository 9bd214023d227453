package engine

import (
	"github.com/thistle-lang/expander/lang/core"
	"github.com/thistle-lang/expander/lang/evalue"
	"github.com/thistle-lang/expander/lang/phase"
	"github.com/thistle-lang/expander/lang/syntax"
)

// TaskId identifies one expansion task, unique within an engine's lifetime.
type TaskId uint64

// taskStatus is a task's current status: either ready to step, or blocked
// on a signal.
type taskStatus uint8

const (
	statusReady taskStatus = iota
	statusBlocked
)

// task is one unit of expansion work: translate Stx into a core fragment
// and fill Target with it.
type task struct {
	id     TaskId
	target core.NodeId
	ph     phase.Phase
	cat    evalue.SyntacticCategory
	status taskStatus

	stx *syntax.Syntax // valid when Ready

	signal uint64       // valid when Blocked
	cont   Continuation // valid when Blocked
}

// queue is a FIFO of Ready tasks plus the set of currently Blocked tasks,
// local to one scheduler run (the top-level expansion, or a primitive's
// private nested sub-expansion; see engine.go).
type queue struct {
	ready   []*task
	blocked []*task
}

func (q *queue) pushReady(t *task) {
	t.status = statusReady
	q.ready = append(q.ready, t)
}

func (q *queue) popReady() (*task, bool) {
	if len(q.ready) == 0 {
		return nil, false
	}
	t := q.ready[0]
	q.ready = q.ready[1:]
	return t, true
}

func (q *queue) pushBlocked(t *task, signal uint64, cont Continuation) {
	t.status = statusBlocked
	t.signal = signal
	t.cont = cont
	q.blocked = append(q.blocked, t)
}

// takeBlockedWithReceivedSignal removes and returns one blocked task for
// which isReceived reports true, if any.
func (q *queue) takeBlockedWithReceivedSignal(isReceived func(uint64) bool) (*task, bool) {
	for i, t := range q.blocked {
		if isReceived(t.signal) {
			q.blocked = append(q.blocked[:i], q.blocked[i+1:]...)
			return t, true
		}
	}
	return nil, false
}
