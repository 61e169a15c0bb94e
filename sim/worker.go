package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// WorkerState identifies a worker's current suspension point.
type WorkerState int

const (
	// StateAwaitingItem: waiting to pop the next item from the input queue.
	StateAwaitingItem WorkerState = iota
	// StateAwaitingChildGet: the recorded hand-off wait for the current
	// child has been scheduled; on resume the worker picks an output queue
	// and requests capacity.
	StateAwaitingChildGet
	// StateAwaitingChildCapacity: capacity was denied; retry the same
	// output queue on every subsequent wake until granted.
	StateAwaitingChildCapacity
	// StateAwaitingChildPush: the recorded hand-off duration has been
	// scheduled; on resume the child is pushed downstream.
	StateAwaitingChildPush
	// StateAwaitingSelfFinish: the item's own processing time has been
	// scheduled; on resume the item is complete.
	StateAwaitingSelfFinish
)

// Suspension is the result of one Resume call: either the worker is
// blocked on an external wake, or it asks to be resumed at a specific
// virtual time (which may equal the current time).
type Suspension struct {
	Blocked bool
	At      float64 // valid only when !Blocked
}

var suspendBlocked = Suspension{Blocked: true}

func resumeAt(t float64) Suspension {
	return Suspension{At: t}
}

// Worker replays one pipeline stage: it claims items from its input
// queue, forwards each item's children to the least-loaded candidate
// output queue under backpressure, accounts the item's own processing
// time, and returns the item's admission capacity. The protocol is a
// sequential state machine driven by Resume; a worker that can never
// claim another item simply stays blocked and is never rescheduled.
type Worker struct {
	name  string
	inq   *ResourceQueue
	outqs []*ResourceQueue

	state     WorkerState
	item      *WorkItem
	childIdx  int
	target    *ResourceQueue
	localTime float64
}

// NewWorker creates a worker reading from inq and forwarding children to
// outqs. outqs is empty for a terminal stage.
func NewWorker(name string, inq *ResourceQueue, outqs []*ResourceQueue) *Worker {
	return &Worker{
		name:  name,
		inq:   inq,
		outqs: outqs,
		state: StateAwaitingItem,
	}
}

// Name returns the worker's stage name.
func (w *Worker) Name() string {
	return w.name
}

// State returns the worker's current suspension point.
func (w *Worker) State() WorkerState {
	return w.state
}

// Resume runs the protocol from the current suspension point until the
// next one. now is the scheduler clock at this resumption; for a
// resumption the worker itself scheduled via ResumeAt, now must exactly
// equal the requested time — a mismatch is a scheduler defect, not a
// recoverable condition.
func (w *Worker) Resume(now float64) (Suspension, error) {
	for {
		switch w.state {
		case StateAwaitingItem:
			item := w.inq.Pop(w)
			if item == nil {
				return suspendBlocked, nil
			}
			w.item = item
			w.childIdx = 0
			w.localTime = now
			logrus.Debugf("[%s] claimed item (size=%d, children=%d) at %g",
				w.name, item.Size, len(item.Children), now)
			if s, ok := w.next(); ok {
				return s, nil
			}

		case StateAwaitingChildGet, StateAwaitingChildCapacity:
			w.localTime = now
			child := w.item.Children[w.childIdx]
			if w.state == StateAwaitingChildGet {
				if len(w.outqs) == 0 {
					return suspendBlocked, fmt.Errorf(
						"worker %q: item has children but no output queues", w.name)
				}
				w.target = w.bestQueue()
			}
			if !w.target.Get(w, child.Size) {
				w.state = StateAwaitingChildCapacity
				return suspendBlocked, nil
			}
			w.localTime += child.ParentPush
			w.state = StateAwaitingChildPush
			return resumeAt(w.localTime), nil

		case StateAwaitingChildPush:
			if now != w.localTime {
				return suspendBlocked, fmt.Errorf(
					"%w: worker %q resumed at %g before push, expected %g",
					ErrProtocolViolation, w.name, now, w.localTime)
			}
			w.target.Push(w.item.Children[w.childIdx])
			w.target = nil
			w.childIdx++
			if s, ok := w.next(); ok {
				return s, nil
			}

		case StateAwaitingSelfFinish:
			if now != w.localTime {
				return suspendBlocked, fmt.Errorf(
					"%w: worker %q resumed at %g after processing, expected %g",
					ErrProtocolViolation, w.name, now, w.localTime)
			}
			w.finishItem()
		}
	}
}

// next advances to the following protocol step for the current item:
// schedule the next child's hand-off wait, schedule the item's own
// processing time, or complete the item. ok is false when the item is
// complete and the worker should immediately try to claim another one.
func (w *Worker) next() (s Suspension, ok bool) {
	if w.childIdx < len(w.item.Children) {
		w.localTime += w.item.Children[w.childIdx].ParentGet
		w.state = StateAwaitingChildGet
		return resumeAt(w.localTime), true
	}
	if w.item.SelfTime > 0 {
		w.localTime += w.item.SelfTime
		w.state = StateAwaitingSelfFinish
		return resumeAt(w.localTime), true
	}
	w.finishItem()
	return Suspension{}, false
}

func (w *Worker) finishItem() {
	w.inq.Done(w.item.Size)
	w.item = nil
	w.state = StateAwaitingItem
}

// bestQueue picks the candidate output queue with the most spare
// admission capacity. Ties go to the lowest-index candidate.
func (w *Worker) bestQueue() *ResourceQueue {
	best := w.outqs[0]
	for _, q := range w.outqs[1:] {
		if q.Spare() > best.Spare() {
			best = q
		}
	}
	return best
}
