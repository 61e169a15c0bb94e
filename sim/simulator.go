package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"
)

// pendingWakeup is one scheduled worker resumption.
type pendingWakeup struct {
	at  float64
	seq uint64 // FIFO tie-break among equal timestamps
	w   *Worker
}

// wakeupQueue implements heap.Interface and orders wakeups by timestamp,
// breaking ties by scheduling order.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type wakeupQueue []pendingWakeup

func (wq wakeupQueue) Len() int { return len(wq) }
func (wq wakeupQueue) Less(i, j int) bool {
	if wq[i].at != wq[j].at {
		return wq[i].at < wq[j].at
	}
	return wq[i].seq < wq[j].seq
}
func (wq wakeupQueue) Swap(i, j int) { wq[i], wq[j] = wq[j], wq[i] }

func (wq *wakeupQueue) Push(x any) {
	*wq = append(*wq, x.(pendingWakeup))
}

func (wq *wakeupQueue) Pop() any {
	old := *wq
	n := len(old)
	item := old[n-1]
	*wq = old[0 : n-1]
	return item
}

// Simulator holds the logical clock and the min-heap of pending worker
// wakeups. Execution is single-threaded and cooperative: exactly one
// worker protocol step runs per loop iteration, and the clock advances
// only to the timestamp of the wakeup being delivered.
type Simulator struct {
	Clock   float64
	wakeups wakeupQueue
	seq     uint64
	workers []*Worker
}

// NewSimulator creates a simulator with the clock at zero.
func NewSimulator() *Simulator {
	return &Simulator{
		wakeups: make(wakeupQueue, 0),
	}
}

// AddWorker registers w, which starts at its first suspension point, and
// schedules an immediate wakeup at the current clock.
func (sim *Simulator) AddWorker(w *Worker) {
	sim.workers = append(sim.workers, w)
	sim.schedule(w, sim.Clock)
}

// Workers returns the registered workers in registration order.
func (sim *Simulator) Workers() []*Worker {
	return sim.workers
}

// wake schedules w to be resumed at the current clock. Semaphores call
// this when a Post may have satisfied w's outstanding request.
func (sim *Simulator) wake(w *Worker) {
	sim.schedule(w, sim.Clock)
}

func (sim *Simulator) schedule(w *Worker, at float64) {
	heap.Push(&sim.wakeups, pendingWakeup{at: at, seq: sim.seq, w: w})
	sim.seq++
}

// Run delivers wakeups in timestamp order until none remain and returns
// the final clock value: the total simulated completion time. A wakeup
// behind the clock or a worker protocol error aborts the run.
func (sim *Simulator) Run() (float64, error) {
	for len(sim.wakeups) > 0 {
		next := heap.Pop(&sim.wakeups).(pendingWakeup)
		if next.at < sim.Clock {
			return sim.Clock, fmt.Errorf(
				"%w: wakeup for %q at %g is behind clock %g",
				ErrProtocolViolation, next.w.Name(), next.at, sim.Clock)
		}
		sim.Clock = next.at
		logrus.Debugf("[t=%g] resuming %s", sim.Clock, next.w.Name())
		sus, err := next.w.Resume(sim.Clock)
		if err != nil {
			return sim.Clock, err
		}
		if sus.Blocked {
			// The worker depends entirely on a later external wake
			// triggered by a semaphore Post.
			continue
		}
		if sus.At < sim.Clock {
			return sim.Clock, fmt.Errorf(
				"%w: worker %q requested resumption at %g behind clock %g",
				ErrProtocolViolation, next.w.Name(), sus.At, sim.Clock)
		}
		sim.schedule(next.w, sus.At)
	}
	logrus.Infof("[t=%g] simulation ended", sim.Clock)
	return sim.Clock, nil
}
