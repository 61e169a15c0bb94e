package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Simulate replays the work tree rooted at root through the topology in
// cfg and returns the total simulated completion time, in the trace's
// time units.
//
// Wiring: a root queue (pool 1) feeds one coarse worker; the coarse queue
// feeds BucketThreads fine workers, which balance children across one
// fine queue per GPU; each fine queue feeds one device worker; devices
// feed a single mesh queue consumed by the terminal mesher worker.
func Simulate(cfg Config, root *WorkItem) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	s := NewSimulator()

	rootQueue := NewResourceQueue(s, cfg.RootQueuePool())
	coarseQueue := NewResourceQueue(s, cfg.CoarseQueuePool())
	fineQueues := make([]*ResourceQueue, cfg.GPUs)
	for i := range fineQueues {
		fineQueues[i] = NewResourceQueue(s, cfg.FineQueuePool())
	}
	meshQueue := NewResourceQueue(s, cfg.MeshQueuePool())

	s.AddWorker(NewWorker("coarse", rootQueue, []*ResourceQueue{coarseQueue}))
	for i := 0; i < cfg.BucketThreads; i++ {
		s.AddWorker(NewWorker(fmt.Sprintf("fine.%d", i), coarseQueue, fineQueues))
	}
	for i, fq := range fineQueues {
		s.AddWorker(NewWorker(fmt.Sprintf("device.%d", i), fq, []*ResourceQueue{meshQueue}))
	}
	s.AddWorker(NewWorker("mesher", meshQueue, nil))

	// Admit the root item against the root pool before the loop starts.
	rootQueue.Get(nil, root.Size)
	rootQueue.Push(root)

	logrus.Infof("simulating with %d fine workers, %d gpus (pools: root=%d coarse=%d fine=%d mesh=%d)",
		cfg.BucketThreads, cfg.GPUs,
		cfg.RootQueuePool(), cfg.CoarseQueuePool(), cfg.FineQueuePool(), cfg.MeshQueuePool())

	return s.Run()
}
