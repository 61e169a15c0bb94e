// Package trace loads and summarizes recorded pipeline traces. It stores
// pure data types and has no dependency on the simulation engine.
package trace

import (
	"fmt"
	"strings"
)

// Action is one timestamped event recorded for a stage: a claim
// (bbox/pop), a hand-off (get/push), a processing interval
// (compute/load), or an output write.
type Action struct {
	Name  string
	Start float64
	Stop  float64
	Value *int // optional size override carried by push actions
}

// Worker groups the ordered actions recorded for one stage instance.
type Worker struct {
	Name    string
	Actions []Action
}

// Trace is one full recorded run: one Worker per stage instance.
type Trace struct {
	Workers []Worker
}

// Worker returns the worker with the given name, or nil.
func (t *Trace) Worker(name string) *Worker {
	for i := range t.Workers {
		if t.Workers[i].Name == name {
			return &t.Workers[i]
		}
	}
	return nil
}

// Validate rejects traces this simulator cannot replay. Recorded runs
// with more than one instance of a stage carry numbered suffixes
// (e.g. "device.1"); only single-instance traces are supported.
func (t *Trace) Validate() error {
	for _, w := range t.Workers {
		if strings.HasSuffix(w.Name, ".1") {
			return fmt.Errorf("trace has multiple %q workers; only one worker of each type is supported",
				strings.TrimSuffix(w.Name, ".1"))
		}
	}
	return nil
}
