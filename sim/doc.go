// Package sim is the discrete-event engine that replays a recorded
// pipeline workload through a configurable worker/queue topology and
// reports the total simulated completion time.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - item.go / builder.go: the WorkItem tree reconstructed from a trace
//   - semaphore.go / queue.go: the virtual-time resource model
//   - worker.go: the per-stage protocol as a resumable state machine
//   - simulator.go: the wakeup heap and the run loop
//   - pipeline.go: topology wiring and the top-level Simulate entry point
//
// Everything runs on a single goroutine over a logical clock. The only
// source of "time" is durations recorded in the input trace; the engine
// re-interleaves them under different worker counts and queue capacities
// to predict how long the same workload would take.
package sim
