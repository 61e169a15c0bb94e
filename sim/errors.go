package sim

import "errors"

// Error taxonomy. All three are fatal for the current run: the simulator
// either completes with a single final time or aborts entirely.
var (
	// ErrUnrecognizedAction reports a trace action name the tree builder
	// does not know. Signals corrupt or incompatible trace data.
	ErrUnrecognizedAction = errors.New("unrecognized trace action")

	// ErrQueueExhausted reports a stage whose claim actions do not exactly
	// consume the items produced by the upstream stage.
	ErrQueueExhausted = errors.New("parent queue exhausted")

	// ErrProtocolViolation reports a defect in the scheduler or worker
	// protocol itself: a resumption arriving at an unexpected virtual time,
	// or a wakeup scheduled into the past. Never a data problem.
	ErrProtocolViolation = errors.New("protocol invariant violation")
)
