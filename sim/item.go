package sim

// WorkItem is one node in the replayed work tree: a unit of work handled
// by a single pipeline stage. The tree is built once from the trace and
// is read-only during simulation.
type WorkItem struct {
	// Size is the capacity charged against the input queue's admission
	// pool while the item is in flight. Defaults to 1; a push action in
	// the trace may carry an explicit override.
	Size int

	// SelfTime is the accumulated compute/load duration attributed to
	// this item, in trace time units.
	SelfTime float64

	// ParentGet and ParentPush are the recorded times the upstream stage
	// spent waiting for, and then performing, the hand-off of this item.
	ParentGet  float64
	ParentPush float64

	// Children are the items this item fans out to downstream stages,
	// in trace order.
	Children []*WorkItem

	// Parent is a non-owning back-reference for bookkeeping only.
	Parent *WorkItem
}
