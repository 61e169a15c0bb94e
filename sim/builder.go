package sim

import (
	"fmt"

	"github.com/pipeline-sim/pipeline-sim/sim/trace"
)

// StageChain is the fixed stage order of the replayed pipeline: the
// root-producing stage followed by three downstream stages. Each stage's
// trace actions consume the items produced by the stage before it.
var StageChain = []string{"main", "bucket.fine.0", "device.0", "mesher.0"}

// BuildStage replays one stage's action sequence against the ordered
// items produced by the upstream stage and returns the items this stage
// produced, in trace order.
//
// A bbox/pop action claims the next parent item and resets the local time
// baseline to the action's stop time. A get action records the elapsed
// time since the baseline as the in-progress child's hand-off wait; a
// push action records the hand-off duration, materializes the child
// (with the action's value as the child's size, when present), and
// appends it to both the claimed item and the stage output. compute/load
// actions accumulate the claimed item's self-processing time; write is a
// no-op. The stage must claim exactly one parent item per claim action
// and leave none over.
func BuildStage(stage string, actions []trace.Action, parents []*WorkItem) ([]*WorkItem, error) {
	var (
		out       []*WorkItem
		item      *WorkItem
		cursor    int
		base      float64
		parentGet float64
	)
	for i, action := range actions {
		switch action.Name {
		case "bbox", "pop":
			if cursor == len(parents) {
				return nil, fmt.Errorf(
					"%w: stage %q action %d claims beyond the %d items produced upstream",
					ErrQueueExhausted, stage, i, len(parents))
			}
			item = parents[cursor]
			cursor++
			base = action.Stop

		case "get":
			parentGet = action.Start - base
			base = action.Stop

		case "push":
			if item == nil {
				return nil, fmt.Errorf(
					"%w: stage %q action %d pushes before any claim",
					ErrQueueExhausted, stage, i)
			}
			child := &WorkItem{
				Size:       1,
				ParentGet:  parentGet,
				ParentPush: action.Start - base,
				Parent:     item,
			}
			if action.Value != nil {
				child.Size = *action.Value
			}
			item.Children = append(item.Children, child)
			out = append(out, child)
			base = action.Stop

		case "compute", "load":
			if item == nil {
				return nil, fmt.Errorf(
					"%w: stage %q action %d computes before any claim",
					ErrQueueExhausted, stage, i)
			}
			item.SelfTime += action.Stop - action.Start

		case "write":
			// Output writing is not replayed; it overlaps the stage's
			// other recorded work.

		default:
			return nil, fmt.Errorf("%w: stage %q action %d: %q",
				ErrUnrecognizedAction, stage, i, action.Name)
		}
	}
	if cursor != len(parents) {
		return nil, fmt.Errorf("%w: stage %q consumed %d of %d parent items",
			ErrQueueExhausted, stage, cursor, len(parents))
	}
	return out, nil
}

// BuildTree chains BuildStage across the fixed stage sequence and returns
// the synthetic root item (size 1) the whole tree hangs off.
func BuildTree(tr *trace.Trace) (*WorkItem, error) {
	root := &WorkItem{Size: 1}
	parents := []*WorkItem{root}
	for _, stage := range StageChain {
		w := tr.Worker(stage)
		if w == nil {
			return nil, fmt.Errorf("trace has no worker %q", stage)
		}
		children, err := BuildStage(stage, w.Actions, parents)
		if err != nil {
			return nil, err
		}
		parents = children
	}
	return root, nil
}
