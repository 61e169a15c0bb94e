package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipeline-sim/pipeline-sim/sim/trace"
)

func intPtr(n int) *int { return &n }

func TestBuildStage_ReconstructsHandoffTimings(t *testing.T) {
	// Claim resets the baseline to its stop time; each get/push pair
	// records the deltas against the running baseline.
	actions := []trace.Action{
		{Name: "pop", Start: 0, Stop: 1},
		{Name: "get", Start: 2, Stop: 3},
		{Name: "push", Start: 4, Stop: 5},
		{Name: "get", Start: 6.5, Stop: 7},
		{Name: "push", Start: 9, Stop: 9.5},
	}
	parent := &WorkItem{Size: 1}

	out, err := BuildStage("main", actions, []*WorkItem{parent})
	require.NoError(t, err)
	require.Len(t, out, 2, "one child per push action")
	require.Len(t, parent.Children, 2)

	assert.Equal(t, 1.0, out[0].ParentGet)  // 2 - 1
	assert.Equal(t, 1.0, out[0].ParentPush) // 4 - 3
	assert.Equal(t, 1.5, out[1].ParentGet)  // 6.5 - 5
	assert.Equal(t, 2.0, out[1].ParentPush) // 9 - 7
	assert.Same(t, parent, out[0].Parent)
	assert.Equal(t, parent.Children, out)
}

func TestBuildStage_ComputeAndLoadAccumulateSelfTime(t *testing.T) {
	actions := []trace.Action{
		{Name: "bbox", Start: 0, Stop: 1},
		{Name: "compute", Start: 1, Stop: 3},
		{Name: "load", Start: 3, Stop: 4},
		{Name: "write", Start: 4, Stop: 9},
	}
	parent := &WorkItem{Size: 1}

	_, err := BuildStage("main", actions, []*WorkItem{parent})
	require.NoError(t, err)
	assert.Equal(t, 3.0, parent.SelfTime, "write intervals are not accounted")
}

func TestBuildStage_PushValueOverridesChildSize(t *testing.T) {
	actions := []trace.Action{
		{Name: "pop", Start: 0, Stop: 1},
		{Name: "push", Start: 1, Stop: 2, Value: intPtr(4)},
		{Name: "push", Start: 2, Stop: 3},
	}
	parent := &WorkItem{Size: 1}

	out, err := BuildStage("main", actions, []*WorkItem{parent})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 4, out[0].Size)
	assert.Equal(t, 1, out[1].Size, "size defaults to 1 without a value")
}

func TestBuildStage_UnrecognizedAction(t *testing.T) {
	actions := []trace.Action{
		{Name: "pop", Start: 0, Stop: 1},
		{Name: "frobnicate", Start: 1, Stop: 2},
	}

	_, err := BuildStage("main", actions, []*WorkItem{{Size: 1}})
	assert.ErrorIs(t, err, ErrUnrecognizedAction)
}

func TestBuildStage_ClaimBeyondParentQueue(t *testing.T) {
	actions := []trace.Action{
		{Name: "pop", Start: 0, Stop: 1},
		{Name: "pop", Start: 1, Stop: 2},
	}

	_, err := BuildStage("main", actions, []*WorkItem{{Size: 1}})
	assert.ErrorIs(t, err, ErrQueueExhausted)
}

func TestBuildStage_LeftoverParentItems(t *testing.T) {
	actions := []trace.Action{
		{Name: "pop", Start: 0, Stop: 1},
	}
	parents := []*WorkItem{{Size: 1}, {Size: 1}}

	_, err := BuildStage("main", actions, parents)
	assert.ErrorIs(t, err, ErrQueueExhausted)
}

func TestBuildStage_PushBeforeClaim(t *testing.T) {
	actions := []trace.Action{
		{Name: "push", Start: 0, Stop: 1},
	}

	_, err := BuildStage("main", actions, nil)
	assert.ErrorIs(t, err, ErrQueueExhausted)
}

// fourStageTrace is a minimal valid trace: main produces one coarse item
// (root self time 1.0), the fine stage consumes it (self time 3.0) and
// produces nothing, so the device and mesher stages see empty queues.
func fourStageTrace() *trace.Trace {
	return &trace.Trace{Workers: []trace.Worker{
		{Name: "main", Actions: []trace.Action{
			{Name: "pop", Start: 0, Stop: 0.5},
			{Name: "get", Start: 0.5, Stop: 0.6},
			{Name: "push", Start: 0.6, Stop: 0.7},
			{Name: "compute", Start: 0.7, Stop: 1.7},
		}},
		{Name: "bucket.fine.0", Actions: []trace.Action{
			{Name: "pop", Start: 0, Stop: 2},
			{Name: "compute", Start: 2, Stop: 5},
		}},
		{Name: "device.0"},
		{Name: "mesher.0"},
	}}
}

func TestBuildTree_ChainsStages(t *testing.T) {
	root, err := BuildTree(fourStageTrace())
	require.NoError(t, err)

	assert.Equal(t, 1, root.Size, "root is a synthetic sentinel of size 1")
	assert.Equal(t, 1.0, root.SelfTime)
	require.Len(t, root.Children, 1)
	coarse := root.Children[0]
	assert.Equal(t, 0.0, coarse.ParentGet)
	assert.Equal(t, 0.0, coarse.ParentPush)
	assert.Equal(t, 3.0, coarse.SelfTime)
	assert.Empty(t, coarse.Children)
}

func TestBuildTree_MissingStage(t *testing.T) {
	tr := fourStageTrace()
	tr.Workers = tr.Workers[:3] // drop mesher.0

	_, err := BuildTree(tr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mesher.0")
}
