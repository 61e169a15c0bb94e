package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_PerStageStatistics(t *testing.T) {
	tr := &Trace{Workers: []Worker{
		{Name: "main", Actions: []Action{
			{Name: "pop", Start: 0, Stop: 0.5},
			{Name: "get", Start: 0.5, Stop: 0.6},
			{Name: "push", Start: 0.6, Stop: 0.7},
			{Name: "push", Start: 0.7, Stop: 0.8},
			{Name: "compute", Start: 0.8, Stop: 2.8},
			{Name: "load", Start: 2.8, Stop: 3.3},
			{Name: "write", Start: 3.3, Stop: 4.0},
		}},
		{Name: "device.0"},
	}}

	got := Summarize(tr)
	require.Len(t, got, 2)

	main := got[0]
	assert.Equal(t, "main", main.Stage)
	assert.Equal(t, 7, main.Actions)
	assert.Equal(t, 1, main.Claims)
	assert.Equal(t, 2, main.Pushes)
	assert.InDelta(t, 2.5, main.BusyTime, 1e-9, "compute + load only")
	assert.InDelta(t, 4.0, main.Span, 1e-9)

	device := got[1]
	assert.Equal(t, "device.0", device.Stage)
	assert.Zero(t, device.Actions)
	assert.Zero(t, device.Span)
}

func TestSummarize_NilTrace(t *testing.T) {
	assert.Nil(t, Summarize(nil))
}

func TestSummarize_EmptyTrace(t *testing.T) {
	assert.Empty(t, Summarize(&Trace{}))
}
