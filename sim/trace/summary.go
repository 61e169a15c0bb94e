package trace

// StageSummary aggregates the recorded activity of one stage.
type StageSummary struct {
	Stage    string
	Actions  int
	Claims   int     // bbox/pop actions (items consumed from upstream)
	Pushes   int     // hand-offs produced for downstream stages
	BusyTime float64 // total compute/load time
	Span     float64 // last stop minus first start across all actions
}

// Summarize computes per-stage statistics from a trace, in worker order.
// Safe for nil or empty traces.
func Summarize(t *Trace) []StageSummary {
	if t == nil {
		return nil
	}
	summaries := make([]StageSummary, 0, len(t.Workers))
	for _, w := range t.Workers {
		s := StageSummary{Stage: w.Name, Actions: len(w.Actions)}
		var first, last float64
		for i, a := range w.Actions {
			switch a.Name {
			case "bbox", "pop":
				s.Claims++
			case "push":
				s.Pushes++
			case "compute", "load":
				s.BusyTime += a.Stop - a.Start
			}
			if i == 0 || a.Start < first {
				first = a.Start
			}
			if i == 0 || a.Stop > last {
				last = a.Stop
			}
		}
		if len(w.Actions) > 0 {
			s.Span = last - first
		}
		summaries = append(summaries, s)
	}
	return summaries
}
