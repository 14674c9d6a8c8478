package report

import "testing"

type recordingListener struct {
	solutions int
	progress  int
}

func (r *recordingListener) OnSolution(SolutionEvent)           { r.solutions++ }
func (r *recordingListener) OnSeparatorProgress(SeparatorEvent) { r.progress++ }

func TestMultiListenerFansOutToEveryMember(t *testing.T) {
	a, b := &recordingListener{}, &recordingListener{}
	m := MultiListener{a, b, NullListener{}}

	m.OnSolution(SolutionEvent{Kind: Final, Width: 10})
	m.OnSeparatorProgress(SeparatorEvent{TotalLoss: 1, Strikes: 2})

	for _, r := range []*recordingListener{a, b} {
		if r.solutions != 1 || r.progress != 1 {
			t.Errorf("listener got %d solutions, %d progress events; want 1, 1", r.solutions, r.progress)
		}
	}
}

func TestMultiListenerEmptyIsNoOp(t *testing.T) {
	var m MultiListener
	m.OnSolution(SolutionEvent{})
	m.OnSeparatorProgress(SeparatorEvent{})
}
