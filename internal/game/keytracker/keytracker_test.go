package keytracker

import "testing"

func TestUpdateReportsPressEdges(t *testing.T) {
	var k KeyStateTracker
	steps := []struct {
		pressed bool
		want    bool
	}{
		{false, false},
		{true, true},
		{true, false},
		{true, false},
		{false, false},
		{true, true},
	}
	for i, s := range steps {
		if got := k.Update(s.pressed); got != s.want {
			t.Fatalf("step %d: Update(%v) = %v, want %v", i, s.pressed, got, s.want)
		}
	}
}
