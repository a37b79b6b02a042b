package game

import (
	"testing"
	"time"
)

func TestPerfStatGetters(t *testing.T) {
	stats := map[string]interface{}{
		"f":   2.5,
		"u64": uint64(7),
		"u32": uint32(3),
		"i":   4,
		"s":   "text",
	}
	if got := getPerfFloat(stats, "f"); got != 2.5 {
		t.Errorf("getPerfFloat = %v", got)
	}
	if got := getPerfUint(stats, "u32"); got != 3 {
		t.Errorf("getPerfUint(uint32) = %v", got)
	}
	if got := getPerfInt(stats, "u64"); got != 7 {
		t.Errorf("getPerfInt(uint64) = %v", got)
	}
	if got := getPerfFloat(stats, "i"); got != 4 {
		t.Errorf("getPerfFloat(int) = %v", got)
	}
	if got := getPerfInt(stats, "s"); got != 0 {
		t.Errorf("unsupported type should read as 0, got %v", got)
	}
	if got := getPerfUint(stats, "missing"); got != 0 {
		t.Errorf("missing key should read as 0, got %v", got)
	}
}

func TestFrameBudget(t *testing.T) {
	if got := frameBudgetMs(0); got != 0 {
		t.Errorf("frameBudgetMs(0) = %v", got)
	}
	if got := frameBudgetMs(50); got != 20 {
		t.Errorf("frameBudgetMs(50) = %v", got)
	}
	if got := idleBudgetMs(50, 5*time.Millisecond, 5*time.Millisecond); got != 10 {
		t.Errorf("idleBudgetMs = %v", got)
	}
	if got := idleBudgetMs(50, 30*time.Millisecond, 0); got != 0 {
		t.Errorf("overrun idle = %v, want 0", got)
	}
}
