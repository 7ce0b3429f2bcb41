package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerRecordsPhasesInOrder(t *testing.T) {
	tm := NewTimer()
	done := tm.Track("parse")
	sema := tm.Begin("sema")
	done("12 items")
	tm.End(sema, "")
	tm.End(42, "ignored")

	phases := tm.Phases()
	if len(phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(phases))
	}
	if phases[0].Name != "parse" || phases[0].Note != "12 items" {
		t.Fatalf("unexpected first phase %+v", phases[0])
	}
	sum := tm.Summary()
	for _, want := range []string{"timings:", "parse", "sema", "# 12 items", "total"} {
		if !strings.Contains(sum, want) {
			t.Fatalf("summary lacks %q:\n%s", want, sum)
		}
	}
}

func TestTimerConcurrentUse(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Track("file")("")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 16 {
		t.Fatalf("got %d phases, want 16", n)
	}
}

func TestEmptyReport(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("unexpected report %+v", r)
	}
}
