package canvas

import (
	"testing"
	"time"
)

// manualScheduler queues scheduled callbacks so a test controls exactly
// when the debounce delay "elapses".
type manualScheduler struct {
	pending []func()
}

func (m *manualScheduler) schedule(_ time.Duration, fn func()) func() {
	i := len(m.pending)
	m.pending = append(m.pending, fn)
	return func() { m.pending[i] = nil }
}

func (m *manualScheduler) fire() {
	for _, fn := range m.pending {
		if fn != nil {
			fn()
		}
	}
	m.pending = nil
}

func TestSearch_Debounce_OneRequestForBurst(t *testing.T) {
	tc := NewTestCanvas()
	sched := &manualScheduler{}
	tc.Canvas.monsterSearch.schedule = sched.schedule

	tc.SearchMonsters("g")
	tc.SearchMonsters("go")
	tc.SearchMonsters("gob")
	sched.fire()

	calls := tc.Script.CallsMatching("search-creatures")
	if len(calls) != 1 {
		t.Fatalf("a keystroke burst must collapse to one request, got %v", calls)
	}
	if calls[0] != `search-creatures "gob"` {
		t.Fatalf("the surviving request must carry the latest input, got %q", calls[0])
	}
}

func TestSearch_ResultsPopulated(t *testing.T) {
	tc := NewTestCanvas()
	sched := &manualScheduler{}
	tc.Canvas.monsterSearch.schedule = sched.schedule

	tc.SearchMonsters("owlbear")
	sched.fire()

	results := tc.MonsterResults()
	if len(results) != 1 || results[0].Name != "owlbear" {
		t.Fatalf("unexpected results: %v", results)
	}
	if !tc.SessionLog().HasEntry("store", "search", "owlbear") {
		t.Fatal("search completion must be logged")
	}
}

func TestSearch_EmptyQuery_NeverFires(t *testing.T) {
	tc := NewTestCanvas()
	sched := &manualScheduler{}
	tc.Canvas.monsterSearch.schedule = sched.schedule

	tc.SearchMonsters("gob")
	tc.SearchMonsters("   ")
	sched.fire()

	if got := tc.Script.CallsMatching("search-creatures"); len(got) != 0 {
		t.Fatalf("clearing the input must cancel the pending search, got %v", got)
	}
}

func TestSearch_Cancel(t *testing.T) {
	tc := NewTestCanvas()
	sched := &manualScheduler{}
	tc.Canvas.trapSearch.schedule = sched.schedule

	tc.SearchTrapCatalog("pit")
	tc.Canvas.trapSearch.Cancel()
	sched.fire()

	if got := tc.Script.CallsMatching("search-traps"); len(got) != 0 {
		t.Fatalf("cancel must drop the pending search, got %v", got)
	}
}

func TestSearch_TrapCatalog_Independent(t *testing.T) {
	tc := NewTestCanvas()
	ms := &manualScheduler{}
	ts := &manualScheduler{}
	tc.Canvas.monsterSearch.schedule = ms.schedule
	tc.Canvas.trapSearch.schedule = ts.schedule

	tc.SearchMonsters("goblin")
	tc.SearchTrapCatalog("pit")
	ms.fire()
	ts.fire()

	if len(tc.MonsterResults()) != 1 || len(tc.TrapResults()) != 1 {
		t.Fatalf("both catalogs should have results: %v / %v",
			tc.MonsterResults(), tc.TrapResults())
	}
	if tc.TrapResults()[0].DC != 13 {
		t.Fatalf("trap results must carry catalog DCs, got %+v", tc.TrapResults()[0])
	}
}
