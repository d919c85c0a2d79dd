package canvas

import (
	"strings"
	"time"
)

// searchDelay is how long after the last keystroke a catalog search
// fires.
const searchDelay = 300 * time.Millisecond

// scheduleFunc schedules fn after d and returns a cancel capability.
// Tests inject a manual implementation so debounce behavior is
// asserted without wall-clock delays.
type scheduleFunc func(d time.Duration, fn func()) (cancel func())

func realSchedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// DebouncedSearch coalesces keystrokes into at most one in-flight
// request from the latest input. Each new keystroke cancels the
// pending timer before the previous delay elapses.
type DebouncedSearch struct {
	delay    time.Duration
	schedule scheduleFunc
	cancel   func()
	run      func(query string)
}

func newDebouncedSearch(delay time.Duration, run func(query string)) *DebouncedSearch {
	return &DebouncedSearch{delay: delay, schedule: realSchedule, run: run}
}

// Keystroke registers new input, cancelling any pending search.
func (d *DebouncedSearch) Keystroke(query string) {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return
	}
	d.cancel = d.schedule(d.delay, func() { d.run(q) })
}

// Cancel drops any pending search.
func (d *DebouncedSearch) Cancel() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// SearchMonsters feeds a keystroke to the debounced monster lookup.
func (c *Canvas) SearchMonsters(query string) { c.monsterSearch.Keystroke(query) }

// SearchTrapCatalog feeds a keystroke to the debounced trap lookup.
func (c *Canvas) SearchTrapCatalog(query string) { c.trapSearch.Keystroke(query) }

// MonsterResults returns the latest monster search results.
func (c *Canvas) MonsterResults() []CatalogEntry { return c.monsterResults }

// TrapResults returns the latest trap search results.
func (c *Canvas) TrapResults() []CatalogEntry { return c.trapResults }

func (c *Canvas) runMonsterSearch(query string) {
	run := func() {
		ctx, cancel := callCtx()
		defer cancel()
		results, err := c.store.SearchCreatures(ctx, query)
		if err != nil {
			c.log.Warnw("monster search failed", "query", query, "error", err)
			return
		}
		c.complete(func(cv *Canvas) {
			cv.monsterResults = results
			cv.slog.Add("store", "search", "monsters %q: %d results", query, len(results))
		})
	}
	if c.synchronous {
		run()
		return
	}
	go run()
}

func (c *Canvas) runTrapSearch(query string) {
	run := func() {
		ctx, cancel := callCtx()
		defer cancel()
		results, err := c.store.SearchTraps(ctx, query)
		if err != nil {
			c.log.Warnw("trap search failed", "query", query, "error", err)
			return
		}
		c.complete(func(cv *Canvas) {
			cv.trapResults = results
			cv.slog.Add("store", "search", "traps %q: %d results", query, len(results))
		})
	}
	if c.synchronous {
		run()
		return
	}
	go run()
}
