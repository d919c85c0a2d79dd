package canvas

import (
	"fmt"
	"strings"
)

// SessionEntry is one recorded interaction event.
type SessionEntry struct {
	Seq      int
	Category string // mode, place, drag, menu, store, vision
	Key      string // event name within the category
	Value    string // human-readable detail
}

// String formats the entry as a fixed-width log line.
//
//	[0042] drag   rejected   token tok-2: drag already active
func (e SessionEntry) String() string {
	return fmt.Sprintf("[%04d] %-7s %-16s %s", e.Seq, e.Category, e.Key, e.Value)
}

// SessionLog collects structured interaction events. Tests assert on
// it to verify mode transitions and rejections; the DM surface renders
// it into the session report.
type SessionLog struct {
	entries []SessionEntry
	seq     int
}

func NewSessionLog() *SessionLog {
	return &SessionLog{}
}

// Add records a new entry.
func (sl *SessionLog) Add(category, key, format string, args ...any) {
	sl.seq++
	sl.entries = append(sl.entries, SessionEntry{
		Seq:      sl.seq,
		Category: category,
		Key:      key,
		Value:    fmt.Sprintf(format, args...),
	})
}

// Entries returns all recorded entries.
func (sl *SessionLog) Entries() []SessionEntry {
	return sl.entries
}

// Filter returns entries matching category and/or key; empty string
// matches anything.
func (sl *SessionLog) Filter(category, key string) []SessionEntry {
	var out []SessionEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many entries match category+key.
func (sl *SessionLog) Count(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key.
func (sl *SessionLog) LastOf(category, key string) (SessionEntry, bool) {
	matches := sl.Filter(category, key)
	if len(matches) == 0 {
		return SessionEntry{}, false
	}
	return matches[len(matches)-1], true
}

// HasEntry reports whether any entry matches category, key, and value
// substring.
func (sl *SessionLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as one string for reports and t.Log.
func (sl *SessionLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
