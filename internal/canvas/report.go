package canvas

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// SessionReport renders a plain-text summary of the current map state
// and the interaction log, for pasting into session notes or a bug
// report.
func (c *Canvas) SessionReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- battlemap session report ---\n")
	fmt.Fprintf(&b, "map=%s (%s) %gx%g grid=%s cell=%g\n",
		c.mapInfo.Name, c.mapInfo.ID, c.mapInfo.Width, c.mapInfo.Height,
		c.mapInfo.Grid, c.mapInfo.CellSize)
	fmt.Fprintf(&b, "tokens=%d lights=%d traps=%d pois=%d\n\n",
		len(c.reg.Tokens()), len(c.reg.Lights()), len(c.reg.Traps()), len(c.reg.Pois()))

	for _, t := range c.reg.Tokens() {
		vis := "hidden"
		if t.Visible {
			vis = "visible"
		}
		preset := "custom"
		if key, ok := MatchPreset(t.Vision); ok {
			preset = key
		}
		fmt.Fprintf(&b, "token %-10s %-16q (%.0f, %.0f) %s %s vision=%s\n",
			t.ID, t.Name, t.X, t.Y, t.Size, vis, preset)
	}
	for _, l := range c.reg.Lights() {
		state := "off"
		if l.Active {
			state = "on"
		}
		fmt.Fprintf(&b, "light %-10s %-8s (%.0f, %.0f) bright=%gft dim=%gft %s\n",
			l.ID, l.Type, l.X, l.Y, l.BrightFt, l.DimFt, state)
	}
	for _, t := range c.reg.Traps() {
		fmt.Fprintf(&b, "trap  %-10s %-16q cell (%d, %d) dc=%d triggered=%v\n",
			t.ID, t.Name, t.Col, t.Row, t.DC, t.Triggered)
	}
	for _, p := range c.reg.Pois() {
		fmt.Fprintf(&b, "poi   %-10s %-16q cell (%d, %d)\n", p.ID, p.Name, p.Col, p.Row)
	}

	b.WriteString("\n--- interaction log ---\n")
	b.WriteString(c.slog.Format())
	return b.String()
}

// CopyReport puts the session report on the system clipboard.
func (c *Canvas) CopyReport() error {
	return clipboard.WriteAll(c.SessionReport())
}
