package canvas

// contextMenu is the right-click menu anchored to one entity. While
// open it outranks every other interaction mode and swallows the next
// canvas click.
type contextMenu struct {
	kind Kind
	id   string
	at   Point // viewport-space anchor
}

// OpenMenu opens the context menu for an entity. A drag in progress
// keeps pointer ownership, so the menu is refused during one.
func (c *Canvas) OpenMenu(kind Kind, id string, at Point) bool {
	if c.drag != nil {
		c.slog.Add("menu", "rejected", "drag active")
		return false
	}
	if _, ok := c.reg.FindByID(kind, id); !ok {
		return false
	}
	c.menu = &contextMenu{kind: kind, id: id, at: at}
	c.slog.Add("menu", "open", "%s %s", kind, id)
	return true
}

// CloseMenu dismisses the menu if open.
func (c *Canvas) CloseMenu() {
	if c.menu != nil {
		c.slog.Add("menu", "close", "%s %s", c.menu.kind, c.menu.id)
	}
	c.menu = nil
}

// MenuTarget returns the open menu's entity, if any.
func (c *Canvas) MenuTarget() (Kind, string, Point, bool) {
	if c.menu == nil {
		return "", "", Point{}, false
	}
	return c.menu.kind, c.menu.id, c.menu.at, true
}
