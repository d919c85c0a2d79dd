package canvas

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// menuItem is one context-menu row.
type menuItem struct {
	label string
	act   func(c *Canvas, id string)
}

func menuItems(kind Kind) []menuItem {
	switch kind {
	case KindToken:
		return []menuItem{
			{"Toggle visibility", func(c *Canvas, id string) { c.ToggleTokenVisibility(id) }},
			{"Delete", func(c *Canvas, id string) { c.DeleteEntity(KindToken, id) }},
		}
	case KindLight:
		return []menuItem{
			{"Toggle active", func(c *Canvas, id string) { c.ToggleLightActive(id) }},
			{"Delete", func(c *Canvas, id string) { c.DeleteEntity(KindLight, id) }},
		}
	case KindTrap:
		return []menuItem{
			{"Toggle triggered", func(c *Canvas, id string) { c.ToggleTrapTriggered(id) }},
			{"Toggle visibility", func(c *Canvas, id string) { c.ToggleTrapVisible(id) }},
			{"Delete", func(c *Canvas, id string) { c.DeleteEntity(KindTrap, id) }},
		}
	case KindPoi:
		return []menuItem{
			{"Toggle visibility", func(c *Canvas, id string) { c.TogglePoiVisible(id) }},
			{"Delete", func(c *Canvas, id string) { c.DeleteEntity(KindPoi, id) }},
		}
	default:
		return nil
	}
}

// Update is the ebiten frame hook: drain completions, then translate
// pointer and key state into engine operations.
func (c *Canvas) Update() error {
	c.Tick()

	cx, cy := ebiten.CursorPosition()
	prev := c.cursor
	c.cursor = Point{X: float64(cx), Y: float64(cy)}

	c.handleKeys()

	if _, wy := ebiten.Wheel(); wy != 0 && c.drag == nil {
		c.cam.ApplyWheel(wy, c.cursor)
	}

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)

	switch {
	case left && !c.prevLeft:
		c.onLeftPress()
	case left && c.prevLeft:
		if c.drag != nil {
			c.DragTo(c.cursor)
		} else if c.panning {
			c.cam.PanBy(c.cursor.X-prev.X, c.cursor.Y-prev.Y)
		}
	case !left && c.prevLeft:
		if c.drag != nil {
			c.EndDrag()
		}
		c.EndPan()
	}

	if right && !c.prevRight {
		c.onRightPress()
	}

	c.prevLeft = left
	c.prevRight = right
	return nil
}

func (c *Canvas) onLeftPress() {
	if c.menu != nil {
		if item, id, ok := c.menuItemAt(c.cursor); ok {
			item.act(c, id)
			return
		}
		// A click outside the menu dismisses it and nothing else.
		c.ClickCanvas(c.cursor)
		return
	}
	if c.pendingToken != nil || c.pendingLight != "" {
		c.ClickCanvas(c.cursor)
		return
	}
	if kind, id, ok := c.hitTest(c.cursor); ok {
		c.StartDrag(kind, id, c.cursor)
		return
	}
	c.StartPan()
}

func (c *Canvas) onRightPress() {
	if c.drag != nil {
		return
	}
	if kind, id, ok := c.hitTest(c.cursor); ok {
		c.OpenMenu(kind, id, c.cursor)
		return
	}
	c.CloseMenu()
}

// handleKeys processes edge-triggered keyboard shortcuts by comparing
// against the previous frame's key set.
func (c *Canvas) handleKeys() {
	current := map[ebiten.Key]bool{}
	pressedOnce := func(k ebiten.Key) bool {
		current[k] = ebiten.IsKeyPressed(k)
		return current[k] && !c.prevKeys[k]
	}

	if pressedOnce(ebiten.KeyEscape) {
		c.CloseMenu()
		c.ClearPending()
	}
	if pressedOnce(ebiten.KeyR) {
		c.cam.Reset()
	}
	if pressedOnce(ebiten.KeyEqual) {
		c.cam.ZoomIn()
	}
	if pressedOnce(ebiten.KeyMinus) {
		c.cam.ZoomOut()
	}
	if pressedOnce(ebiten.Key1) {
		c.SelectLightTemplate(LightTorch)
	}
	if pressedOnce(ebiten.Key2) {
		c.SelectLightTemplate(LightLantern)
	}
	if pressedOnce(ebiten.Key3) {
		c.SelectLightTemplate(LightCandle)
	}
	if pressedOnce(ebiten.KeyC) {
		if err := c.CopyReport(); err != nil {
			c.log.Warnw("copy session report failed", "error", err)
		}
	}

	c.prevKeys = current
}

// hitTest finds the topmost entity under a viewport point. Tokens are
// drawn last, so they are checked first; then markers, traps, lights.
func (c *Canvas) hitTest(viewportPt Point) (Kind, string, bool) {
	cell := c.mapInfo.EffectiveCellSize()
	scale := c.cam.EffectiveScale()

	hit := func(pos Point, radius float64) bool {
		vp := c.cam.ToViewport(pos)
		dx := viewportPt.X - vp.X
		dy := viewportPt.Y - vp.Y
		return dx*dx+dy*dy <= radius*radius
	}

	tokens := c.reg.Tokens()
	for i := len(tokens) - 1; i >= 0; i-- {
		t := tokens[i]
		r := t.Size.CellSpan() * cell * scale / 2
		if r < minHitRadius {
			r = minHitRadius
		}
		if hit(Point{X: t.X, Y: t.Y}, r) {
			return KindToken, t.ID, true
		}
	}
	pois := c.reg.Pois()
	for i := len(pois) - 1; i >= 0; i-- {
		p := pois[i]
		if hit(p.Position(&c.mapInfo), cellHitFraction*cell*scale) {
			return KindPoi, p.ID, true
		}
	}
	traps := c.reg.Traps()
	for i := len(traps) - 1; i >= 0; i-- {
		t := traps[i]
		if hit(t.Position(&c.mapInfo), cellHitFraction*cell*scale) {
			return KindTrap, t.ID, true
		}
	}
	lights := c.reg.Lights()
	for i := len(lights) - 1; i >= 0; i-- {
		l := lights[i]
		if hit(Point{X: l.X, Y: l.Y}, minHitRadius) {
			return KindLight, l.ID, true
		}
	}
	return "", "", false
}

const (
	minHitRadius    = 10.0
	cellHitFraction = 0.4
)

// menuItemAt returns the menu row under a viewport point.
func (c *Canvas) menuItemAt(pt Point) (menuItem, string, bool) {
	if c.menu == nil {
		return menuItem{}, "", false
	}
	items := menuItems(c.menu.kind)
	for i, it := range items {
		x0 := c.menu.at.X
		y0 := c.menu.at.Y + float64(i)*menuRowH
		if pt.X >= x0 && pt.X <= x0+menuW && pt.Y >= y0 && pt.Y < y0+menuRowH {
			return it, c.menu.id, true
		}
	}
	return menuItem{}, "", false
}

const (
	menuW    = 140.0
	menuRowH = 18.0
)
