package canvas

import "context"

// dragSession is the interval between pointer-down on an entity and
// pointer-up. At most one exists; its target is mutated optimistically
// every pointer-move and persisted once on release.
type dragSession struct {
	target Placeable
	kind   Kind
	id     string
	// offset is pointer-to-entity in image space, captured at
	// drag-start so the entity does not jump to the pointer.
	offset Point
	// current is the continuous image-space position, kept even for
	// cell-indexed kinds so they render smoothly mid-drag.
	current Point
}

// StartDrag begins relocating an existing entity from a primary-button
// press at a viewport point. Entry is rejected while any drag,
// placement, or menu is active.
func (c *Canvas) StartDrag(kind Kind, id string, viewportPt Point) bool {
	if c.drag != nil {
		c.slog.Add("drag", "rejected", "%s %s: drag already active on %s %s", kind, id, c.drag.kind, c.drag.id)
		return false
	}
	if c.pendingToken != nil || c.pendingLight != "" {
		c.slog.Add("drag", "rejected", "%s %s: placement pending", kind, id)
		return false
	}
	if c.menu != nil {
		c.slog.Add("drag", "rejected", "%s %s: context menu open", kind, id)
		return false
	}
	target, ok := c.reg.FindByID(kind, id)
	if !ok {
		c.slog.Add("drag", "rejected", "%s %s: not in registry", kind, id)
		return false
	}
	imagePt := c.cam.ToImage(viewportPt)
	pos := target.Position(&c.mapInfo)
	c.drag = &dragSession{
		target:  target,
		kind:    kind,
		id:      id,
		offset:  Point{X: pos.X - imagePt.X, Y: pos.Y - imagePt.Y},
		current: pos,
	}
	c.slog.Add("drag", "start", "%s %s", kind, id)
	return true
}

// DragTo applies one pointer-move: a purely local, optimistic position
// update. No network traffic happens per frame.
func (c *Canvas) DragTo(viewportPt Point) {
	d := c.drag
	if d == nil {
		return
	}
	imagePt := c.cam.ToImage(viewportPt)
	d.current = Point{X: imagePt.X + d.offset.X, Y: imagePt.Y + d.offset.Y}
	// Cell-indexed kinds recompute their cell each frame here.
	d.target.SetImagePosition(d.current, &c.mapInfo)
	c.publish()
}

// Dragging returns the kind and id of the active drag session.
func (c *Canvas) Dragging() (Kind, string, bool) {
	if c.drag == nil {
		return "", "", false
	}
	return c.drag.kind, c.drag.id, true
}

// DragPosition returns the continuous image-space position of the
// dragged entity, for rendering cell-indexed kinds smoothly.
func (c *Canvas) DragPosition() (Point, bool) {
	if c.drag == nil {
		return Point{}, false
	}
	return c.drag.current, true
}

// EndDrag finalizes the session on pointer-up with the kind-specific
// persistence call. Failures roll the whole kind back from the store.
func (c *Canvas) EndDrag() {
	d := c.drag
	if d == nil {
		return
	}
	c.drag = nil

	switch d.kind {
	case KindToken:
		tok := d.target.(*Token)
		snapped := c.mapInfo.SnapPoint(d.current)
		c.slog.Add("drag", "end", "token %s to cell (%d, %d)", d.id, snapped.Col, snapped.Row)
		c.withOptimisticUpdate("move-token",
			func() {
				tok.X = snapped.Center.X
				tok.Y = snapped.Center.Y
			},
			func(ctx context.Context) (completion, error) {
				moved, err := c.store.MoveToken(ctx, d.id, snapped.Col, snapped.Row)
				if err != nil {
					return nil, err
				}
				return func(cv *Canvas) { cv.reg.UpsertToken(moved) }, nil
			}, KindToken)

	case KindLight:
		l := d.target.(*LightSource)
		x, y := roundCoord(d.current.X), roundCoord(d.current.Y)
		c.slog.Add("drag", "end", "light %s to (%.0f, %.0f)", d.id, x, y)
		c.withOptimisticUpdate("move-light",
			func() {
				l.X = x
				l.Y = y
			},
			func(ctx context.Context) (completion, error) {
				moved, err := c.store.MoveLight(ctx, d.id, x, y)
				if err != nil {
					return nil, err
				}
				return func(cv *Canvas) { cv.reg.UpsertLight(moved) }, nil
			}, KindLight)

	case KindTrap:
		t := d.target.(*Trap)
		// Cells are already current from the per-frame recompute.
		// Capture them now; the closure may run off-goroutine.
		col, row := t.Col, t.Row
		c.slog.Add("drag", "end", "trap %s to cell (%d, %d)", d.id, col, row)
		c.withOptimisticUpdate("move-trap", nil,
			func(ctx context.Context) (completion, error) {
				moved, err := c.store.MoveTrap(ctx, d.id, col, row)
				if err != nil {
					return nil, err
				}
				return func(cv *Canvas) { cv.reg.UpsertTrap(moved) }, nil
			}, KindTrap)

	case KindPoi:
		p := d.target.(*PointOfInterest)
		col, row := p.Col, p.Row
		c.slog.Add("drag", "end", "poi %s to cell (%d, %d)", d.id, col, row)
		c.withOptimisticUpdate("move-poi", nil,
			func(ctx context.Context) (completion, error) {
				moved, err := c.store.MovePoi(ctx, d.id, col, row)
				if err != nil {
					return nil, err
				}
				return func(cv *Canvas) { cv.reg.UpsertPoi(moved) }, nil
			}, KindPoi)
	}
}

// StartPan begins a pan gesture. Pan has the lowest priority: any
// menu, drag, or pending placement blocks it.
func (c *Canvas) StartPan() bool {
	if !c.CanPan() {
		c.slog.Add("mode", "rejected", "pan while %s", c.Mode())
		return false
	}
	c.panning = true
	return true
}

// EndPan finishes a pan gesture.
func (c *Canvas) EndPan() { c.panning = false }
