package canvas

import "context"

// DeleteEntity removes an entity optimistically: it leaves the
// registry before the delete call resolves and is restored by reload
// if the call fails.
func (c *Canvas) DeleteEntity(kind Kind, id string) {
	if _, ok := c.reg.FindByID(kind, id); !ok {
		return
	}
	c.CloseMenu()
	c.slog.Add("menu", "delete", "%s %s", kind, id)
	switch kind {
	case KindToken:
		c.withOptimisticUpdate("delete-token",
			func() { c.reg.RemoveToken(id) },
			func(ctx context.Context) (completion, error) {
				return nil, c.store.DeleteToken(ctx, id)
			}, KindToken)
	case KindLight:
		c.withOptimisticUpdate("delete-light",
			func() { c.reg.RemoveLight(id) },
			func(ctx context.Context) (completion, error) {
				return nil, c.store.DeleteLight(ctx, id)
			}, KindLight)
	case KindTrap:
		c.withOptimisticUpdate("delete-trap",
			func() { c.reg.RemoveTrap(id) },
			func(ctx context.Context) (completion, error) {
				return nil, c.store.DeleteTrap(ctx, id)
			}, KindTrap)
	case KindPoi:
		c.withOptimisticUpdate("delete-poi",
			func() { c.reg.RemovePoi(id) },
			func(ctx context.Context) (completion, error) {
				return nil, c.store.DeletePoi(ctx, id)
			}, KindPoi)
	}
}

// ToggleTokenVisibility flips a token's visible-to-players flag.
func (c *Canvas) ToggleTokenVisibility(id string) {
	tok, ok := c.reg.TokenByID(id)
	if !ok {
		return
	}
	c.CloseMenu()
	c.withOptimisticUpdate("toggle-token-visibility",
		func() { tok.Visible = !tok.Visible },
		func(ctx context.Context) (completion, error) {
			updated, err := c.store.ToggleTokenVisibility(ctx, id)
			if err != nil {
				return nil, err
			}
			return func(cv *Canvas) { cv.reg.UpsertToken(updated) }, nil
		}, KindToken)
}

// ToggleLightActive flips a light on or off. Radii are retained while
// inactive so reactivation loses nothing.
func (c *Canvas) ToggleLightActive(id string) {
	l, ok := c.reg.LightByID(id)
	if !ok {
		return
	}
	c.CloseMenu()
	// Snapshot before handing off: the remote call may run on another
	// goroutine while the live struct keeps mutating here.
	upd := l.Clone()
	upd.Active = !upd.Active
	c.withOptimisticUpdate("toggle-light-active",
		func() { l.Active = upd.Active },
		func(ctx context.Context) (completion, error) {
			updated, err := c.store.UpdateLight(ctx, upd)
			if err != nil {
				return nil, err
			}
			return func(cv *Canvas) { cv.reg.UpsertLight(updated) }, nil
		}, KindLight)
}

// ToggleTrapTriggered flips a trap's triggered flag.
func (c *Canvas) ToggleTrapTriggered(id string) {
	t, ok := c.reg.TrapByID(id)
	if !ok {
		return
	}
	c.CloseMenu()
	upd := t.Clone()
	upd.Triggered = !upd.Triggered
	c.withOptimisticUpdate("toggle-trap-triggered",
		func() { t.Triggered = upd.Triggered },
		func(ctx context.Context) (completion, error) {
			updated, err := c.store.UpdateTrap(ctx, upd)
			if err != nil {
				return nil, err
			}
			return func(cv *Canvas) { cv.reg.UpsertTrap(updated) }, nil
		}, KindTrap)
}

// ToggleTrapVisible flips a trap's visible-to-players flag.
func (c *Canvas) ToggleTrapVisible(id string) {
	t, ok := c.reg.TrapByID(id)
	if !ok {
		return
	}
	c.CloseMenu()
	upd := t.Clone()
	upd.Visible = !upd.Visible
	c.withOptimisticUpdate("toggle-trap-visible",
		func() { t.Visible = upd.Visible },
		func(ctx context.Context) (completion, error) {
			updated, err := c.store.UpdateTrap(ctx, upd)
			if err != nil {
				return nil, err
			}
			return func(cv *Canvas) { cv.reg.UpsertTrap(updated) }, nil
		}, KindTrap)
}

// TogglePoiVisible flips a point of interest's visible-to-players
// flag.
func (c *Canvas) TogglePoiVisible(id string) {
	p, ok := c.reg.PoiByID(id)
	if !ok {
		return
	}
	c.CloseMenu()
	upd := p.Clone()
	upd.Visible = !upd.Visible
	c.withOptimisticUpdate("toggle-poi-visible",
		func() { p.Visible = upd.Visible },
		func(ctx context.Context) (completion, error) {
			updated, err := c.store.UpdatePoi(ctx, upd)
			if err != nil {
				return nil, err
			}
			return func(cv *Canvas) { cv.reg.UpsertPoi(updated) }, nil
		}, KindPoi)
}

// ApplyPreset overwrites all three of a token's vision ranges
// atomically through one update call.
func (c *Canvas) ApplyPreset(tokenID, presetKey string) {
	tok, ok := c.reg.TokenByID(tokenID)
	if !ok {
		return
	}
	ranges, ok := PresetRanges(presetKey)
	if !ok {
		c.log.Warnw("unknown vision preset", "preset", presetKey)
		return
	}
	c.slog.Add("vision", "preset", "%s on token %s", presetKey, tokenID)
	upd := tok.Clone()
	upd.Vision = ranges.Clone()
	c.withOptimisticUpdate("apply-vision-preset",
		func() { tok.Vision = ranges },
		func(ctx context.Context) (completion, error) {
			updated, err := c.store.UpdateToken(ctx, upd)
			if err != nil {
				return nil, err
			}
			return func(cv *Canvas) { cv.reg.UpsertToken(updated) }, nil
		}, KindToken)
}

// SetVisionRanges applies a manual edit of the range fields. Since the
// tuple will usually no longer match a preset, the selector falls back
// to "custom" by virtue of MatchPreset finding nothing.
func (c *Canvas) SetVisionRanges(tokenID string, ranges VisionRanges) {
	tok, ok := c.reg.TokenByID(tokenID)
	if !ok {
		return
	}
	c.slog.Add("vision", "manual", "token %s", tokenID)
	upd := tok.Clone()
	upd.Vision = ranges.Clone()
	c.withOptimisticUpdate("set-vision-ranges",
		func() { tok.Vision = ranges },
		func(ctx context.Context) (completion, error) {
			updated, err := c.store.UpdateToken(ctx, upd)
			if err != nil {
				return nil, err
			}
			return func(cv *Canvas) { cv.reg.UpsertToken(updated) }, nil
		}, KindToken)
}
