package canvas

import "context"

// TemplateKind is the declared kind of a token template. Only the
// kinds below have backend placement support; anything else is a
// logged no-op at click time.
type TemplateKind string

const (
	TemplateMonster TemplateKind = "monster"
	TemplateTrap    TemplateKind = "trap"
	TemplateMarker  TemplateKind = "marker"
)

// TokenTemplate is a chosen catalog entry awaiting a canvas click. It
// is not an entity until the click materializes it through the store.
type TokenTemplate struct {
	Kind          TemplateKind
	Name          string
	Size          SizeClass
	Color         string
	Icon          string
	DC            int
	CreatureID    string
	Vision        VisionRanges
	LightRadiusFt float64
}

// SelectTokenTemplate arms token placement and clears any pending
// light: at most one template family is pending at a time.
func (c *Canvas) SelectTokenTemplate(tpl TokenTemplate) {
	if c.drag != nil {
		c.slog.Add("mode", "rejected", "placement while drag active")
		return
	}
	c.pendingLight = ""
	copied := tpl
	c.pendingToken = &copied
	c.slog.Add("place", "pending_token", "%s %q", tpl.Kind, tpl.Name)
}

// SelectLightTemplate arms light placement and clears any pending
// token.
func (c *Canvas) SelectLightTemplate(t LightType) {
	if c.drag != nil {
		c.slog.Add("mode", "rejected", "placement while drag active")
		return
	}
	c.pendingToken = nil
	c.pendingLight = t
	c.slog.Add("place", "pending_light", "%s", t)
}

// ClearPending cancels any pending placement.
func (c *Canvas) ClearPending() {
	if c.pendingToken != nil || c.pendingLight != "" {
		c.slog.Add("place", "cleared", "")
	}
	c.pendingToken = nil
	c.pendingLight = ""
}

// PendingToken returns the armed token template, if any.
func (c *Canvas) PendingToken() *TokenTemplate { return c.pendingToken }

// PendingLight returns the armed light type, or "".
func (c *Canvas) PendingLight() LightType { return c.pendingLight }

// ClickCanvas commits a pending placement at a viewport point. An open
// context menu takes priority and is dismissed instead. Token
// placement stays armed afterwards so the same template can be stamped
// repeatedly; light placement disarms after one.
func (c *Canvas) ClickCanvas(viewportPt Point) {
	if c.menu != nil {
		c.CloseMenu()
		c.slog.Add("mode", "click_dismissed_menu", "")
		return
	}
	if c.drag != nil {
		// Unreachable through pointer handlers; drags own the pointer.
		c.slog.Add("mode", "rejected", "click while drag active")
		return
	}
	imagePt := c.cam.ToImage(viewportPt)

	if c.pendingLight != "" {
		// Lights are continuous: no snapping, ever.
		c.placeLight(c.pendingLight, imagePt)
		c.pendingLight = ""
		return
	}
	if c.pendingToken != nil {
		c.placeFromTemplate(*c.pendingToken, imagePt)
		return
	}
}

func (c *Canvas) placeLight(t LightType, at Point) {
	d := DefaultsFor(t)
	l := &LightSource{
		MapID:    c.mapInfo.ID,
		Name:     string(t),
		X:        at.X,
		Y:        at.Y,
		Type:     t,
		BrightFt: d.BrightFt,
		DimFt:    d.DimFt,
		Color:    d.Color,
		Active:   true,
	}
	c.slog.Add("place", "light", "%s at (%.1f, %.1f)", t, at.X, at.Y)
	c.withOptimisticUpdate("create-light", nil, func(ctx context.Context) (completion, error) {
		created, err := c.store.CreateLight(ctx, l)
		if err != nil {
			return nil, err
		}
		return func(cv *Canvas) { cv.reg.UpsertLight(created) }, nil
	}, KindLight)
}

func (c *Canvas) placeFromTemplate(tpl TokenTemplate, at Point) {
	// All template kinds snap on the origin-anchored grid, the same
	// anchor the grid overlay and drag release use.
	snapped := c.mapInfo.SnapPoint(at)
	switch tpl.Kind {
	case TemplateTrap:
		t := &Trap{
			MapID:   c.mapInfo.ID,
			Name:    tpl.Name,
			Col:     snapped.Col,
			Row:     snapped.Row,
			DC:      tpl.DC,
			Visible: false,
		}
		c.slog.Add("place", "trap", "%q at cell (%d, %d)", tpl.Name, snapped.Col, snapped.Row)
		c.withOptimisticUpdate("create-trap", nil, func(ctx context.Context) (completion, error) {
			created, err := c.store.CreateTrap(ctx, t)
			if err != nil {
				return nil, err
			}
			return func(cv *Canvas) { cv.reg.UpsertTrap(created) }, nil
		}, KindTrap)

	case TemplateMarker:
		p := &PointOfInterest{
			MapID:   c.mapInfo.ID,
			Name:    tpl.Name,
			Icon:    tpl.Icon,
			Color:   tpl.Color,
			Col:     snapped.Col,
			Row:     snapped.Row,
			Visible: false,
		}
		c.slog.Add("place", "poi", "%q at cell (%d, %d)", tpl.Name, snapped.Col, snapped.Row)
		c.withOptimisticUpdate("create-poi", nil, func(ctx context.Context) (completion, error) {
			created, err := c.store.CreatePoi(ctx, p)
			if err != nil {
				return nil, err
			}
			return func(cv *Canvas) { cv.reg.UpsertPoi(created) }, nil
		}, KindPoi)

	case TemplateMonster:
		if tpl.CreatureID == "" {
			// Precondition failure: abandoned before any network call.
			c.log.Warnw("monster template missing creature link, placement abandoned", "name", tpl.Name)
			c.slog.Add("place", "abandoned", "monster %q has no creature link", tpl.Name)
			return
		}
		tok := &Token{
			MapID:         c.mapInfo.ID,
			Name:          tpl.Name,
			X:             snapped.Center.X,
			Y:             snapped.Center.Y,
			Size:          tpl.Size,
			Color:         tpl.Color,
			CreatureID:    tpl.CreatureID,
			Vision:        tpl.Vision.Clone(),
			LightRadiusFt: tpl.LightRadiusFt,
		}
		c.slog.Add("place", "token", "%q at cell (%d, %d)", tpl.Name, snapped.Col, snapped.Row)
		c.withOptimisticUpdate("create-token", nil, func(ctx context.Context) (completion, error) {
			// Two-phase: the roster entry must exist before the token
			// can reference it. A roster failure aborts the create.
			if err := c.store.EnsureRosterEntry(ctx, c.mapInfo.ID, tpl.CreatureID); err != nil {
				return nil, err
			}
			created, err := c.store.CreateToken(ctx, tok)
			if err != nil {
				// A stray roster entry may remain; the backend ensure
				// is idempotent so the next attempt reuses it.
				return nil, err
			}
			return func(cv *Canvas) { cv.reg.UpsertToken(created) }, nil
		}, KindToken)

	default:
		c.log.Warnw("token template kind has no placement support", "kind", tpl.Kind, "name", tpl.Name)
		c.slog.Add("place", "unsupported", "kind %q", tpl.Kind)
	}
}
