package canvas

// ProjectedEntity is the minimal rendering shape one visible entity
// exposes to the player display. DM-only attributes (notes, exact
// vision numbers, trap DCs) are absent from the type itself, so they
// cannot leak.
type ProjectedEntity struct {
	Kind     Kind    `json:"kind"`
	ID       string  `json:"id"`
	X        float64 `json:"x"` // image-space pixels
	Y        float64 `json:"y"`
	Color    string  `json:"color,omitempty"`
	Icon     string  `json:"icon,omitempty"`
	Size     string  `json:"size,omitempty"`
	Name     string  `json:"name,omitempty"`
	BrightFt float64 `json:"brightFt,omitempty"` // active lights only
	DimFt    float64 `json:"dimFt,omitempty"`
}

// Projection is the read-only view the player-facing display consumes.
// Hidden entities are excluded by construction, not filtered by the
// receiver.
type Projection struct {
	MapID    string            `json:"mapId"`
	Grid     GridKind          `json:"gridKind"`
	CellSize float64           `json:"cellSize"`
	Width    float64           `json:"width"`
	Height   float64           `json:"height"`
	Entities []ProjectedEntity `json:"entities"`
}

// Projection builds the current player view: visible tokens, active
// lights, and player-visible traps and markers, all in image-space
// pixel coordinates.
func (c *Canvas) Projection() Projection {
	p := Projection{
		MapID:    c.mapInfo.ID,
		Grid:     c.mapInfo.Grid,
		CellSize: c.mapInfo.CellSize,
		Width:    c.mapInfo.Width,
		Height:   c.mapInfo.Height,
		Entities: []ProjectedEntity{},
	}
	for _, t := range c.reg.Tokens() {
		if !t.Visible {
			continue
		}
		e := ProjectedEntity{
			Kind:  KindToken,
			ID:    t.ID,
			X:     t.X,
			Y:     t.Y,
			Color: t.Color,
			Size:  string(t.Size),
			Name:  t.Name,
		}
		if t.LightRadiusFt > 0 && t.LightActive {
			e.BrightFt = t.LightRadiusFt
			e.DimFt = t.LightRadiusFt * 2
		}
		p.Entities = append(p.Entities, e)
	}
	for _, l := range c.reg.Lights() {
		if !l.Active {
			continue
		}
		p.Entities = append(p.Entities, ProjectedEntity{
			Kind:     KindLight,
			ID:       l.ID,
			X:        l.X,
			Y:        l.Y,
			Color:    l.Color,
			BrightFt: l.BrightFt,
			DimFt:    l.DimFt,
		})
	}
	for _, t := range c.reg.Traps() {
		if !t.Visible {
			continue
		}
		pos := t.Position(&c.mapInfo)
		p.Entities = append(p.Entities, ProjectedEntity{
			Kind: KindTrap,
			ID:   t.ID,
			X:    pos.X,
			Y:    pos.Y,
			Name: t.Name,
		})
	}
	for _, poi := range c.reg.Pois() {
		if !poi.Visible {
			continue
		}
		pos := poi.Position(&c.mapInfo)
		p.Entities = append(p.Entities, ProjectedEntity{
			Kind:  KindPoi,
			ID:    poi.ID,
			X:     pos.X,
			Y:     pos.Y,
			Color: poi.Color,
			Icon:  poi.Icon,
			Name:  poi.Name,
		})
	}
	return p
}
