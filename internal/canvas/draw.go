package canvas

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

// ftPerCell: one grid cell spans 5 ft of world distance.
const ftPerCell = 5.0

// Draw renders the DM view: map, grid overlay, entities, pending
// ghost, context menu and HUD. Grid and entities go through the same
// camera transform, so nothing drifts relative to the map at any zoom.
func (c *Canvas) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 18, G: 16, B: 20, A: 255})

	c.drawMap(screen)
	c.drawGrid(screen)
	c.drawLights(screen)
	c.drawTraps(screen)
	c.drawPois(screen)
	c.drawTokens(screen)
	c.drawPendingGhost(screen)
	c.drawMenu(screen)
	c.drawHUD(screen)
}

// Layout reports the fixed container size.
func (c *Canvas) Layout(_, _ int) (int, int) {
	return int(c.container.X), int(c.container.Y)
}

func (c *Canvas) drawMap(screen *ebiten.Image) {
	s := c.cam.EffectiveScale()
	if c.mapImage != nil {
		opts := &ebiten.DrawImageOptions{}
		opts.GeoM.Scale(s, s)
		opts.GeoM.Translate(c.cam.PanX, c.cam.PanY)
		screen.DrawImage(c.mapImage, opts)
		return
	}
	// No raster loaded: parchment placeholder at map extent.
	tl := c.cam.ToViewport(Point{})
	vector.FillRect(screen, float32(tl.X), float32(tl.Y),
		float32(c.mapInfo.Width*s), float32(c.mapInfo.Height*s),
		color.RGBA{R: 52, G: 48, B: 40, A: 255}, false)
}

func (c *Canvas) drawGrid(screen *ebiten.Image) {
	if c.mapInfo.Grid == GridNone {
		return
	}
	cell := c.mapInfo.EffectiveCellSize()
	lineCol := color.RGBA{R: 110, G: 104, B: 92, A: 90}
	switch c.mapInfo.Grid {
	case GridSquare:
		// Start one line before the origin so the strip between image
		// edge and origin is ruled too.
		x0 := math.Mod(c.mapInfo.OriginX, cell)
		if x0 > 0 {
			x0 -= cell
		}
		for x := x0; x <= c.mapInfo.Width; x += cell {
			a := c.cam.ToViewport(Point{X: x, Y: 0})
			b := c.cam.ToViewport(Point{X: x, Y: c.mapInfo.Height})
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, lineCol, false)
		}
		y0 := math.Mod(c.mapInfo.OriginY, cell)
		if y0 > 0 {
			y0 -= cell
		}
		for y := y0; y <= c.mapInfo.Height; y += cell {
			a := c.cam.ToViewport(Point{X: 0, Y: y})
			b := c.cam.ToViewport(Point{X: c.mapInfo.Width, Y: y})
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, lineCol, false)
		}
	case GridHex:
		c.drawHexGrid(screen, cell, lineCol)
	}
}

// drawHexGrid strokes pointy-top hexagons with the configured cell
// size as the hex width.
func (c *Canvas) drawHexGrid(screen *ebiten.Image, cell float64, lineCol color.RGBA) {
	r := cell / 2
	hexW := r * math.Sqrt(3)
	for row := 0; ; row++ {
		cy := c.mapInfo.OriginY + float64(row)*1.5*r
		if cy > c.mapInfo.Height+r {
			break
		}
		offset := 0.0
		if row%2 == 1 {
			offset = hexW / 2
		}
		for col := 0; ; col++ {
			cx := c.mapInfo.OriginX + offset + float64(col)*hexW
			if cx > c.mapInfo.Width+r {
				break
			}
			c.strokeHex(screen, cx, cy, r, lineCol)
		}
	}
}

func (c *Canvas) strokeHex(screen *ebiten.Image, cx, cy, r float64, lineCol color.RGBA) {
	for i := 0; i < 6; i++ {
		a0 := math.Pi/6 + float64(i)*math.Pi/3
		a1 := math.Pi/6 + float64(i+1)*math.Pi/3
		p0 := c.cam.ToViewport(Point{X: cx + r*math.Cos(a0), Y: cy + r*math.Sin(a0)})
		p1 := c.cam.ToViewport(Point{X: cx + r*math.Cos(a1), Y: cy + r*math.Sin(a1)})
		vector.StrokeLine(screen, float32(p0.X), float32(p0.Y), float32(p1.X), float32(p1.Y), 1, lineCol, false)
	}
}

// ftToPx converts a radius in feet to image pixels on this map.
func (c *Canvas) ftToPx(ft float64) float64 {
	return ft / ftPerCell * c.mapInfo.EffectiveCellSize()
}

func (c *Canvas) entityDrawPos(e Placeable) Point {
	if c.drag != nil && c.drag.target == e {
		return c.drag.current
	}
	return e.Position(&c.mapInfo)
}

func (c *Canvas) drawLights(screen *ebiten.Image) {
	s := c.cam.EffectiveScale()
	for _, l := range c.reg.Lights() {
		pos := c.cam.ToViewport(c.entityDrawPos(l))
		tint := parseHexColor(l.Color, colornames.Orange)
		if l.Active {
			dimR := float32(c.ftToPx(l.DimFt) * s)
			brightR := float32(c.ftToPx(l.BrightFt) * s)
			vector.FillCircle(screen, float32(pos.X), float32(pos.Y), dimR,
				color.RGBA{R: tint.R, G: tint.G, B: tint.B, A: 26}, false)
			vector.FillCircle(screen, float32(pos.X), float32(pos.Y), brightR,
				color.RGBA{R: tint.R, G: tint.G, B: tint.B, A: 48}, false)
		}
		core := tint
		if !l.Active {
			core = color.RGBA{R: 90, G: 90, B: 90, A: 255}
		}
		vector.FillCircle(screen, float32(pos.X), float32(pos.Y), 5, core, false)
		vector.StrokeCircle(screen, float32(pos.X), float32(pos.Y), 5, 1,
			color.RGBA{R: 20, G: 20, B: 20, A: 200}, false)
	}
}

func (c *Canvas) drawTraps(screen *ebiten.Image) {
	cell := c.mapInfo.EffectiveCellSize()
	s := c.cam.EffectiveScale()
	half := float32(cell * s * 0.3)
	for _, t := range c.reg.Traps() {
		pos := c.cam.ToViewport(c.entityDrawPos(t))
		x, y := float32(pos.X), float32(pos.Y)
		col := colornames.Orangered
		if t.Triggered {
			col = colornames.Gray
		}
		// Triangle outline.
		vector.StrokeLine(screen, x, y-half, x+half, y+half, 1.5, col, false)
		vector.StrokeLine(screen, x+half, y+half, x-half, y+half, 1.5, col, false)
		vector.StrokeLine(screen, x-half, y+half, x, y-half, 1.5, col, false)
		if !t.Visible {
			// DM-only marker: hollow eye-slash stand-in.
			vector.StrokeCircle(screen, x, y+half+5, 3, 1, colornames.Gray, false)
		}
	}
}

func (c *Canvas) drawPois(screen *ebiten.Image) {
	cell := c.mapInfo.EffectiveCellSize()
	s := c.cam.EffectiveScale()
	half := float32(cell * s * 0.28)
	for _, p := range c.reg.Pois() {
		pos := c.cam.ToViewport(c.entityDrawPos(p))
		x, y := float32(pos.X), float32(pos.Y)
		col := parseHexColor(p.Color, colornames.Skyblue)
		// Diamond.
		vector.StrokeLine(screen, x-half, y, x, y-half, 1.5, col, false)
		vector.StrokeLine(screen, x, y-half, x+half, y, 1.5, col, false)
		vector.StrokeLine(screen, x+half, y, x, y+half, 1.5, col, false)
		vector.StrokeLine(screen, x, y+half, x-half, y, 1.5, col, false)
		if p.Name != "" {
			ebitenutil.DebugPrintAt(screen, p.Name, int(x)+int(half)+3, int(y)-6)
		}
	}
}

func (c *Canvas) drawTokens(screen *ebiten.Image) {
	cell := c.mapInfo.EffectiveCellSize()
	s := c.cam.EffectiveScale()
	for _, t := range c.reg.Tokens() {
		pos := c.cam.ToViewport(c.entityDrawPos(t))
		x, y := float32(pos.X), float32(pos.Y)
		r := float32(t.Size.CellSpan() * cell * s / 2)
		if r < 6 {
			r = 6
		}
		col := parseHexColor(t.Color, colornames.Crimson)

		// Light halo badge under the body.
		if badge := BadgeState(t.LightRadiusFt > 0, t.LightActive); badge == BadgeLit {
			haloR := float32(c.ftToPx(t.LightRadiusFt) * s)
			vector.FillCircle(screen, x, y, haloR, color.RGBA{R: 255, G: 200, B: 90, A: 30}, false)
		} else if badge == BadgeUnlit {
			vector.StrokeCircle(screen, x, y, r+3, 1, color.RGBA{R: 255, G: 200, B: 90, A: 120}, false)
		}

		vector.FillCircle(screen, x, y, r, col, false)
		edge := color.RGBA{R: 20, G: 20, B: 20, A: 220}
		if !t.Visible {
			// Hidden from players: gray ring instead of black.
			edge = color.RGBA{R: 150, G: 150, B: 150, A: 220}
		}
		vector.StrokeCircle(screen, x, y, r, 2, edge, false)
		if t.Name != "" {
			ebitenutil.DebugPrintAt(screen, t.Name, int(x)-len(t.Name)*3, int(y)+int(r)+3)
		}
	}
}

func (c *Canvas) drawPendingGhost(screen *ebiten.Image) {
	x, y := float32(c.cursor.X), float32(c.cursor.Y)
	switch {
	case c.pendingLight != "":
		d := DefaultsFor(c.pendingLight)
		tint := parseHexColor(d.Color, colornames.Orange)
		vector.StrokeCircle(screen, x, y, 7, 1.5, tint, false)
	case c.pendingToken != nil:
		// Ghost snaps to the hovered cell so the drop target is clear.
		snapped := c.mapInfo.SnapPoint(c.cam.ToImage(c.cursor))
		center := c.cam.ToViewport(snapped.Center)
		r := float32(c.pendingToken.Size.CellSpan() * c.mapInfo.EffectiveCellSize() * c.cam.EffectiveScale() / 2)
		if r < 6 {
			r = 6
		}
		vector.StrokeCircle(screen, float32(center.X), float32(center.Y), r, 1.5,
			color.RGBA{R: 220, G: 220, B: 220, A: 160}, false)
	}
}

func (c *Canvas) drawMenu(screen *ebiten.Image) {
	if c.menu == nil {
		return
	}
	items := menuItems(c.menu.kind)
	x := float32(c.menu.at.X)
	y := float32(c.menu.at.Y)
	h := float32(len(items)) * menuRowH
	vector.FillRect(screen, x, y, menuW, h, color.RGBA{R: 24, G: 26, B: 30, A: 235}, false)
	vector.StrokeRect(screen, x, y, menuW, h, 1, color.RGBA{R: 120, G: 120, B: 130, A: 200}, false)
	for i, it := range items {
		ebitenutil.DebugPrintAt(screen, it.label, int(x)+6, int(y)+int(float32(i)*menuRowH)+3)
	}
}

func (c *Canvas) drawHUD(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("%s  zoom: %.2fx", c.mapInfo.Name, c.cam.Zoom),
		"1/2/3=light  Esc=cancel  R=reset view  C=copy report",
		fmt.Sprintf("mode: %s", c.Mode()),
	}
	if c.pendingToken != nil {
		lines = append(lines, fmt.Sprintf("placing: %s %q", c.pendingToken.Kind, c.pendingToken.Name))
	}
	if c.pendingLight != "" {
		lines = append(lines, fmt.Sprintf("placing: %s", c.pendingLight))
	}
	const lineH = 14
	baseY := int(c.container.Y) - lineH*len(lines) - 6
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, 6, baseY+i*lineH)
	}
}

// parseHexColor decodes "#rrggbb", falling back when malformed.
func parseHexColor(s string, fallback color.RGBA) color.RGBA {
	if len(s) != 7 || s[0] != '#' {
		return fallback
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return fallback
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
