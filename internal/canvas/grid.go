package canvas

import "math"

// GridKind selects the overlay drawn on the map and whether snapping
// applies to token placement.
type GridKind string

const (
	GridNone   GridKind = "none"
	GridSquare GridKind = "square"
	GridHex    GridKind = "hex"
)

// defaultCellSize backs cell-indexed entities (traps, POIs) on maps
// with no configured grid, where the DM never sees the cells.
const defaultCellSize = 50.0

// MapInfo is the immutable-during-session map record. Grid
// configuration is read-only input; the engine never persists changes
// to it.
type MapInfo struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Width    float64  `json:"width"`  // image pixels
	Height   float64  `json:"height"` // image pixels
	Grid     GridKind `json:"gridKind"`
	CellSize float64  `json:"cellSize"` // pixels, > 0 whenever Grid != none
	OriginX  float64  `json:"gridOriginX"`
	OriginY  float64  `json:"gridOriginY"`
	ImageURL string   `json:"imageUrl,omitempty"` // background art, local path or URL
}

// EffectiveCellSize returns the configured cell size, falling back to
// a default for gridless maps so cell-indexed entities stay valid.
func (m *MapInfo) EffectiveCellSize() float64 {
	if m.Grid == GridNone || m.CellSize <= 0 {
		return defaultCellSize
	}
	return m.CellSize
}

// SnapResult is the containing cell of an image-space point plus that
// cell's center pixel.
type SnapResult struct {
	Col    int
	Row    int
	Center Point
}

// Snap returns the grid cell containing an image-space point and the
// pixel center of that cell. Snapping an already-snapped center
// reproduces the same cell.
func Snap(p Point, cellSize float64) SnapResult {
	col := int(math.Floor(p.X / cellSize))
	row := int(math.Floor(p.Y / cellSize))
	return SnapResult{
		Col:    col,
		Row:    row,
		Center: CellCenter(col, row, cellSize),
	}
}

// CellCenter returns the image-space pixel center of a cell.
func CellCenter(col, row int, cellSize float64) Point {
	return Point{
		X: (float64(col) + 0.5) * cellSize,
		Y: (float64(row) + 0.5) * cellSize,
	}
}

// SnapPoint snaps an image-space point honoring the map's grid origin
// offset. Grids anchor at image origin (0,0) unless the map record
// says otherwise.
func (m *MapInfo) SnapPoint(p Point) SnapResult {
	cell := m.EffectiveCellSize()
	shifted := Point{X: p.X - m.OriginX, Y: p.Y - m.OriginY}
	res := Snap(shifted, cell)
	res.Center.X += m.OriginX
	res.Center.Y += m.OriginY
	return res
}

// CellCenterOn is CellCenter with the map's origin offset applied.
func (m *MapInfo) CellCenterOn(col, row int) Point {
	cell := m.EffectiveCellSize()
	c := CellCenter(col, row, cell)
	c.X += m.OriginX
	c.Y += m.OriginY
	return c
}
