package canvas

import "math"

// Kind identifies the four placeable entity families. Identifiers are
// namespaced per kind; a token and a trap may share an id string.
type Kind string

const (
	KindToken Kind = "token"
	KindLight Kind = "light"
	KindTrap  Kind = "trap"
	KindPoi   Kind = "poi"
)

// SizeClass is a creature size category mapping to a grid-cell-span
// multiplier.
type SizeClass string

const (
	SizeTiny       SizeClass = "tiny"
	SizeSmall      SizeClass = "small"
	SizeMedium     SizeClass = "medium"
	SizeLarge      SizeClass = "large"
	SizeHuge       SizeClass = "huge"
	SizeGargantuan SizeClass = "gargantuan"
)

// CellSpan returns how many grid cells the size class occupies per
// side. Unknown classes render at one cell.
func (s SizeClass) CellSpan() float64 {
	switch s {
	case SizeTiny:
		return 0.5
	case SizeSmall, SizeMedium:
		return 1
	case SizeLarge:
		return 2
	case SizeHuge:
		return 3
	case SizeGargantuan:
		return 4
	default:
		return 1
	}
}

// Token is a monster or NPC marker. Position is continuous image-space
// pixels; drag release and placement snap it to cell centers.
type Token struct {
	ID            string       `json:"id"`
	MapID         string       `json:"mapId"`
	Name          string       `json:"name"`
	X             float64      `json:"x"`
	Y             float64      `json:"y"`
	Size          SizeClass    `json:"size"`
	Color         string       `json:"color"`
	Visible       bool         `json:"visibleToPlayers"`
	CreatureID    string       `json:"creatureId,omitempty"`
	Vision        VisionRanges `json:"vision"`
	LightRadiusFt float64      `json:"lightRadiusFt"`
	LightActive   bool         `json:"lightActive"`
}

// LightSource is a free-standing light. It is the one kind that never
// snaps, so shadows can be tuned precisely.
type LightSource struct {
	ID       string    `json:"id"`
	MapID    string    `json:"mapId"`
	Name     string    `json:"name"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Type     LightType `json:"type"`
	BrightFt float64   `json:"brightFt"`
	DimFt    float64   `json:"dimFt"`
	Color    string    `json:"color"`
	Active   bool      `json:"active"`
}

// Trap stores discrete grid-cell coordinates; its pixel position is
// always the cell center, never off-center.
type Trap struct {
	ID        string `json:"id"`
	MapID     string `json:"mapId"`
	Name      string `json:"name"`
	Col       int    `json:"gridX"`
	Row       int    `json:"gridY"`
	DC        int    `json:"dc,omitempty"`
	Triggered bool   `json:"triggered"`
	Visible   bool   `json:"visibleToPlayers"`
}

// PointOfInterest is a named marker stored on grid cells like a trap.
type PointOfInterest struct {
	ID          string `json:"id"`
	MapID       string `json:"mapId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Col         int    `json:"gridX"`
	Row         int    `json:"gridY"`
	Visible     bool   `json:"visibleToPlayers"`
}

// Placeable is the shared drag protocol across all four kinds. The
// drag controller only speaks this interface, so there is a single
// relocate code path. The map record supplies the cell geometry the
// cell-indexed kinds need.
type Placeable interface {
	EntityID() string
	EntityKind() Kind
	// Position is the entity's effective image-space pixel position.
	Position(m *MapInfo) Point
	// SetImagePosition moves the entity to an image-space point. The
	// cell-indexed kinds recompute their cell immediately, which keeps
	// them visually continuous during a drag.
	SetImagePosition(p Point, m *MapInfo)
	// ShouldSnap reports whether drag release snaps to cell centers.
	ShouldSnap() bool
}

func (t *Token) EntityID() string { return t.ID }
func (t *Token) EntityKind() Kind { return KindToken }
func (t *Token) ShouldSnap() bool { return true }
func (t *Token) Position(_ *MapInfo) Point {
	return Point{X: t.X, Y: t.Y}
}
func (t *Token) SetImagePosition(p Point, _ *MapInfo) {
	t.X = p.X
	t.Y = p.Y
}

func (l *LightSource) EntityID() string { return l.ID }
func (l *LightSource) EntityKind() Kind { return KindLight }
func (l *LightSource) ShouldSnap() bool { return false }
func (l *LightSource) Position(_ *MapInfo) Point {
	return Point{X: l.X, Y: l.Y}
}
func (l *LightSource) SetImagePosition(p Point, _ *MapInfo) {
	l.X = p.X
	l.Y = p.Y
}

func (t *Trap) EntityID() string { return t.ID }
func (t *Trap) EntityKind() Kind { return KindTrap }
func (t *Trap) ShouldSnap() bool { return true }
func (t *Trap) Position(m *MapInfo) Point {
	return m.CellCenterOn(t.Col, t.Row)
}
func (t *Trap) SetImagePosition(p Point, m *MapInfo) {
	s := m.SnapPoint(p)
	t.Col = s.Col
	t.Row = s.Row
}

func (p *PointOfInterest) EntityID() string { return p.ID }
func (p *PointOfInterest) EntityKind() Kind { return KindPoi }
func (p *PointOfInterest) ShouldSnap() bool { return true }
func (p *PointOfInterest) Position(m *MapInfo) Point {
	return m.CellCenterOn(p.Col, p.Row)
}
func (p *PointOfInterest) SetImagePosition(pt Point, m *MapInfo) {
	s := m.SnapPoint(pt)
	p.Col = s.Col
	p.Row = s.Row
}

// Clone returns a deep copy safe to hand to another goroutine; the
// vision pointers are duplicated so the copy shares nothing.
func (t *Token) Clone() *Token {
	cp := *t
	cp.Vision = t.Vision.Clone()
	return &cp
}

func (l *LightSource) Clone() *LightSource { cp := *l; return &cp }

func (t *Trap) Clone() *Trap { cp := *t; return &cp }

func (p *PointOfInterest) Clone() *PointOfInterest { cp := *p; return &cp }

// roundCoord rounds a continuous coordinate to an integer pixel, used
// when finalizing a light move.
func roundCoord(v float64) float64 {
	return math.Round(v)
}
