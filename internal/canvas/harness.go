package canvas

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ScriptStore is an in-memory Store used exclusively by tests and the
// headless harness. It keeps its own copies of every record, so the
// canvas's optimistic mutations never leak into the "server" state,
// and failures can be injected per operation.
type ScriptStore struct {
	MapRecord MapInfo
	Tokens    []*Token
	Lights    []*LightSource
	Traps     []*Trap
	Pois      []*PointOfInterest

	// Fail maps an op name (e.g. "move-trap") to the error every call
	// of that op returns until the entry is removed.
	Fail map[string]error
	// Calls records each operation in invocation order.
	Calls []string

	nextID int
}

var _ Store = (*ScriptStore)(nil)

func NewScriptStore(m MapInfo) *ScriptStore {
	return &ScriptStore{MapRecord: m, Fail: map[string]error{}}
}

func (s *ScriptStore) record(format string, args ...any) {
	s.Calls = append(s.Calls, fmt.Sprintf(format, args...))
}

func (s *ScriptStore) fail(op string) error {
	return s.Fail[op]
}

// CallsMatching returns recorded calls whose text contains substr.
func (s *ScriptStore) CallsMatching(substr string) []string {
	var out []string
	for _, c := range s.Calls {
		if strings.Contains(c, substr) {
			out = append(out, c)
		}
	}
	return out
}

func (s *ScriptStore) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *ScriptStore) Map(_ context.Context, id string) (MapInfo, error) {
	s.record("map %s", id)
	if err := s.fail("map"); err != nil {
		return MapInfo{}, err
	}
	return s.MapRecord, nil
}

func (s *ScriptStore) ListTokens(_ context.Context, mapID string) ([]*Token, error) {
	s.record("list-tokens %s", mapID)
	if err := s.fail("list-tokens"); err != nil {
		return nil, err
	}
	out := make([]*Token, len(s.Tokens))
	for i, t := range s.Tokens {
		out[i] = t.Clone()
	}
	return out, nil
}

func (s *ScriptStore) CreateToken(_ context.Context, t *Token) (*Token, error) {
	s.record("create-token %q", t.Name)
	if err := s.fail("create-token"); err != nil {
		return nil, err
	}
	cp := t.Clone()
	cp.ID = s.newID("tok")
	s.Tokens = append(s.Tokens, cp)
	return cp.Clone(), nil
}

func (s *ScriptStore) MoveToken(_ context.Context, id string, col, row int) (*Token, error) {
	s.record("move-token %s %d %d", id, col, row)
	if err := s.fail("move-token"); err != nil {
		return nil, err
	}
	for _, t := range s.Tokens {
		if t.ID == id {
			c := s.MapRecord.CellCenterOn(col, row)
			t.X = c.X
			t.Y = c.Y
			return t.Clone(), nil
		}
	}
	return nil, fmt.Errorf("token %s not found", id)
}

func (s *ScriptStore) UpdateToken(_ context.Context, in *Token) (*Token, error) {
	s.record("update-token %s", in.ID)
	if err := s.fail("update-token"); err != nil {
		return nil, err
	}
	for i, t := range s.Tokens {
		if t.ID == in.ID {
			s.Tokens[i] = in.Clone()
			return in.Clone(), nil
		}
	}
	return nil, fmt.Errorf("token %s not found", in.ID)
}

func (s *ScriptStore) ToggleTokenVisibility(_ context.Context, id string) (*Token, error) {
	s.record("toggle-token-visibility %s", id)
	if err := s.fail("toggle-token-visibility"); err != nil {
		return nil, err
	}
	for _, t := range s.Tokens {
		if t.ID == id {
			t.Visible = !t.Visible
			return t.Clone(), nil
		}
	}
	return nil, fmt.Errorf("token %s not found", id)
}

func (s *ScriptStore) DeleteToken(_ context.Context, id string) error {
	s.record("delete-token %s", id)
	if err := s.fail("delete-token"); err != nil {
		return err
	}
	for i, t := range s.Tokens {
		if t.ID == id {
			s.Tokens = append(s.Tokens[:i], s.Tokens[i+1:]...)
			break
		}
	}
	return nil
}

func (s *ScriptStore) EnsureRosterEntry(_ context.Context, mapID, creatureID string) error {
	s.record("ensure-roster %s %s", mapID, creatureID)
	return s.fail("ensure-roster")
}

func (s *ScriptStore) ListLights(_ context.Context, mapID string) ([]*LightSource, error) {
	s.record("list-lights %s", mapID)
	if err := s.fail("list-lights"); err != nil {
		return nil, err
	}
	out := make([]*LightSource, len(s.Lights))
	for i, l := range s.Lights {
		out[i] = l.Clone()
	}
	return out, nil
}

func (s *ScriptStore) CreateLight(_ context.Context, l *LightSource) (*LightSource, error) {
	s.record("create-light %s (%.1f, %.1f)", l.Type, l.X, l.Y)
	if err := s.fail("create-light"); err != nil {
		return nil, err
	}
	cp := l.Clone()
	cp.ID = s.newID("light")
	s.Lights = append(s.Lights, cp)
	return cp.Clone(), nil
}

func (s *ScriptStore) MoveLight(_ context.Context, id string, x, y float64) (*LightSource, error) {
	s.record("move-light %s %.0f %.0f", id, x, y)
	if err := s.fail("move-light"); err != nil {
		return nil, err
	}
	for _, l := range s.Lights {
		if l.ID == id {
			l.X = x
			l.Y = y
			return l.Clone(), nil
		}
	}
	return nil, fmt.Errorf("light %s not found", id)
}

func (s *ScriptStore) UpdateLight(_ context.Context, in *LightSource) (*LightSource, error) {
	s.record("update-light %s", in.ID)
	if err := s.fail("update-light"); err != nil {
		return nil, err
	}
	for i, l := range s.Lights {
		if l.ID == in.ID {
			s.Lights[i] = in.Clone()
			return in.Clone(), nil
		}
	}
	return nil, fmt.Errorf("light %s not found", in.ID)
}

func (s *ScriptStore) DeleteLight(_ context.Context, id string) error {
	s.record("delete-light %s", id)
	if err := s.fail("delete-light"); err != nil {
		return err
	}
	for i, l := range s.Lights {
		if l.ID == id {
			s.Lights = append(s.Lights[:i], s.Lights[i+1:]...)
			break
		}
	}
	return nil
}

func (s *ScriptStore) ListTraps(_ context.Context, mapID string) ([]*Trap, error) {
	s.record("list-traps %s", mapID)
	if err := s.fail("list-traps"); err != nil {
		return nil, err
	}
	out := make([]*Trap, len(s.Traps))
	for i, t := range s.Traps {
		out[i] = t.Clone()
	}
	return out, nil
}

func (s *ScriptStore) CreateTrap(_ context.Context, t *Trap) (*Trap, error) {
	s.record("create-trap %q %d %d", t.Name, t.Col, t.Row)
	if err := s.fail("create-trap"); err != nil {
		return nil, err
	}
	cp := t.Clone()
	cp.ID = s.newID("trap")
	s.Traps = append(s.Traps, cp)
	return cp.Clone(), nil
}

func (s *ScriptStore) MoveTrap(_ context.Context, id string, col, row int) (*Trap, error) {
	s.record("move-trap %s %d %d", id, col, row)
	if err := s.fail("move-trap"); err != nil {
		return nil, err
	}
	for _, t := range s.Traps {
		if t.ID == id {
			t.Col = col
			t.Row = row
			return t.Clone(), nil
		}
	}
	return nil, fmt.Errorf("trap %s not found", id)
}

func (s *ScriptStore) UpdateTrap(_ context.Context, in *Trap) (*Trap, error) {
	s.record("update-trap %s", in.ID)
	if err := s.fail("update-trap"); err != nil {
		return nil, err
	}
	for i, t := range s.Traps {
		if t.ID == in.ID {
			s.Traps[i] = in.Clone()
			return in.Clone(), nil
		}
	}
	return nil, fmt.Errorf("trap %s not found", in.ID)
}

func (s *ScriptStore) DeleteTrap(_ context.Context, id string) error {
	s.record("delete-trap %s", id)
	if err := s.fail("delete-trap"); err != nil {
		return err
	}
	for i, t := range s.Traps {
		if t.ID == id {
			s.Traps = append(s.Traps[:i], s.Traps[i+1:]...)
			break
		}
	}
	return nil
}

func (s *ScriptStore) ListPois(_ context.Context, mapID string) ([]*PointOfInterest, error) {
	s.record("list-pois %s", mapID)
	if err := s.fail("list-pois"); err != nil {
		return nil, err
	}
	out := make([]*PointOfInterest, len(s.Pois))
	for i, p := range s.Pois {
		out[i] = p.Clone()
	}
	return out, nil
}

func (s *ScriptStore) CreatePoi(_ context.Context, p *PointOfInterest) (*PointOfInterest, error) {
	s.record("create-poi %q %d %d", p.Name, p.Col, p.Row)
	if err := s.fail("create-poi"); err != nil {
		return nil, err
	}
	cp := p.Clone()
	cp.ID = s.newID("poi")
	s.Pois = append(s.Pois, cp)
	return cp.Clone(), nil
}

func (s *ScriptStore) MovePoi(_ context.Context, id string, col, row int) (*PointOfInterest, error) {
	s.record("move-poi %s %d %d", id, col, row)
	if err := s.fail("move-poi"); err != nil {
		return nil, err
	}
	for _, p := range s.Pois {
		if p.ID == id {
			p.Col = col
			p.Row = row
			return p.Clone(), nil
		}
	}
	return nil, fmt.Errorf("poi %s not found", id)
}

func (s *ScriptStore) UpdatePoi(_ context.Context, in *PointOfInterest) (*PointOfInterest, error) {
	s.record("update-poi %s", in.ID)
	if err := s.fail("update-poi"); err != nil {
		return nil, err
	}
	for i, p := range s.Pois {
		if p.ID == in.ID {
			s.Pois[i] = in.Clone()
			return in.Clone(), nil
		}
	}
	return nil, fmt.Errorf("poi %s not found", in.ID)
}

func (s *ScriptStore) DeletePoi(_ context.Context, id string) error {
	s.record("delete-poi %s", id)
	if err := s.fail("delete-poi"); err != nil {
		return err
	}
	for i, p := range s.Pois {
		if p.ID == id {
			s.Pois = append(s.Pois[:i], s.Pois[i+1:]...)
			break
		}
	}
	return nil
}

func (s *ScriptStore) SearchCreatures(_ context.Context, query string) ([]CatalogEntry, error) {
	s.record("search-creatures %q", query)
	if err := s.fail("search-creatures"); err != nil {
		return nil, err
	}
	return []CatalogEntry{{ID: "cr-1", Name: query, Size: SizeMedium}}, nil
}

func (s *ScriptStore) SearchTraps(_ context.Context, query string) ([]CatalogEntry, error) {
	s.record("search-traps %q", query)
	if err := s.fail("search-traps"); err != nil {
		return nil, err
	}
	return []CatalogEntry{{ID: "tc-1", Name: query, DC: 13}}, nil
}

// canvasOptKind controls the pass in which a harness option applies.
type canvasOptKind int

const (
	canvasOptInfra  canvasOptKind = iota // map + container geometry
	canvasOptEntity                      // seed server-side entities
)

// CanvasOption is a builder function applied to a TestCanvas during
// construction.
type CanvasOption struct {
	kind canvasOptKind
	fn   func(tc *TestCanvas)
}

// WithMapSize sets the map image dimensions in pixels.
func WithMapSize(w, h float64) CanvasOption {
	return CanvasOption{canvasOptInfra, func(tc *TestCanvas) {
		tc.Script.MapRecord.Width = w
		tc.Script.MapRecord.Height = h
	}}
}

// WithCellSize sets the square-grid cell size in pixels.
func WithCellSize(cell float64) CanvasOption {
	return CanvasOption{canvasOptInfra, func(tc *TestCanvas) {
		tc.Script.MapRecord.CellSize = cell
	}}
}

// WithGridOrigin offsets the grid anchor from the image origin.
func WithGridOrigin(x, y float64) CanvasOption {
	return CanvasOption{canvasOptInfra, func(tc *TestCanvas) {
		tc.Script.MapRecord.OriginX = x
		tc.Script.MapRecord.OriginY = y
	}}
}

// WithGrid sets the grid kind.
func WithGrid(kind GridKind) CanvasOption {
	return CanvasOption{canvasOptInfra, func(tc *TestCanvas) {
		tc.Script.MapRecord.Grid = kind
	}}
}

// WithContainer sets the viewport container size used for the base
// scale.
func WithContainer(w, h float64) CanvasOption {
	return CanvasOption{canvasOptInfra, func(tc *TestCanvas) {
		tc.containerW = w
		tc.containerH = h
	}}
}

// WithSeedToken seeds a server-side token before the initial load.
func WithSeedToken(t Token) CanvasOption {
	return CanvasOption{canvasOptEntity, func(tc *TestCanvas) {
		t.MapID = tc.Script.MapRecord.ID
		tc.Script.Tokens = append(tc.Script.Tokens, t.Clone())
	}}
}

// WithSeedLight seeds a server-side light source.
func WithSeedLight(l LightSource) CanvasOption {
	return CanvasOption{canvasOptEntity, func(tc *TestCanvas) {
		l.MapID = tc.Script.MapRecord.ID
		tc.Script.Lights = append(tc.Script.Lights, l.Clone())
	}}
}

// WithSeedTrap seeds a server-side trap.
func WithSeedTrap(t Trap) CanvasOption {
	return CanvasOption{canvasOptEntity, func(tc *TestCanvas) {
		t.MapID = tc.Script.MapRecord.ID
		tc.Script.Traps = append(tc.Script.Traps, t.Clone())
	}}
}

// WithSeedPoi seeds a server-side point of interest.
func WithSeedPoi(p PointOfInterest) CanvasOption {
	return CanvasOption{canvasOptEntity, func(tc *TestCanvas) {
		p.MapID = tc.Script.MapRecord.ID
		tc.Script.Pois = append(tc.Script.Pois, p.Clone())
	}}
}

// TestCanvas is a headless canvas wired to a ScriptStore, with
// persistence calls resolving synchronously so tests see deterministic
// ordering.
type TestCanvas struct {
	*Canvas
	Script *ScriptStore

	containerW float64
	containerH float64
}

// NewTestCanvas builds a canvas over a scripted store in two ordered
// passes: infrastructure options first, then entity seeds, then the
// initial load. Defaults match a 1400x700 map with a 70px square grid
// in a 700x500 container.
func NewTestCanvas(opts ...CanvasOption) *TestCanvas {
	tc := &TestCanvas{
		Script: NewScriptStore(MapInfo{
			ID:       "map-1",
			Name:     "test map",
			Width:    1400,
			Height:   700,
			Grid:     GridSquare,
			CellSize: 70,
		}),
		containerW: 700,
		containerH: 500,
	}
	for _, o := range opts {
		if o.kind == canvasOptInfra {
			o.fn(tc)
		}
	}
	for _, o := range opts {
		if o.kind == canvasOptEntity {
			o.fn(tc)
		}
	}
	m := tc.Script.MapRecord
	tc.Canvas = New(zap.NewNop().Sugar(), tc.Script, m, tc.containerW, tc.containerH)
	tc.Canvas.synchronous = true
	if err := tc.Canvas.Load(context.Background()); err != nil {
		panic(fmt.Sprintf("harness load: %v", err))
	}
	return tc
}
