package canvas

import "testing"

func TestProjection_HiddenEntitiesAbsent(t *testing.T) {
	tc := NewTestCanvas(
		WithSeedToken(Token{ID: "tok-v", Name: "guard", X: 105, Y: 105, Visible: true}),
		WithSeedToken(Token{ID: "tok-h", Name: "assassin", X: 175, Y: 105, Visible: false}),
		WithSeedTrap(Trap{ID: "trap-h", Col: 2, Row: 2, Visible: false}),
		WithSeedLight(LightSource{ID: "light-off", X: 50, Y: 50, Active: false}),
	)
	p := tc.Projection()

	if len(p.Entities) != 1 {
		t.Fatalf("only the visible token should project, got %d entities", len(p.Entities))
	}
	if p.Entities[0].ID != "tok-v" {
		t.Fatalf("unexpected projected entity %+v", p.Entities[0])
	}
}

func TestProjection_NoDMFieldsByConstruction(t *testing.T) {
	tc := NewTestCanvas(WithSeedToken(Token{
		ID: "tok-a", Visible: true,
		Vision: VisionRanges{DarkFt: 120}, CreatureID: "cr-9",
	}))
	p := tc.Projection()

	// The projected type has no vision, creature, or DC fields at all;
	// what remains to check is that inactive carried light leaks
	// nothing.
	if p.Entities[0].BrightFt != 0 || p.Entities[0].DimFt != 0 {
		t.Fatalf("token without an active light must project no radii: %+v", p.Entities[0])
	}
}

func TestProjection_ActiveLightRadii(t *testing.T) {
	tc := NewTestCanvas(WithSeedLight(LightSource{
		ID: "light-a", X: 200, Y: 120, Type: LightTorch,
		BrightFt: 20, DimFt: 40, Color: "#ff9933", Active: true,
	}))
	p := tc.Projection()

	if len(p.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(p.Entities))
	}
	e := p.Entities[0]
	if e.Kind != KindLight || e.BrightFt != 20 || e.DimFt != 40 {
		t.Fatalf("light radii wrong: %+v", e)
	}
	if e.X != 200 || e.Y != 120 {
		t.Fatalf("light position wrong: %+v", e)
	}
}

func TestProjection_TokenCarriedLight(t *testing.T) {
	tc := NewTestCanvas(WithSeedToken(Token{
		ID: "tok-a", X: 105, Y: 105, Visible: true,
		LightRadiusFt: 20, LightActive: true,
	}))
	p := tc.Projection()

	e := p.Entities[0]
	if e.BrightFt != 20 || e.DimFt != 40 {
		t.Fatalf("carried light must project bright and double dim, got %+v", e)
	}
}

func TestProjection_TokenCarriedLight_OffProjectsNothing(t *testing.T) {
	tc := NewTestCanvas(WithSeedToken(Token{
		ID: "tok-a", X: 105, Y: 105, Visible: true,
		LightRadiusFt: 20, LightActive: false,
	}))
	p := tc.Projection()

	if p.Entities[0].BrightFt != 0 {
		t.Fatal("an unlit carried light must not project")
	}
}

func TestProjection_DiscreteEntitiesAtCellCenters(t *testing.T) {
	tc := NewTestCanvas(
		WithSeedTrap(Trap{ID: "trap-a", Col: 2, Row: 3, Visible: true}),
		WithSeedPoi(PointOfInterest{ID: "poi-a", Col: 0, Row: 0, Visible: true}),
	)
	p := tc.Projection()

	var trap, poi *ProjectedEntity
	for i := range p.Entities {
		switch p.Entities[i].Kind {
		case KindTrap:
			trap = &p.Entities[i]
		case KindPoi:
			poi = &p.Entities[i]
		}
	}
	if trap == nil || poi == nil {
		t.Fatalf("missing projected entities: %v", p.Entities)
	}
	if trap.X != 175 || trap.Y != 245 {
		t.Fatalf("trap must project at its cell center, got (%v, %v)", trap.X, trap.Y)
	}
	if poi.X != 35 || poi.Y != 35 {
		t.Fatalf("poi must project at its cell center, got (%v, %v)", poi.X, poi.Y)
	}
}

func TestProjection_SinkPublishedOnMutation(t *testing.T) {
	tc := NewTestCanvas(WithSeedToken(Token{ID: "tok-a", X: 105, Y: 105, Visible: false}))
	var published []Projection
	tc.SetProjectionSink(func(p Projection) { published = append(published, p) })

	tc.ToggleTokenVisibility("tok-a")

	if len(published) < 2 {
		t.Fatalf("expected publishes on sink registration and on mutation, got %d", len(published))
	}
	last := published[len(published)-1]
	if len(last.Entities) != 1 {
		t.Fatalf("newly visible token must appear in the published view: %v", last.Entities)
	}
}

func TestProjection_CarriesMapGeometry(t *testing.T) {
	tc := NewTestCanvas()
	p := tc.Projection()
	if p.MapID != "map-1" || p.Width != 1400 || p.Height != 700 {
		t.Fatalf("map geometry wrong: %+v", p)
	}
	if p.Grid != GridSquare || p.CellSize != 70 {
		t.Fatalf("grid config wrong: %+v", p)
	}
}
