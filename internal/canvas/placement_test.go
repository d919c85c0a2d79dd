package canvas

import (
	"errors"
	"strings"
	"testing"
)

func TestPlacement_Light_TorchDefaultsUnsnapped(t *testing.T) {
	tc := NewTestCanvas()
	tc.SelectLightTemplate(LightTorch)
	// Viewport (100, 60) maps to image (200, 120) at base scale 0.5.
	// Not a cell center; lights must keep the raw point.
	tc.ClickCanvas(Point{X: 100, Y: 60})

	lights := tc.Registry().Lights()
	if len(lights) != 1 {
		t.Fatalf("expected 1 light, got %d", len(lights))
	}
	l := lights[0]
	if l.X != 200 || l.Y != 120 {
		t.Fatalf("light must not snap, got (%v, %v)", l.X, l.Y)
	}
	if l.BrightFt != 20 || l.DimFt != 40 || l.Color != "#ff9933" {
		t.Fatalf("torch defaults wrong: %+v", l)
	}
	if !l.Active {
		t.Fatal("placed lights start active")
	}
	if tc.PendingLight() != "" {
		t.Fatal("light placement must disarm after one click")
	}
}

func TestPlacement_TokenTemplate_StaysArmed(t *testing.T) {
	tc := NewTestCanvas()
	tc.SelectTokenTemplate(TokenTemplate{
		Kind: TemplateMonster, Name: "goblin", Size: SizeSmall, CreatureID: "cr-9",
	})
	tc.ClickCanvas(Point{X: 35, Y: 35})
	tc.ClickCanvas(Point{X: 105, Y: 35})

	if len(tc.Registry().Tokens()) != 2 {
		t.Fatalf("expected 2 stamped tokens, got %d", len(tc.Registry().Tokens()))
	}
	if tc.PendingToken() == nil {
		t.Fatal("token template must stay armed for repeated stamping")
	}
}

func TestPlacement_Monster_SnapsToCellCenter(t *testing.T) {
	tc := NewTestCanvas()
	tc.SelectTokenTemplate(TokenTemplate{
		Kind: TemplateMonster, Name: "ogre", Size: SizeLarge, CreatureID: "cr-2",
	})
	tc.ClickCanvas(Point{X: 35, Y: 35}) // image (70, 70), cell (1, 1)

	tok := tc.Registry().Tokens()[0]
	if tok.X != 105 || tok.Y != 105 {
		t.Fatalf("expected cell center (105, 105), got (%v, %v)", tok.X, tok.Y)
	}
}

func TestPlacement_Monster_RosterBeforeCreate(t *testing.T) {
	tc := NewTestCanvas()
	tc.SelectTokenTemplate(TokenTemplate{
		Kind: TemplateMonster, Name: "goblin", CreatureID: "cr-9",
	})
	tc.ClickCanvas(Point{X: 35, Y: 35})

	calls := tc.Script.Calls
	rosterAt, createAt := -1, -1
	for i, c := range calls {
		switch {
		case c == "ensure-roster map-1 cr-9":
			rosterAt = i
		case strings.HasPrefix(c, "create-token"):
			createAt = i
		}
	}
	if rosterAt == -1 || createAt == -1 {
		t.Fatalf("missing roster or create call: %v", calls)
	}
	if rosterAt > createAt {
		t.Fatal("roster entry must be ensured before the token create")
	}
}

func TestPlacement_Monster_RosterFailureAbortsCreate(t *testing.T) {
	tc := NewTestCanvas()
	tc.Script.Fail["ensure-roster"] = errors.New("backend down")
	tc.SelectTokenTemplate(TokenTemplate{
		Kind: TemplateMonster, Name: "goblin", CreatureID: "cr-9",
	})
	tc.ClickCanvas(Point{X: 35, Y: 35})

	if got := tc.Script.CallsMatching("create-token"); len(got) != 0 {
		t.Fatalf("create must not run after a roster failure: %v", got)
	}
	if len(tc.Registry().Tokens()) != 0 {
		t.Fatal("no token may survive a failed placement")
	}
	if !tc.SessionLog().HasEntry("store", "rolled_back", "token") {
		t.Fatal("expected a rollback entry in the session log")
	}
}

func TestPlacement_Monster_MissingCreatureLink_Abandoned(t *testing.T) {
	tc := NewTestCanvas()
	tc.SelectTokenTemplate(TokenTemplate{Kind: TemplateMonster, Name: "sketch"})
	tc.ClickCanvas(Point{X: 35, Y: 35})

	if len(tc.Script.Calls) > 4 { // just the four initial list loads
		t.Fatalf("no store traffic expected, got %v", tc.Script.Calls)
	}
	if !tc.SessionLog().HasEntry("place", "abandoned", "sketch") {
		t.Fatal("abandoned placement must be logged")
	}
}

func TestPlacement_Trap_SnapsAndStartsHidden(t *testing.T) {
	tc := NewTestCanvas()
	tc.SelectTokenTemplate(TokenTemplate{Kind: TemplateTrap, Name: "pit", DC: 15})
	tc.ClickCanvas(Point{X: 192.5, Y: 52.5}) // image (385, 105), cell (5, 1)

	traps := tc.Registry().Traps()
	if len(traps) != 1 {
		t.Fatalf("expected 1 trap, got %d", len(traps))
	}
	tr := traps[0]
	if tr.Col != 5 || tr.Row != 1 {
		t.Fatalf("expected cell (5, 1), got (%d, %d)", tr.Col, tr.Row)
	}
	if tr.Visible {
		t.Fatal("new traps start hidden from players")
	}
	if tr.DC != 15 {
		t.Fatalf("expected DC 15, got %d", tr.DC)
	}
}

func TestPlacement_Trap_HonorsGridOrigin(t *testing.T) {
	tc := NewTestCanvas(WithGridOrigin(20, 10))
	tc.SelectTokenTemplate(TokenTemplate{Kind: TemplateTrap, Name: "pit"})
	// Viewport (37.5, 37.5) is image (75, 75); with the grid anchored
	// at (20, 10) that is cell (0, 0), not raw cell (1, 1).
	tc.ClickCanvas(Point{X: 37.5, Y: 37.5})

	tr := tc.Registry().Traps()[0]
	if tr.Col != 0 || tr.Row != 0 {
		t.Fatalf("expected origin-shifted cell (0, 0), got (%d, %d)", tr.Col, tr.Row)
	}
	pos := tr.Position(&tc.mapInfo)
	if pos.X != 55 || pos.Y != 45 {
		t.Fatalf("expected shifted center (55, 45), got (%v, %v)", pos.X, pos.Y)
	}
}

func TestPlacement_TokenAndTrap_ShareGridAnchor(t *testing.T) {
	tc := NewTestCanvas(WithGridOrigin(20, 10))
	tc.SelectTokenTemplate(TokenTemplate{
		Kind: TemplateMonster, Name: "ogre", CreatureID: "cr-2",
	})
	tc.ClickCanvas(Point{X: 37.5, Y: 37.5})
	tc.SelectTokenTemplate(TokenTemplate{Kind: TemplateTrap, Name: "pit"})
	tc.ClickCanvas(Point{X: 37.5, Y: 37.5})

	tok := tc.Registry().Tokens()[0]
	pos := tc.Registry().Traps()[0].Position(&tc.mapInfo)
	if tok.X != pos.X || tok.Y != pos.Y {
		t.Fatalf("token (%v, %v) and trap (%v, %v) landed on different anchors",
			tok.X, tok.Y, pos.X, pos.Y)
	}
}

func TestPlacement_Marker_SnapsAndStartsHidden(t *testing.T) {
	tc := NewTestCanvas()
	tc.SelectTokenTemplate(TokenTemplate{Kind: TemplateMarker, Name: "altar", Icon: "star"})
	tc.ClickCanvas(Point{X: 35, Y: 35})

	pois := tc.Registry().Pois()
	if len(pois) != 1 {
		t.Fatalf("expected 1 poi, got %d", len(pois))
	}
	if pois[0].Col != 1 || pois[0].Row != 1 {
		t.Fatalf("expected cell (1, 1), got (%d, %d)", pois[0].Col, pois[0].Row)
	}
	if pois[0].Visible {
		t.Fatal("new markers start hidden from players")
	}
}

func TestPlacement_UnsupportedKind_LoggedNoOp(t *testing.T) {
	tc := NewTestCanvas()
	tc.SelectTokenTemplate(TokenTemplate{Kind: TemplateKind("vehicle"), Name: "cart"})
	before := len(tc.Script.Calls)
	tc.ClickCanvas(Point{X: 35, Y: 35})

	if len(tc.Script.Calls) != before {
		t.Fatal("unsupported kinds must produce no store traffic")
	}
	if !tc.SessionLog().HasEntry("place", "unsupported", "vehicle") {
		t.Fatal("unsupported placement must be logged")
	}
}

func TestPlacement_Templates_MutuallyExclusive(t *testing.T) {
	tc := NewTestCanvas()
	tc.SelectTokenTemplate(TokenTemplate{Kind: TemplateTrap, Name: "pit"})
	tc.SelectLightTemplate(LightCandle)
	if tc.PendingToken() != nil {
		t.Fatal("arming a light must clear the pending token")
	}
	tc.SelectTokenTemplate(TokenTemplate{Kind: TemplateMarker, Name: "door"})
	if tc.PendingLight() != "" {
		t.Fatal("arming a token must clear the pending light")
	}
}

func TestPlacement_OpenMenu_SwallowsClick(t *testing.T) {
	tc := NewTestCanvas(WithSeedToken(Token{ID: "tok-a", Name: "guard", X: 105, Y: 105}))
	tc.SelectLightTemplate(LightTorch)
	if !tc.OpenMenu(KindToken, "tok-a", Point{X: 52, Y: 52}) {
		t.Fatal("menu should open")
	}
	tc.ClickCanvas(Point{X: 300, Y: 300})

	if len(tc.Registry().Lights()) != 0 {
		t.Fatal("a click that dismisses the menu must not place anything")
	}
	if _, _, _, open := tc.MenuTarget(); open {
		t.Fatal("menu must be dismissed by the click")
	}
	if tc.PendingLight() == "" {
		t.Fatal("the pending light survives the swallowed click")
	}
}

func TestPlacement_RejectedDuringDrag(t *testing.T) {
	tc := NewTestCanvas(WithSeedToken(Token{ID: "tok-a", X: 105, Y: 105}))
	if !tc.StartDrag(KindToken, "tok-a", Point{X: 52.5, Y: 52.5}) {
		t.Fatal("drag should start")
	}
	tc.SelectLightTemplate(LightTorch)
	if tc.PendingLight() != "" {
		t.Fatal("placement must be rejected while a drag is active")
	}
	if !tc.SessionLog().HasEntry("mode", "rejected", "placement while drag active") {
		t.Fatal("rejection must be logged")
	}
}

func TestPlacement_ClearPending(t *testing.T) {
	tc := NewTestCanvas()
	tc.SelectLightTemplate(LightTorch)
	tc.ClearPending()
	if tc.PendingLight() != "" || tc.PendingToken() != nil {
		t.Fatal("clear must disarm both template families")
	}
	if tc.Mode() != ModeIdle {
		t.Fatalf("expected idle after clear, got %s", tc.Mode())
	}
}
