package canvas

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLoad_FetchesAllFourKinds(t *testing.T) {
	tc := NewTestCanvas(
		WithSeedToken(Token{ID: "tok-a"}),
		WithSeedLight(LightSource{ID: "light-a"}),
		WithSeedTrap(Trap{ID: "trap-a"}),
		WithSeedPoi(PointOfInterest{ID: "poi-a"}),
	)
	r := tc.Registry()
	if len(r.Tokens()) != 1 || len(r.Lights()) != 1 || len(r.Traps()) != 1 || len(r.Pois()) != 1 {
		t.Fatalf("load must populate every kind: %d/%d/%d/%d",
			len(r.Tokens()), len(r.Lights()), len(r.Traps()), len(r.Pois()))
	}
}

func TestLoad_ListFailurePropagates(t *testing.T) {
	st := NewScriptStore(MapInfo{ID: "map-1", Width: 100, Height: 100})
	st.Fail["list-traps"] = errors.New("service down")
	c := New(zap.NewNop().Sugar(), st, st.MapRecord, 700, 500)

	err := c.Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "load traps") {
		t.Fatalf("expected a wrapped trap-load error, got %v", err)
	}
}

func TestLoad_OptimisticStateDoesNotAliasServer(t *testing.T) {
	tc := NewTestCanvas(WithSeedToken(Token{ID: "tok-a", X: 105, Y: 105}))
	tok, _ := tc.Registry().TokenByID("tok-a")
	tok.X = 999

	if tc.Script.Tokens[0].X != 105 {
		t.Fatal("registry mutations must never reach the server records")
	}
}

func TestTick_DrainsAsyncCompletions(t *testing.T) {
	tc := NewTestCanvas()
	tc.Canvas.synchronous = false
	sched := &manualScheduler{}
	tc.Canvas.monsterSearch.schedule = sched.schedule

	tc.SearchMonsters("mimic")
	sched.fire()

	deadline := time.Now().Add(2 * time.Second)
	for len(tc.MonsterResults()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("completion never arrived through the queue")
		}
		tc.Tick()
		time.Sleep(time.Millisecond)
	}
	if tc.MonsterResults()[0].Name != "mimic" {
		t.Fatalf("unexpected results %v", tc.MonsterResults())
	}
}

func TestMode_String(t *testing.T) {
	for mode, want := range map[Mode]string{
		ModeIdle: "idle", ModeMenu: "menu", ModeDrag: "drag",
		ModePlacement: "placement", ModePan: "pan",
	} {
		if mode.String() != want {
			t.Fatalf("expected %q, got %q", want, mode.String())
		}
	}
}
