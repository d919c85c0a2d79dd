package canvas

import "testing"

func TestRegistry_Upsert_PreservesDrawOrder(t *testing.T) {
	r := NewRegistry()
	r.UpsertToken(&Token{ID: "a", Name: "first"})
	r.UpsertToken(&Token{ID: "b", Name: "second"})
	r.UpsertToken(&Token{ID: "a", Name: "replaced"})

	toks := r.Tokens()
	if len(toks) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(toks))
	}
	if toks[0].ID != "a" || toks[0].Name != "replaced" {
		t.Fatalf("upsert must replace in place, got %+v", toks[0])
	}
	if toks[1].ID != "b" {
		t.Fatal("upsert of an existing id must not reorder")
	}
}

func TestRegistry_Remove_Idempotent(t *testing.T) {
	r := NewRegistry()
	r.UpsertTrap(&Trap{ID: "t1"})
	r.RemoveTrap("t1")
	r.RemoveTrap("t1")
	r.RemoveTrap("never-existed")
	if len(r.Traps()) != 0 {
		t.Fatalf("expected empty trap list, got %d", len(r.Traps()))
	}
}

func TestRegistry_Remove_ReindexesSurvivors(t *testing.T) {
	r := NewRegistry()
	r.UpsertLight(&LightSource{ID: "l1"})
	r.UpsertLight(&LightSource{ID: "l2"})
	r.UpsertLight(&LightSource{ID: "l3"})
	r.RemoveLight("l1")

	l, ok := r.LightByID("l3")
	if !ok || l.ID != "l3" {
		t.Fatal("lookup after removal must still resolve later entries")
	}
	if len(r.Lights()) != 2 || r.Lights()[0].ID != "l2" {
		t.Fatalf("survivors out of order: %v", r.Lights())
	}
}

func TestRegistry_KindNamespaces_Independent(t *testing.T) {
	r := NewRegistry()
	// The same id string may exist in two kinds at once.
	r.UpsertToken(&Token{ID: "x"})
	r.UpsertTrap(&Trap{ID: "x"})

	if _, ok := r.FindByID(KindToken, "x"); !ok {
		t.Fatal("token x missing")
	}
	if _, ok := r.FindByID(KindTrap, "x"); !ok {
		t.Fatal("trap x missing")
	}
	r.RemoveToken("x")
	if _, ok := r.FindByID(KindTrap, "x"); !ok {
		t.Fatal("removing token x must not touch trap x")
	}
}

func TestRegistry_Replace_SwapsWholeList(t *testing.T) {
	r := NewRegistry()
	r.UpsertPoi(&PointOfInterest{ID: "p1"})
	r.UpsertPoi(&PointOfInterest{ID: "p2"})
	r.ReplacePois([]*PointOfInterest{{ID: "p3"}})

	if len(r.Pois()) != 1 || r.Pois()[0].ID != "p3" {
		t.Fatalf("replace left stale entries: %v", r.Pois())
	}
	if _, ok := r.PoiByID("p1"); ok {
		t.Fatal("replaced-away id must not resolve")
	}
}

func TestRegistry_FindByID_UnknownKind(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.FindByID(Kind("wall"), "x"); ok {
		t.Fatal("unknown kind must not resolve")
	}
}
