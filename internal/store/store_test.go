package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/mapwright/battlemap/internal/canvas"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	body   map[string]any
}

// newTestClient spins up a stub service that records every request and
// replies with the given status and payload.
func newTestClient(t *testing.T, status int, payload any) (*Client, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		w.WriteHeader(status)
		if payload != nil {
			_ = json.NewEncoder(w).Encode(payload)
		}
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, zap.NewNop().Sugar()), rec
}

func TestClient_Map(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, canvas.MapInfo{ID: "map-1", Name: "crypt", Width: 1400})
	m, err := c.Map(context.Background(), "map-1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodGet || rec.path != "/api/maps/map-1" {
		t.Fatalf("unexpected request %s %s", rec.method, rec.path)
	}
	if m.Name != "crypt" || m.Width != 1400 {
		t.Fatalf("unexpected map %+v", m)
	}
}

func TestClient_Map_NotFound(t *testing.T) {
	c, _ := newTestClient(t, http.StatusNotFound, nil)
	_, err := c.Map(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_MoveTrap_SendsGridCoordinates(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, canvas.Trap{ID: "trap-1", Col: 5, Row: 1})
	moved, err := c.MoveTrap(context.Background(), "trap-1", 5, 1)
	if err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodPatch || rec.path != "/api/traps/trap-1/position" {
		t.Fatalf("unexpected request %s %s", rec.method, rec.path)
	}
	if rec.body["gridX"] != float64(5) || rec.body["gridY"] != float64(1) {
		t.Fatalf("unexpected payload %v", rec.body)
	}
	if moved.Col != 5 || moved.Row != 1 {
		t.Fatalf("unexpected trap %+v", moved)
	}
}

func TestClient_MoveLight_SendsPixelCoordinates(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, canvas.LightSource{ID: "light-1"})
	if _, err := c.MoveLight(context.Background(), "light-1", 203, 126); err != nil {
		t.Fatal(err)
	}
	if rec.path != "/api/lights/light-1/position" {
		t.Fatalf("unexpected path %s", rec.path)
	}
	if rec.body["x"] != float64(203) || rec.body["y"] != float64(126) {
		t.Fatalf("unexpected payload %v", rec.body)
	}
}

func TestClient_CreateToken_ReturnsCanonicalRecord(t *testing.T) {
	c, rec := newTestClient(t, http.StatusCreated, canvas.Token{ID: "tok-9", Name: "goblin"})
	created, err := c.CreateToken(context.Background(), &canvas.Token{Name: "goblin"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodPost || rec.path != "/api/tokens" {
		t.Fatalf("unexpected request %s %s", rec.method, rec.path)
	}
	if created.ID != "tok-9" {
		t.Fatalf("expected the server-assigned id, got %+v", created)
	}
}

func TestClient_EnsureRosterEntry(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, nil)
	if err := c.EnsureRosterEntry(context.Background(), "map-1", "cr-9"); err != nil {
		t.Fatal(err)
	}
	if rec.path != "/api/maps/map-1/roster" || rec.body["creatureId"] != "cr-9" {
		t.Fatalf("unexpected request %s %v", rec.path, rec.body)
	}
}

func TestClient_SearchCreatures_EscapesQuery(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, []canvas.CatalogEntry{{ID: "cr-1"}})
	if _, err := c.SearchCreatures(context.Background(), "giant rat"); err != nil {
		t.Fatal(err)
	}
	if rec.path != "/api/catalog/creatures" || rec.query != "q=giant+rat" {
		t.Fatalf("unexpected request %s?%s", rec.path, rec.query)
	}
}

func TestClient_ServerError_NoPartialDecode(t *testing.T) {
	c, _ := newTestClient(t, http.StatusInternalServerError, nil)
	_, err := c.ListTokens(context.Background(), "map-1")
	if err == nil {
		t.Fatal("5xx must surface an error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("5xx is not a not-found")
	}
}

func TestClient_DeleteToken(t *testing.T) {
	c, rec := newTestClient(t, http.StatusNoContent, nil)
	if err := c.DeleteToken(context.Background(), "tok-1"); err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodDelete || rec.path != "/api/tokens/tok-1" {
		t.Fatalf("unexpected request %s %s", rec.method, rec.path)
	}
}
