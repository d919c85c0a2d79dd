// Package store talks JSON-over-HTTP to the campaign persistence
// service. It implements canvas.Store; the engine owns no database of
// its own.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/mapwright/battlemap/internal/canvas"
)

// ErrNotFound reports a 404 from the persistence service.
var ErrNotFound = errors.New("store: not found")

// Client is an HTTP implementation of canvas.Store.
type Client struct {
	base string
	http *http.Client
	log  *zap.SugaredLogger
}

func New(baseURL string, log *zap.SugaredLogger) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: 15 * time.Second},
		log:  log,
	}
}

// do issues one JSON request and decodes the response into out when
// non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("store: encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return fmt.Errorf("store: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("store: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("store: %s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode >= 300:
		return fmt.Errorf("store: %s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("store: decode %s %s: %w", method, path, err)
	}
	return nil
}

// gridMove is the positional payload for cell-indexed kinds.
type gridMove struct {
	Col int `json:"gridX"`
	Row int `json:"gridY"`
}

// pixelMove is the positional payload for continuous kinds.
type pixelMove struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (c *Client) Map(ctx context.Context, id string) (canvas.MapInfo, error) {
	var m canvas.MapInfo
	err := c.do(ctx, http.MethodGet, "/api/maps/"+url.PathEscape(id), nil, &m)
	return m, err
}

func (c *Client) ListTokens(ctx context.Context, mapID string) ([]*canvas.Token, error) {
	var out []*canvas.Token
	err := c.do(ctx, http.MethodGet, "/api/maps/"+url.PathEscape(mapID)+"/tokens", nil, &out)
	return out, err
}

func (c *Client) CreateToken(ctx context.Context, t *canvas.Token) (*canvas.Token, error) {
	out := new(canvas.Token)
	err := c.do(ctx, http.MethodPost, "/api/tokens", t, out)
	return out, err
}

func (c *Client) MoveToken(ctx context.Context, id string, col, row int) (*canvas.Token, error) {
	out := new(canvas.Token)
	err := c.do(ctx, http.MethodPatch, "/api/tokens/"+url.PathEscape(id)+"/position", gridMove{Col: col, Row: row}, out)
	return out, err
}

func (c *Client) UpdateToken(ctx context.Context, t *canvas.Token) (*canvas.Token, error) {
	out := new(canvas.Token)
	err := c.do(ctx, http.MethodPut, "/api/tokens/"+url.PathEscape(t.ID), t, out)
	return out, err
}

func (c *Client) ToggleTokenVisibility(ctx context.Context, id string) (*canvas.Token, error) {
	out := new(canvas.Token)
	err := c.do(ctx, http.MethodPost, "/api/tokens/"+url.PathEscape(id)+"/visibility", nil, out)
	return out, err
}

func (c *Client) DeleteToken(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tokens/"+url.PathEscape(id), nil, nil)
}

func (c *Client) EnsureRosterEntry(ctx context.Context, mapID, creatureID string) error {
	body := struct {
		CreatureID string `json:"creatureId"`
	}{CreatureID: creatureID}
	return c.do(ctx, http.MethodPost, "/api/maps/"+url.PathEscape(mapID)+"/roster", body, nil)
}

func (c *Client) ListLights(ctx context.Context, mapID string) ([]*canvas.LightSource, error) {
	var out []*canvas.LightSource
	err := c.do(ctx, http.MethodGet, "/api/maps/"+url.PathEscape(mapID)+"/lights", nil, &out)
	return out, err
}

func (c *Client) CreateLight(ctx context.Context, l *canvas.LightSource) (*canvas.LightSource, error) {
	out := new(canvas.LightSource)
	err := c.do(ctx, http.MethodPost, "/api/lights", l, out)
	return out, err
}

func (c *Client) MoveLight(ctx context.Context, id string, x, y float64) (*canvas.LightSource, error) {
	out := new(canvas.LightSource)
	err := c.do(ctx, http.MethodPatch, "/api/lights/"+url.PathEscape(id)+"/position", pixelMove{X: x, Y: y}, out)
	return out, err
}

func (c *Client) UpdateLight(ctx context.Context, l *canvas.LightSource) (*canvas.LightSource, error) {
	out := new(canvas.LightSource)
	err := c.do(ctx, http.MethodPut, "/api/lights/"+url.PathEscape(l.ID), l, out)
	return out, err
}

func (c *Client) DeleteLight(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/lights/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListTraps(ctx context.Context, mapID string) ([]*canvas.Trap, error) {
	var out []*canvas.Trap
	err := c.do(ctx, http.MethodGet, "/api/maps/"+url.PathEscape(mapID)+"/traps", nil, &out)
	return out, err
}

func (c *Client) CreateTrap(ctx context.Context, t *canvas.Trap) (*canvas.Trap, error) {
	out := new(canvas.Trap)
	err := c.do(ctx, http.MethodPost, "/api/traps", t, out)
	return out, err
}

func (c *Client) MoveTrap(ctx context.Context, id string, col, row int) (*canvas.Trap, error) {
	out := new(canvas.Trap)
	err := c.do(ctx, http.MethodPatch, "/api/traps/"+url.PathEscape(id)+"/position", gridMove{Col: col, Row: row}, out)
	return out, err
}

func (c *Client) UpdateTrap(ctx context.Context, t *canvas.Trap) (*canvas.Trap, error) {
	out := new(canvas.Trap)
	err := c.do(ctx, http.MethodPut, "/api/traps/"+url.PathEscape(t.ID), t, out)
	return out, err
}

func (c *Client) DeleteTrap(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/traps/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListPois(ctx context.Context, mapID string) ([]*canvas.PointOfInterest, error) {
	var out []*canvas.PointOfInterest
	err := c.do(ctx, http.MethodGet, "/api/maps/"+url.PathEscape(mapID)+"/pois", nil, &out)
	return out, err
}

func (c *Client) CreatePoi(ctx context.Context, p *canvas.PointOfInterest) (*canvas.PointOfInterest, error) {
	out := new(canvas.PointOfInterest)
	err := c.do(ctx, http.MethodPost, "/api/pois", p, out)
	return out, err
}

func (c *Client) MovePoi(ctx context.Context, id string, col, row int) (*canvas.PointOfInterest, error) {
	out := new(canvas.PointOfInterest)
	err := c.do(ctx, http.MethodPatch, "/api/pois/"+url.PathEscape(id)+"/position", gridMove{Col: col, Row: row}, out)
	return out, err
}

func (c *Client) UpdatePoi(ctx context.Context, p *canvas.PointOfInterest) (*canvas.PointOfInterest, error) {
	out := new(canvas.PointOfInterest)
	err := c.do(ctx, http.MethodPut, "/api/pois/"+url.PathEscape(p.ID), p, out)
	return out, err
}

func (c *Client) DeletePoi(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/pois/"+url.PathEscape(id), nil, nil)
}

func (c *Client) SearchCreatures(ctx context.Context, query string) ([]canvas.CatalogEntry, error) {
	var out []canvas.CatalogEntry
	err := c.do(ctx, http.MethodGet, "/api/catalog/creatures?q="+url.QueryEscape(query), nil, &out)
	return out, err
}

func (c *Client) SearchTraps(ctx context.Context, query string) ([]canvas.CatalogEntry, error) {
	var out []canvas.CatalogEntry
	err := c.do(ctx, http.MethodGet, "/api/catalog/traps?q="+url.QueryEscape(query), nil, &out)
	return out, err
}

// interface guard
var _ canvas.Store = (*Client)(nil)
