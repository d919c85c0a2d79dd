package canvas

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// callTimeout bounds every persistence call.
const callTimeout = 10 * time.Second

// completionQueueSize bounds how many resolved persistence calls can
// wait for the next update tick.
const completionQueueSize = 256

// completion is a closure delivered back to the canvas goroutine after
// a persistence call resolves. All registry reconciliation happens
// through these, so the single-writer rule holds.
type completion func(*Canvas)

// Mode is the current interaction mode. Exactly one holds at a time;
// selection priority is menu > drag > placement > pan.
type Mode int

const (
	ModeIdle Mode = iota
	ModeMenu
	ModeDrag
	ModePlacement
	ModePan
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeMenu:
		return "menu"
	case ModeDrag:
		return "drag"
	case ModePlacement:
		return "placement"
	case ModePan:
		return "pan"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Canvas is the spatial engine for one open map: the camera, the four
// entity registries, and the placement/drag state machines. All state
// is owned by a single goroutine (the ebiten update loop, or the test
// harness); persistence calls resolve through the completion queue.
type Canvas struct {
	log   *zap.SugaredLogger
	store Store
	slog  *SessionLog

	mapInfo MapInfo
	cam     Camera
	reg     *Registry

	pendingToken *TokenTemplate
	pendingLight LightType
	drag         *dragSession
	menu         *contextMenu
	panning      bool

	monsterSearch  *DebouncedSearch
	trapSearch     *DebouncedSearch
	monsterResults []CatalogEntry
	trapResults    []CatalogEntry

	completions chan completion
	// synchronous makes persistence calls resolve inline, giving the
	// headless harness deterministic ordering.
	synchronous bool

	// onProjection is invoked after every change that affects the
	// player-facing view.
	onProjection func(Projection)

	// Rendering state (nil in headless use).
	mapImage  *ebiten.Image
	cursor    Point
	prevLeft  bool
	prevRight bool
	prevKeys  map[ebiten.Key]bool
	container Point // viewport size in pixels
}

// New builds a canvas for a loaded map. containerW/H is the viewport
// size used to fit the camera.
func New(log *zap.SugaredLogger, st Store, info MapInfo, containerW, containerH float64) *Canvas {
	c := &Canvas{
		log:         log,
		store:       st,
		slog:        NewSessionLog(),
		mapInfo:     info,
		cam:         NewCamera(containerW, containerH, info.Width, info.Height),
		reg:         NewRegistry(),
		completions: make(chan completion, completionQueueSize),
		prevKeys:    map[ebiten.Key]bool{},
		container:   Point{X: containerW, Y: containerH},
	}
	c.monsterSearch = newDebouncedSearch(searchDelay, c.runMonsterSearch)
	c.trapSearch = newDebouncedSearch(searchDelay, c.runTrapSearch)
	return c
}

// Load fetches all four entity lists from the store. Called once after
// construction, before the first frame.
func (c *Canvas) Load(ctx context.Context) error {
	tokens, err := c.store.ListTokens(ctx, c.mapInfo.ID)
	if err != nil {
		return fmt.Errorf("load tokens: %w", err)
	}
	lights, err := c.store.ListLights(ctx, c.mapInfo.ID)
	if err != nil {
		return fmt.Errorf("load lights: %w", err)
	}
	traps, err := c.store.ListTraps(ctx, c.mapInfo.ID)
	if err != nil {
		return fmt.Errorf("load traps: %w", err)
	}
	pois, err := c.store.ListPois(ctx, c.mapInfo.ID)
	if err != nil {
		return fmt.Errorf("load pois: %w", err)
	}
	c.reg.ReplaceTokens(tokens)
	c.reg.ReplaceLights(lights)
	c.reg.ReplaceTraps(traps)
	c.reg.ReplacePois(pois)
	c.publish()
	return nil
}

// Mode reports the active interaction mode by priority.
func (c *Canvas) Mode() Mode {
	switch {
	case c.menu != nil:
		return ModeMenu
	case c.drag != nil:
		return ModeDrag
	case c.pendingToken != nil || c.pendingLight != "":
		return ModePlacement
	case c.panning:
		return ModePan
	default:
		return ModeIdle
	}
}

// CanPan reports whether a pan gesture may start: pan has the lowest
// priority and yields to every other mode.
func (c *Canvas) CanPan() bool {
	m := c.Mode()
	return m == ModeIdle || m == ModePan
}

// Tick drains resolved persistence calls. Call once per update frame.
func (c *Canvas) Tick() {
	for {
		select {
		case fn := <-c.completions:
			fn(c)
		default:
			return
		}
	}
}

// SetProjectionSink registers the player-display publisher.
func (c *Canvas) SetProjectionSink(fn func(Projection)) {
	c.onProjection = fn
	c.publish()
}

// SetMapImage attaches the loaded raster map for rendering.
func (c *Canvas) SetMapImage(img *ebiten.Image) { c.mapImage = img }

// Camera exposes the viewport state for rendering and hit tests.
func (c *Canvas) Camera() *Camera { return &c.cam }

// Registry exposes the entity collections read-only by convention.
func (c *Canvas) Registry() *Registry { return c.reg }

// MapInfo returns the immutable map record.
func (c *Canvas) MapInfo() MapInfo { return c.mapInfo }

// SessionLog exposes the interaction log.
func (c *Canvas) SessionLog() *SessionLog { return c.slog }

func (c *Canvas) publish() {
	if c.onProjection != nil {
		c.onProjection(c.Projection())
	}
}

// complete hands a closure back to the canvas goroutine. In
// synchronous mode it runs immediately.
func (c *Canvas) complete(fn completion) {
	if fn == nil {
		return
	}
	if c.synchronous {
		fn(c)
		return
	}
	select {
	case c.completions <- fn:
	default:
		// Queue full: apply a reload-everything fallback next tick is
		// not possible without queue space either, so log and drop.
		c.log.Errorw("completion queue full, dropping reconciliation")
	}
}

// callCtx returns the context for one persistence call.
func callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), callTimeout)
}
