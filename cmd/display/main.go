// The display command is the player-facing viewer. It connects to the
// DM relay over a websocket, keeps the latest projection, and renders
// it with its own independent camera.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/mapwright/battlemap/internal/canvas"
	"github.com/mapwright/battlemap/internal/logging"
	"github.com/mapwright/battlemap/internal/relay"
)

const (
	panSpeed    = 12.0
	reconnectIn = 3 * time.Second
	ftPerCell   = 5.0
)

type viewer struct {
	log *zap.SugaredLogger

	mu         sync.Mutex
	projection canvas.Projection
	connected  bool

	cam      canvas.Camera
	camReady bool
	width    int
	height   int
	mapImg   *ebiten.Image

	prevKeys map[ebiten.Key]bool
}

func newViewer(log *zap.SugaredLogger, width, height int, mapImg *ebiten.Image) *viewer {
	return &viewer{
		log:      log,
		width:    width,
		height:   height,
		mapImg:   mapImg,
		prevKeys: make(map[ebiten.Key]bool),
	}
}

// run maintains the relay connection, re-dialing after drops.
func (v *viewer) run(url string) {
	for {
		ws, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			v.log.Warnw("relay dial failed", "url", url, "error", err)
			time.Sleep(reconnectIn)
			continue
		}
		v.setConnected(true)
		v.log.Infow("relay connected", "url", url)
		v.readLoop(ws)
		v.setConnected(false)
		time.Sleep(reconnectIn)
	}
}

func (v *viewer) readLoop(ws *websocket.Conn) {
	defer ws.Close()
	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			v.log.Warnw("relay read failed", "error", err)
			return
		}
		var f relay.Frame
		if err := json.Unmarshal(msg, &f); err != nil {
			v.log.Warnw("bad relay frame", "error", err)
			continue
		}
		if f.Type != "projection" {
			continue
		}
		v.mu.Lock()
		v.projection = f.Projection
		v.mu.Unlock()
	}
}

func (v *viewer) setConnected(ok bool) {
	v.mu.Lock()
	v.connected = ok
	v.mu.Unlock()
}

func (v *viewer) snapshot() (canvas.Projection, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.projection, v.connected
}

func (v *viewer) keyPressed(k ebiten.Key) bool {
	now := ebiten.IsKeyPressed(k)
	was := v.prevKeys[k]
	v.prevKeys[k] = now
	return now && !was
}

func (v *viewer) Update() error {
	p, _ := v.snapshot()
	if !v.camReady && p.Width > 0 && p.Height > 0 {
		v.cam = canvas.NewCamera(float64(v.width), float64(v.height), p.Width, p.Height)
		v.camReady = true
	}

	if ebiten.IsKeyPressed(ebiten.KeyLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		v.cam.PanBy(panSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		v.cam.PanBy(-panSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		v.cam.PanBy(0, panSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		v.cam.PanBy(0, -panSpeed)
	}
	if v.keyPressed(ebiten.KeyEqual) {
		v.cam.ZoomIn()
	}
	if v.keyPressed(ebiten.KeyMinus) {
		v.cam.ZoomOut()
	}
	if v.keyPressed(ebiten.KeyR) {
		v.cam.Reset()
	}

	cx, cy := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	if wy != 0 {
		v.cam.ApplyWheel(wy, canvas.Point{X: float64(cx), Y: float64(cy)})
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 12, B: 16, A: 255})
	p, connected := v.snapshot()
	if !v.camReady {
		ebitenutil.DebugPrintAt(screen, "waiting for map...", 8, 8)
		return
	}
	s := v.cam.EffectiveScale()

	if v.mapImg != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(s, s)
		op.GeoM.Translate(v.cam.PanX, v.cam.PanY)
		screen.DrawImage(v.mapImg, op)
	} else {
		tl := v.cam.ToViewport(canvas.Point{})
		vector.FillRect(screen,
			float32(tl.X), float32(tl.Y),
			float32(p.Width*s), float32(p.Height*s),
			color.RGBA{R: 36, G: 34, B: 30, A: 255}, false)
	}

	cell := p.CellSize
	if cell <= 0 {
		cell = 50
	}

	// Light halos under everything else.
	for _, e := range p.Entities {
		if e.BrightFt <= 0 && e.DimFt <= 0 {
			continue
		}
		at := v.cam.ToViewport(canvas.Point{X: e.X, Y: e.Y})
		if e.DimFt > 0 {
			r := float32(e.DimFt / ftPerCell * cell * s)
			vector.FillCircle(screen, float32(at.X), float32(at.Y), r,
				color.RGBA{R: 255, G: 196, B: 110, A: 22}, true)
		}
		if e.BrightFt > 0 {
			r := float32(e.BrightFt / ftPerCell * cell * s)
			vector.FillCircle(screen, float32(at.X), float32(at.Y), r,
				color.RGBA{R: 255, G: 214, B: 140, A: 44}, true)
		}
	}

	for _, e := range p.Entities {
		at := v.cam.ToViewport(canvas.Point{X: e.X, Y: e.Y})
		x, y := float32(at.X), float32(at.Y)
		switch e.Kind {
		case canvas.KindToken:
			r := float32(cell * s * 0.4)
			if r < 6 {
				r = 6
			}
			vector.FillCircle(screen, x, y, r, entityColor(e.Color, colornames.Steelblue), true)
			vector.StrokeCircle(screen, x, y, r, 1.5, colornames.White, true)
			if e.Name != "" {
				ebitenutil.DebugPrintAt(screen, e.Name, int(x)-len(e.Name)*3, int(y+r)+4)
			}
		case canvas.KindTrap:
			half := float32(cell * s * 0.3)
			vector.StrokeLine(screen, x-half, y+half, x+half, y+half, 2, colornames.Orangered, true)
			vector.StrokeLine(screen, x-half, y+half, x, y-half, 2, colornames.Orangered, true)
			vector.StrokeLine(screen, x+half, y+half, x, y-half, 2, colornames.Orangered, true)
		case canvas.KindPoi:
			half := float32(cell * s * 0.3)
			clr := entityColor(e.Color, colornames.Gold)
			vector.StrokeLine(screen, x, y-half, x+half, y, 2, clr, true)
			vector.StrokeLine(screen, x+half, y, x, y+half, 2, clr, true)
			vector.StrokeLine(screen, x, y+half, x-half, y, 2, clr, true)
			vector.StrokeLine(screen, x-half, y, x, y-half, 2, clr, true)
			if e.Name != "" {
				ebitenutil.DebugPrintAt(screen, e.Name, int(x)-len(e.Name)*3, int(y+half)+4)
			}
		}
	}

	status := "live"
	if !connected {
		status = "reconnecting..."
	}
	ebitenutil.DebugPrintAt(screen, status, 8, v.height-16)
}

func (v *viewer) Layout(outsideW, outsideH int) (int, int) {
	return v.width, v.height
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// entityColor parses #rrggbb, falling back when absent or malformed.
func entityColor(hex string, fallback color.RGBA) color.RGBA {
	var r, g, b uint8
	if n, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil || n != 3 {
		return fallback
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func main() {
	var (
		relayURL = flag.String("relay", envOr("BATTLEMAP_RELAY", "ws://localhost:8321/ws"), "DM relay websocket URL")
		logFile  = flag.String("log", "battlemap-display.log", "log file path")
		imgPath  = flag.String("image", "", "map background image (optional)")
		width    = flag.Int("width", 1280, "window width")
		height   = flag.Int("height", 800, "window height")
	)
	flag.Parse()

	zl := logging.Init(*logFile)
	defer zl.Sync()

	var mapImg *ebiten.Image
	if *imgPath != "" {
		img, _, err := ebitenutil.NewImageFromFile(*imgPath)
		if err != nil {
			zl.Warnw("map image unavailable", "path", *imgPath, "error", err)
		} else {
			mapImg = img
		}
	}

	v := newViewer(zl, *width, *height, mapImg)
	go v.run(*relayURL)

	ebiten.SetWindowTitle("Battlemap Display")
	ebiten.SetWindowSize(*width, *height)
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
