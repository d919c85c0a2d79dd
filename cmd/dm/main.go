package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/mapwright/battlemap/internal/canvas"
	"github.com/mapwright/battlemap/internal/logging"
	"github.com/mapwright/battlemap/internal/relay"
	"github.com/mapwright/battlemap/internal/store"
)

func main() {
	var (
		mapID    = flag.String("map-id", "map-1", "map to open")
		storeURL = flag.String("store", envOr("BATTLEMAP_STORE", "http://localhost:8320"), "persistence service base URL")
		listen   = flag.String("listen", envOr("BATTLEMAP_LISTEN", ":8321"), "display relay listen address")
		logFile  = flag.String("log", "battlemap.log", "log file path")
		imgPath  = flag.String("image", "", "map background image (optional, overrides stored URL)")
		width    = flag.Int("width", 1280, "window width")
		height   = flag.Int("height", 800, "window height")
	)
	flag.Parse()

	zl := logging.Init(*logFile)
	defer zl.Sync()

	st := store.New(*storeURL, zl)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	info, err := st.Map(ctx, *mapID)
	cancel()
	if err != nil {
		log.Fatalf("load map %s: %v", *mapID, err)
	}
	zl.Infow("map loaded", "id", info.ID, "name", info.Name, "grid", info.Grid)

	c := canvas.New(zl, st, info, float64(*width), float64(*height))

	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	err = c.Load(ctx)
	cancel()
	if err != nil {
		log.Fatalf("load entities: %v", err)
	}

	if path := mapImagePath(*imgPath, info); path != "" {
		img, _, err := ebitenutil.NewImageFromFile(path)
		if err != nil {
			zl.Warnw("map image unavailable, using placeholder", "path", path, "error", err)
		} else {
			c.SetMapImage(img)
		}
	}

	srv := relay.NewServer(zl)
	c.SetProjectionSink(srv.Publish)
	mux := http.NewServeMux()
	mux.Handle("/ws", srv)
	go func() {
		zl.Infow("relay listening", "addr", *listen)
		if err := http.ListenAndServe(*listen, mux); err != nil {
			zl.Errorw("relay stopped", "error", err)
		}
	}()

	ebiten.SetWindowTitle("Battlemap DM - " + info.Name)
	ebiten.SetWindowSize(*width, *height)
	if err := ebiten.RunGame(c); err != nil {
		log.Fatal(err)
	}
}

// mapImagePath prefers the -image flag, falling back to the path the
// store recorded for the map.
func mapImagePath(flagPath string, info canvas.MapInfo) string {
	if flagPath != "" {
		return flagPath
	}
	return info.ImageURL
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
