// Package relay broadcasts the player-facing map projection to display
// clients over websockets. The DM process hosts it; displays connect,
// receive the latest snapshot immediately, then every subsequent
// update.
package relay

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mapwright/battlemap/internal/canvas"
)

const (
	writeWait     = 5 * time.Second
	clientBacklog = 16
)

// Frame is the wire envelope every relay message uses.
type Frame struct {
	Type       string            `json:"type"` // "projection"
	Projection canvas.Projection `json:"projection"`
}

// client wraps one display connection with a buffered send queue so a
// slow display never blocks the DM's update loop.
type client struct {
	ws   *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// enqueue drops the oldest pending message when the queue is full;
// displays only care about the latest state.
func (c *client) enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
		select {
		case <-c.send:
		default:
		}
		select {
		case c.send <- b:
		default:
		}
	}
}

// Server fans the projection out to connected displays.
type Server struct {
	log      *zap.SugaredLogger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	clients  map[*client]struct{}
	snapshot []byte // latest frame, sent to newly connected displays
}

func NewServer(log *zap.SugaredLogger) *Server {
	return &Server{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Displays connect from other machines on the table LAN.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Publish marshals the projection and broadcasts it. Safe to call from
// the canvas goroutine; marshalling happens inline, delivery does not.
func (s *Server) Publish(p canvas.Projection) {
	b, err := json.Marshal(Frame{Type: "projection", Projection: p})
	if err != nil {
		s.log.Errorw("marshal projection", "error", err)
		return
	}
	s.mu.Lock()
	s.snapshot = b
	for c := range s.clients {
		c.enqueue(b)
	}
	s.mu.Unlock()
}

// ServeHTTP upgrades a display connection and starts its pumps.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("websocket upgrade failed", "error", err)
		return
	}
	c := &client{ws: ws, send: make(chan []byte, clientBacklog)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	if s.snapshot != nil {
		c.enqueue(s.snapshot)
	}
	n := len(s.clients)
	s.mu.Unlock()
	s.log.Infow("display connected", "remote", r.RemoteAddr, "displays", n)

	go c.writePump()
	go s.readPump(c)
}

// readPump discards inbound traffic; the relay is one-way. Its only
// job is detecting disconnects.
func (s *Server) readPump(c *client) {
	defer func() {
		s.mu.Lock()
		if _, ok := s.clients[c]; ok {
			delete(s.clients, c)
			close(c.send)
		}
		s.mu.Unlock()
		s.log.Infow("display disconnected")
	}()
	c.ws.SetReadLimit(1 << 16)
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}
