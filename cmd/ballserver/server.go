package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/milk9111/bouncyballs/modes"
	"github.com/milk9111/bouncyballs/physics"
	"github.com/milk9111/bouncyballs/scene"
	"github.com/milk9111/bouncyballs/settings"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFrameInterval = time.Second / 60
	DefaultPingInterval  = 5 * time.Second

	writeWait   = 2 * time.Second
	clientQueue = 4
)

// message is the envelope for everything sent over the socket.
type message struct {
	Type   string                   `json:"type"`
	Frame  *physics.Frame           `json:"frame,omitempty"`
	Events []physics.CollisionEvent `json:"events,omitempty"`
	Mode   string                   `json:"mode,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

// command is what clients send.
type command struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Active bool    `json:"active"`
	Mode   string  `json:"mode"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server streams one shared scene to every connected websocket client.
type Server struct {
	upgrader      websocket.Upgrader
	frameInterval time.Duration
	pingInterval  time.Duration

	mu     sync.Mutex
	scene  *scene.Scene
	events []physics.CollisionEvent

	clientsMu sync.RWMutex
	clients   map[*client]struct{}
}

func NewServer(sc *scene.Scene) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		frameInterval: DefaultFrameInterval,
		pingInterval:  DefaultPingInterval,
		scene:         sc,
		clients:       make(map[*client]struct{}),
	}
	sc.Sim().SetSink(physics.EventSinkFunc(func(ev physics.CollisionEvent) {
		s.events = append(s.events, ev)
	}))
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.HandleWS)
	mux.HandleFunc("/config", s.handleConfig)
	return mux
}

// Run steps the scene on a ticker and broadcasts every frame until done is
// closed.
func (s *Server) Run(done <-chan struct{}) {
	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.broadcast(s.step(dt))
		}
	}
}

// step advances the scene and encodes the frame message.
func (s *Server) step(dt float64) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = s.events[:0]
	f := s.scene.Frame(dt)
	data, err := json.Marshal(message{Type: "frame", Frame: f, Events: s.events})
	if err != nil {
		log.Printf("ballserver: encode frame: %v", err)
		return nil
	}
	return data
}

func (s *Server) broadcast(data []byte) {
	if data == nil {
		return
	}
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// slow client: drop the frame, the next one supersedes it
		}
	}
}

func (s *Server) Clients() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ballserver: websocket upgrade: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientQueue)}

	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()

	go s.writePump(c)
	s.readPump(c)

	s.clientsMu.Lock()
	delete(s.clients, c)
	s.clientsMu.Unlock()
	close(c.send)
}

func (s *Server) readPump(c *client) {
	defer c.conn.Close()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ballserver: read: %v", err)
			}
			return
		}
		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.reply(c, message{Type: "error", Error: err.Error()})
			continue
		}
		if err := s.apply(cmd); err != nil {
			s.reply(c, message{Type: "error", Error: err.Error()})
		}
	}
}

func (s *Server) writePump(c *client) {
	ping := time.NewTicker(s.pingInterval)
	defer ping.Stop()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) reply(c *client, msg message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (s *Server) apply(cmd command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch cmd.Type {
	case "pointer":
		s.scene.SetPointer(cmd.X, cmd.Y, cmd.Active)
	case "reset":
		return s.scene.Reset()
	case "mode":
		kind, err := modes.ParseKind(cmd.Mode)
		if err != nil {
			return err
		}
		return s.scene.SetMode(kind)
	case "next":
		_, err := s.scene.NextMode()
		return err
	case "resize":
		s.scene.Resize(cmd.Width, cmd.Height)
	default:
		return fmt.Errorf("unknown command %q", cmd.Type)
	}
	return nil
}

// handleConfig returns the resolved spec as YAML on GET and applies a posted
// spec on POST.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		data, err := s.scene.Export()
		s.mu.Unlock()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(data)
	case http.MethodPost:
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var spec settings.SimulationSpec
		if err := yaml.Unmarshal(body, &spec); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		err = s.scene.Apply(spec)
		s.mu.Unlock()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}
