package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/airgava/gimbalctl/internal/logging"
	"github.com/airgava/gimbalctl/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

// StatusMessage is the JSON payload broadcast to subscribers for each
// telemetry frame received from the gimbal.
type StatusMessage struct {
	Timestamp      time.Time `json:"timestamp"`
	ZAxisAngle     float64   `json:"z_axis_angle"`
	Pitch          float64   `json:"pitch"`
	Roll           float64   `json:"roll"`
	Yaw            float64   `json:"yaw"`
	RangingEnabled bool      `json:"ranging_enabled"`
	Distance       float64   `json:"distance"`
	Height         float64   `json:"height"`
	Longitude      float64   `json:"longitude"`
	Latitude       float64   `json:"latitude"`
	SelfTestPassed bool      `json:"self_test_passed"`
	EOZoom         float64   `json:"eo_zoom"`
	IRZoom         float64   `json:"ir_zoom"`
}

// NewStatusMessage builds the broadcast payload for a telemetry frame.
func NewStatusMessage(t *protocol.Telemetry) StatusMessage {
	return StatusMessage{
		Timestamp:      time.Now(),
		ZAxisAngle:     t.ZAxisAngle,
		Pitch:          t.Pitch,
		Roll:           t.Roll,
		Yaw:            t.Yaw,
		RangingEnabled: t.RangingEnabled,
		Distance:       t.Distance,
		Height:         t.Height,
		Longitude:      t.Longitude,
		Latitude:       t.Latitude,
		SelfTestPassed: t.SelfTestPassed,
		EOZoom:         t.EOZoom,
		IRZoom:         t.IRZoom,
	}
}

// Server publishes gimbal telemetry to WebSocket subscribers. Clients
// connect to /telemetry and receive one JSON StatusMessage per frame.
type Server struct {
	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewServer creates a relay server listening on addr (e.g. ":8765").
func NewServer(addr string) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			// Local tooling endpoint; clients are on the operator's network
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/telemetry", s.handleTelemetry)
	s.httpSrv = &http.Server{Addr: addr, Handler: mux}

	return s
}

// Start runs the HTTP listener. It blocks until the server is shut down
// and returns nil on graceful shutdown.
func (s *Server) Start() error {
	logging.Info("Telemetry relay listening", zap.String("addr", s.httpSrv.Addr))
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the listener and closes all subscriber connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for conn := range s.clients {
		_ = conn.Close()
		delete(s.clients, conn)
	}
	s.mu.Unlock()

	return s.httpSrv.Shutdown(ctx)
}

// ClientCount returns the number of connected subscribers.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Broadcast sends a telemetry frame to all connected subscribers.
// Subscribers that fail to accept the write are dropped.
func (s *Server) Broadcast(t *protocol.Telemetry) {
	data, err := json.Marshal(NewStatusMessage(t))
	if err != nil {
		logging.Error("Failed to marshal telemetry broadcast", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logging.Info("Dropping slow or closed subscriber",
				zap.String("remote_addr", conn.RemoteAddr().String()),
				zap.Error(err),
			)
			_ = conn.Close()
			delete(s.clients, conn)
		}
	}
}

// handleTelemetry upgrades the HTTP request and registers the subscriber.
func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	logging.LogConnection(conn.RemoteAddr().String(), "subscriber_connected")

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	go s.readLoop(conn)
	go s.pingLoop(conn)
}

// readLoop consumes inbound frames; subscribers only receive, so a read
// error means the peer is gone.
func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.remove(conn)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			logging.LogConnection(conn.RemoteAddr().String(), "subscriber_disconnected")
			return
		}
	}
}

// pingLoop keeps the connection alive while no telemetry is flowing.
func (s *Server) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}

func (s *Server) remove(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[conn] {
		_ = conn.Close()
		delete(s.clients, conn)
	}
}
