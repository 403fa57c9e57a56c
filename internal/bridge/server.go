package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Guliveer/vitalis/probe/internal/models"
)

const writeTimeout = 5 * time.Second

// Request is a client call.
type Request struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Args   Args   `json:"args"`
}

// Response is the reply to a Request, or a pushed telemetry message when
// Type is "telemetry".
type Response struct {
	ID     string      `json:"id,omitempty"`
	Type   string      `json:"type"`
	Result interface{} `json:"result,omitempty"`
	Error  *Error      `json:"error,omitempty"`
}

// Message types.
const (
	TypeResult    = "result"
	TypeError     = "error"
	TypeTelemetry = "telemetry"
)

// client is one websocket connection. gorilla connections allow a single
// concurrent writer, so writes go through writeMu.
type client struct {
	conn       *websocket.Conn
	writeMu    sync.Mutex
	subscribed atomic.Bool
}

func (c *client) send(msg Response) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Server exposes a Dispatcher over websocket.
type Server struct {
	dispatcher *Dispatcher
	token      string
	logger     *zap.Logger
	upgrader   websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewServer creates a server. An empty token disables authentication.
func NewServer(dispatcher *Dispatcher, token string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		dispatcher: dispatcher,
		token:      token,
		logger:     logger.Named("bridge"),
		clients:    make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes: /ws for the bridge and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	return mux
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !checkAuth(r, s.token) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	c := &client{conn: conn}
	s.addClient(c)
	defer s.removeClient(c)

	s.logger.Debug("Client connected", zap.String("remote", r.RemoteAddr))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.logger.Debug("Client disconnected", zap.String("remote", r.RemoteAddr), zap.Error(err))
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			_ = c.send(Response{Type: TypeError, Error: newError(CodeInvalidArgs, "Malformed request: %v", err)})
			continue
		}

		if err := c.send(s.handleRequest(r.Context(), c, req)); err != nil {
			s.logger.Debug("Write failed", zap.Error(err))
			return
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, c *client, req Request) Response {
	switch req.Method {
	case MethodSubscribe:
		c.subscribed.Store(true)
		return Response{ID: req.ID, Type: TypeResult, Result: true}
	case MethodUnsubscribe:
		c.subscribed.Store(false)
		return Response{ID: req.ID, Type: TypeResult, Result: true}
	}

	result, err := s.dispatcher.Handle(ctx, req.Method, req.Args)
	if err != nil {
		bridgeErr, ok := err.(*Error)
		if !ok {
			bridgeErr = newError(CodeUnavailable, "%v", err)
		}
		s.logger.Debug("Request failed",
			zap.String("method", req.Method),
			zap.String("code", bridgeErr.Code))
		return Response{ID: req.ID, Type: TypeError, Error: bridgeErr}
	}
	return Response{ID: req.ID, Type: TypeResult, Result: result}
}

// HasSubscribers reports whether any connected client has subscribed.
func (s *Server) HasSubscribers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		if c.subscribed.Load() {
			return true
		}
	}
	return false
}

// Broadcast pushes a sample to every subscribed client.
func (s *Server) Broadcast(result models.SampleResult) {
	s.mu.Lock()
	subs := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		if c.subscribed.Load() {
			subs = append(subs, c)
		}
	}
	s.mu.Unlock()

	msg := Response{Type: TypeTelemetry, Result: result}
	for _, c := range subs {
		if err := c.send(msg); err != nil {
			s.logger.Debug("Broadcast write failed", zap.Error(err))
		}
	}
}

func (s *Server) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c)
}
