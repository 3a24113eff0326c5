package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 5 * time.Second

// envelope wraps every published event with its type tag on the wire.
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// WebSocketPublisher broadcasts events as JSON to every connected observer.
// Slow or broken observers are dropped rather than blocking the engine.
type WebSocketPublisher struct {
	addr     string
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu          sync.RWMutex
	connections map[*websocket.Conn]bool
	lastState   *StateSnapshot

	server *http.Server
}

// NewWebSocketPublisher creates a publisher that will serve /ws on addr.
func NewWebSocketPublisher(addr string, logger *log.Logger) *WebSocketPublisher {
	return &WebSocketPublisher{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("ws"),
		connections: make(map[*websocket.Conn]bool),
	}
}

// Start begins serving in a background goroutine.
func (p *WebSocketPublisher) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", p.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	})

	p.server = &http.Server{Addr: p.addr, Handler: mux}
	p.logger.Info("serving events", "addr", p.addr)

	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			p.logger.Error("event server stopped", "error", err)
		}
	}()
	return nil
}

// Stop shuts the server down and closes all observer connections.
func (p *WebSocketPublisher) Stop() error {
	p.mu.Lock()
	for conn := range p.connections {
		_ = conn.Close()
	}
	p.connections = make(map[*websocket.Conn]bool)
	p.mu.Unlock()

	if p.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return p.server.Shutdown(ctx)
	}
	return nil
}

func (p *WebSocketPublisher) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	p.mu.Lock()
	p.connections[conn] = true
	last := p.lastState
	total := len(p.connections)
	p.mu.Unlock()
	p.logger.Info("observer connected", "total", total)

	// New observers immediately get the latest snapshot.
	if last != nil {
		p.send(conn, envelope{Type: "state", Payload: *last})
	}

	// Drain reads so pings and close frames are processed.
	go func() {
		defer p.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (p *WebSocketPublisher) drop(conn *websocket.Conn) {
	p.mu.Lock()
	if _, ok := p.connections[conn]; ok {
		delete(p.connections, conn)
		_ = conn.Close()
	}
	total := len(p.connections)
	p.mu.Unlock()
	p.logger.Info("observer disconnected", "total", total)
}

func (p *WebSocketPublisher) send(conn *websocket.Conn, env envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		p.logger.Error("failed to marshal event", "type", env.Type, "error", err)
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		p.drop(conn)
	}
}

func (p *WebSocketPublisher) broadcast(eventType string, payload any) error {
	p.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(p.connections))
	for conn := range p.connections {
		conns = append(conns, conn)
	}
	p.mu.RUnlock()

	env := envelope{Type: eventType, Payload: payload}
	for _, conn := range conns {
		p.send(conn, env)
	}
	return nil
}

func (p *WebSocketPublisher) PublishMatchCompleted(ev MatchCompleted) error {
	return p.broadcast("match_completed", ev)
}

func (p *WebSocketPublisher) PublishStandingsUpdated(ev StandingsUpdated) error {
	return p.broadcast("standings_updated", ev)
}

func (p *WebSocketPublisher) PublishRoundStarted(ev RoundStarted) error {
	return p.broadcast("round_started", ev)
}

func (p *WebSocketPublisher) PublishEventStarted(ev EventStarted) error {
	return p.broadcast("event_started", ev)
}

func (p *WebSocketPublisher) PublishEventCompleted(ev EventCompleted) error {
	return p.broadcast("event_completed", ev)
}

func (p *WebSocketPublisher) PublishEventStepCompleted(ev EventStepCompleted) error {
	return p.broadcast("event_step_completed", ev)
}

func (p *WebSocketPublisher) PublishTournamentStarted(ev TournamentStarted) error {
	return p.broadcast("tournament_started", ev)
}

func (p *WebSocketPublisher) PublishTournamentProgressUpdated(ev TournamentProgress) error {
	return p.broadcast("tournament_progress", ev)
}

func (p *WebSocketPublisher) PublishTournamentCompleted(ev TournamentCompleted) error {
	return p.broadcast("tournament_completed", ev)
}

func (p *WebSocketPublisher) UpdateCurrentState(state StateSnapshot) error {
	p.mu.Lock()
	p.lastState = &state
	p.mu.Unlock()
	return p.broadcast("state", state)
}
