package live

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/hackhub/hackhub/go/internal/metrics"
)

// ConnectionConfig holds WebSocket tuning knobs
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns the production defaults
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// broadcast carries one message to every subscriber of a hackathon
type broadcast struct {
	hackathonID uuid.UUID
	data        []byte
}

// ConnectionManager fans registration events out to WebSocket subscribers,
// pooled per hackathon.
type ConnectionManager struct {
	connections map[uuid.UUID]map[*Connection]bool
	mu          sync.RWMutex

	upgrader    websocket.Upgrader
	config      ConnectionConfig
	broadcastCh chan broadcast
}

// Connection is one subscriber's WebSocket
type Connection struct {
	ID          string
	HackathonID uuid.UUID
	Conn        *websocket.Conn
	Send        chan []byte
	Manager     *ConnectionManager
	ConnectedAt time.Time
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan broadcast, 1000),
	}
}

// Start processes broadcast messages until the context ends
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("live connection manager started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("live connection manager shutting down")
			return
		case msg := <-cm.broadcastCh:
			cm.handleBroadcast(msg)
		}
	}
}

// Upgrade promotes an HTTP request to a WebSocket subscribed to one
// hackathon's events.
func (cm *ConnectionManager) Upgrade(w http.ResponseWriter, r *http.Request, hackathonID uuid.UUID) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		HackathonID: hackathonID,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     cm,
		ConnectedAt: time.Now(),
	}

	cm.register(connection)
	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("hackathon_id", hackathonID.String()).
		Msg("WebSocket connection established")
	return nil
}

// Broadcast queues a message for every subscriber of the hackathon. A full
// queue drops the message rather than blocking the caller.
func (cm *ConnectionManager) Broadcast(hackathonID uuid.UUID, data []byte) {
	select {
	case cm.broadcastCh <- broadcast{hackathonID: hackathonID, data: data}:
	default:
		log.Warn().Str("hackathon_id", hackathonID.String()).Msg("broadcast channel full, dropping message")
	}
}

// ConnectionCount returns the number of active subscriptions
func (cm *ConnectionManager) ConnectionCount() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	total := 0
	for _, conns := range cm.connections {
		total += len(conns)
	}
	return total
}

func (cm *ConnectionManager) register(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.connections[conn.HackathonID] == nil {
		cm.connections[conn.HackathonID] = make(map[*Connection]bool)
	}
	cm.connections[conn.HackathonID][conn] = true
	metrics.LiveConnections.Inc()
}

func (cm *ConnectionManager) unregister(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if conns, ok := cm.connections[conn.HackathonID]; ok {
		if _, ok := conns[conn]; ok {
			delete(conns, conn)
			close(conn.Send)
			if len(conns) == 0 {
				delete(cm.connections, conn.HackathonID)
			}
			metrics.LiveConnections.Dec()
			log.Info().
				Str("connection_id", conn.ID).
				Str("hackathon_id", conn.HackathonID.String()).
				Msg("connection unregistered")
		}
	}
}

func (cm *ConnectionManager) handleBroadcast(msg broadcast) {
	cm.mu.RLock()
	conns, ok := cm.connections[msg.hackathonID]
	if !ok {
		cm.mu.RUnlock()
		return
	}
	targets := make([]*Connection, 0, len(conns))
	for conn := range conns {
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range targets {
		select {
		case conn.Send <- msg.data:
		default:
			// Slow consumer: drop the connection instead of the feed.
			log.Warn().
				Str("connection_id", conn.ID).
				Msg("connection send buffer full, closing connection")
			cm.unregister(conn)
			conn.Conn.Close()
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to write WebSocket message")
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	// The feed is one-way; client frames only keep the connection alive.
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("unexpected WebSocket close")
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}
