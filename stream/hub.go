package stream

import (
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lixenwraith/toybox/physics"
	"github.com/lixenwraith/toybox/status"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 5 * time.Second
	// Time allowed to read the next pong message from the peer
	pongWait = 30 * time.Second
	// Send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
	// Viewers only send control frames
	maxMessageSize = 512
)

var ErrClosed = errors.New("stream: hub closed")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Viewers are local debugging pages served from anywhere
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Config tunes the hub
type Config struct {
	// TickHz is reported to viewers in the welcome frame
	TickHz int
	// ClientQueue is the per-viewer frame buffer, the oldest frame is dropped when full
	ClientQueue int
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to connected viewers without ever blocking the caller
type Hub struct {
	cfg Config
	log *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	wg      sync.WaitGroup

	connected *atomic.Int64
	dropped   *atomic.Int64
}

// NewHub creates a hub; log and metrics may be nil
func NewHub(cfg Config, log *zap.Logger, metrics *status.Registry) *Hub {
	if cfg.ClientQueue < 1 {
		cfg.ClientQueue = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	return &Hub{
		cfg:       cfg,
		log:       log.Named("stream"),
		clients:   make(map[*client]struct{}),
		connected: metrics.Counter(status.Clients),
		dropped:   metrics.Counter(status.Dropped),
	}
}

// ServeHTTP upgrades a viewer connection and greets it
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, h.cfg.ClientQueue+1),
	}
	welcome, err := encode(TypeWelcome, Welcome{Session: c.id, TickHz: h.cfg.TickHz})
	if err != nil {
		h.log.Error("encode welcome", zap.Error(err))
		conn.Close()
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	c.send <- welcome
	h.wg.Add(2)
	h.mu.Unlock()

	h.connected.Add(1)
	h.log.Info("viewer connected", zap.String("session", c.id), zap.String("remote", r.RemoteAddr))

	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast queues the snapshot for every viewer
func (h *Hub) Broadcast(s physics.Snapshot) error {
	msg, err := encode(TypeState, StateFrom(s))
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	for c := range h.clients {
		if !offer(c.send, msg) {
			h.dropped.Add(1)
		}
	}
	return nil
}

// offer enqueues msg, evicting the oldest queued frame when the buffer is full
// Returns false when a frame was evicted
func offer(ch chan []byte, msg []byte) bool {
	select {
	case ch <- msg:
		return true
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- msg:
	default:
	}
	return false
}

// Clients returns the number of connected viewers
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every viewer and waits for their goroutines
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		h.connected.Add(-1)
	}
	h.mu.Unlock()

	h.wg.Wait()
	h.log.Info("hub closed")
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.connected.Add(-1)
		h.log.Info("viewer disconnected", zap.String("session", c.id))
	}
}

// readPump discards viewer frames and detects disconnects
func (h *Hub) readPump(c *client) {
	defer h.wg.Done()
	defer h.remove(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("viewer read error", zap.String("session", c.id), zap.Error(err))
			}
			return
		}
	}
}

// writePump owns all writes to the connection and closes it on exit
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		h.wg.Done()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.Debug("viewer write failed", zap.String("session", c.id), zap.Error(err))
				h.remove(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}
