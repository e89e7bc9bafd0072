package web

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	maxClients    = 100
	writeTimeout  = 10 * time.Second
	pongTimeout   = 60 * time.Second
	pingInterval  = 30 * time.Second
	sendBufferLen = 256
)

// Message is the envelope for every websocket broadcast.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	Time string      `json:"time"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans messages out to all connected websocket clients.
type Hub struct {
	clients     map[*client]bool
	broadcast   chan Message
	register    chan *client
	unregister  chan *client
	shutdown    chan struct{}
	upgrader    websocket.Upgrader
	log         *zap.SugaredLogger
	clientCount atomic.Int32
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		shutdown:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

// Run processes register, unregister and broadcast events until Shutdown.
func (h *Hub) Run() {
	for {
		select {
		case <-h.shutdown:
			for c := range h.clients {
				close(c.send)
				c.conn.Close()
			}
			h.clients = make(map[*client]bool)
			h.clientCount.Store(0)
			return

		case c := <-h.register:
			if len(h.clients) >= maxClients {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server at capacity"))
				c.conn.Close()
				h.log.Warnw("websocket client rejected", "max", maxClients)
				continue
			}
			h.clients[c] = true
			h.clientCount.Store(int32(len(h.clients)))
			h.log.Infow("websocket client connected", "clients", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.clientCount.Store(int32(len(h.clients)))
			h.log.Infow("websocket client disconnected", "clients", len(h.clients))

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				h.log.Errorw("marshal broadcast message", "error", err)
				continue
			}
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					// Buffer full, drop the client rather than block the hub.
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.clientCount.Store(int32(len(h.clients)))
		}
	}
}

// Shutdown closes every client connection and stops the hub loop.
func (h *Hub) Shutdown() {
	close(h.shutdown)
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.clientCount.Load())
}

// Broadcast queues a message for all clients. Messages are dropped when
// the hub backlog is full.
func (h *Hub) Broadcast(msgType string, data interface{}) {
	msg := Message{Type: msgType, Data: data, Time: time.Now().Format(time.RFC3339)}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warnw("broadcast backlog full, dropping message", "type", msgType)
	}
}

// HandleWS upgrades the request and attaches the client to the hub.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorw("websocket upgrade", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufferLen)}
	select {
	case h.register <- c:
	case <-h.shutdown:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h)
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump(h *Hub) {
	defer func() {
		// After Shutdown nothing receives on unregister.
		select {
		case h.unregister <- c:
		case <-h.shutdown:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warnw("websocket read", "error", err)
			}
			break
		}
	}
}
