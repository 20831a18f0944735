package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"raw-viewer/internal/jobs"
	"raw-viewer/internal/logging"
)

// statusEvent is the message pushed to websocket clients when a job
// reaches a terminal state. Polling /api/status remains authoritative;
// the push is a hint that a poll is worthwhile.
type statusEvent struct {
	Type string `json:"type"`
	statusResponse
}

func newStatusEvent(st jobs.Status) statusEvent {
	return statusEvent{
		Type:           "status",
		statusResponse: statusResponse{Status: st, Done: st.Done()},
	}
}

// Hub fans job status updates out to connected websocket clients. The
// client set is owned by the run loop; handler goroutines talk to it
// through channels only.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	once       sync.Once
}

// NewHub creates a hub. Call Run to start its loop.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}
}

// Run starts the hub loop in its own goroutine.
func (hub *Hub) Run() {
	go hub.loop()
}

func (hub *Hub) loop() {
	for {
		select {
		case conn := <-hub.register:
			hub.clients[conn] = true
			logging.Debug("Websocket client connected, %d total", len(hub.clients))
		case conn := <-hub.unregister:
			if _, ok := hub.clients[conn]; ok {
				delete(hub.clients, conn)
				conn.Close()
			}
			logging.Debug("Websocket client disconnected, %d remain", len(hub.clients))
		case message := <-hub.broadcast:
			for conn := range hub.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					logging.Warn("Websocket write failed, dropping client: %v", err)
					conn.Close()
					delete(hub.clients, conn)
				}
			}
		case <-hub.done:
			for conn := range hub.clients {
				conn.Close()
				delete(hub.clients, conn)
			}
			return
		}
	}
}

// Stop disconnects all clients and ends the loop.
func (hub *Hub) Stop() {
	hub.once.Do(func() { close(hub.done) })
}

// BroadcastStatus queues a status event for delivery to all clients.
// Delivery is best effort: when the hub is saturated or stopped the
// event is dropped, since clients poll for the authoritative record.
func (hub *Hub) BroadcastStatus(st jobs.Status) {
	data, err := json.Marshal(newStatusEvent(st))
	if err != nil {
		logging.Error("Failed to marshal status event: %v", err)
		return
	}
	select {
	case hub.broadcast <- data:
	default:
		logging.Debug("Websocket broadcast dropped, hub busy")
	}
}

// add registers a connection, failing once the hub has stopped.
func (hub *Hub) add(conn *websocket.Conn) bool {
	select {
	case hub.register <- conn:
		return true
	case <-hub.done:
		return false
	}
}

// remove unregisters a connection.
func (hub *Hub) remove(conn *websocket.Conn) {
	select {
	case hub.unregister <- conn:
	case <-hub.done:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// ServeWS upgrades the connection and streams status events until the
// client goes away. GET /api/ws
func (h *Handlers) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("Websocket upgrade failed: %v", err)
		return
	}

	// Send the current record before registering, so this write cannot
	// interleave with a hub broadcast on the same connection.
	if st, ok := h.coordinator.Status(); ok {
		if data, err := json.Marshal(newStatusEvent(st)); err == nil {
			conn.WriteMessage(websocket.TextMessage, data)
		}
	}

	if !h.hub.add(conn) {
		conn.Close()
		return
	}

	// Reads only detect disconnection; clients have nothing to say.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.hub.remove(conn)
				return
			}
		}
	}()
}
