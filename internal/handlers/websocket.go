package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/services/extract"
)

// ProgressMessage is the wire format of extraction progress events sent to
// websocket clients.
type ProgressMessage struct {
	Type      string `json:"type"`
	FileID    string `json:"fileId"`
	Stage     string `json:"stage"`
	Timestamp int64  `json:"timestamp"`
}

// wsClient is one connected websocket subscriber.
type wsClient struct {
	conn *websocket.Conn
	send chan ProgressMessage
}

// Hub fans extraction progress events out to connected websocket clients.
// It implements extract.Notifier.
type Hub struct {
	allowedOrigins []string

	clients    map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan ProgressMessage

	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// NewHub creates a websocket hub. Run must be called on its own goroutine
// before clients connect.
func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		allowedOrigins: allowedOrigins,
		clients:        make(map[*wsClient]bool),
		register:       make(chan *wsClient),
		unregister:     make(chan *wsClient),
		broadcast:      make(chan ProgressMessage, 64),
		shutdown:       make(chan struct{}),
	}
}

// Run dispatches registrations and broadcasts until Shutdown is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client; drop it rather than block the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
		case <-h.shutdown:
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// Shutdown stops the hub and disconnects all clients.
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		close(h.shutdown)
	})
}

// Publish implements extract.Notifier. Events are dropped when the
// broadcast buffer is full so extraction never blocks on slow consumers.
func (h *Hub) Publish(event extract.ProgressEvent) {
	message := ProgressMessage{
		Type:      "progress",
		FileID:    event.FileID,
		Stage:     event.Stage,
		Timestamp: time.Now().Unix(),
	}

	select {
	case h.broadcast <- message:
	default:
		log.Printf("Dropping progress event for %s: broadcast buffer full", event.FileID)
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	log.Printf("Rejected WebSocket connection from origin: %s", origin)
	return false
}

// ServeWs upgrades the request to a websocket connection and subscribes it
// to progress events.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket connection: %v", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan ProgressMessage, 16)}
	select {
	case h.register <- client:
	case <-h.shutdown:
		conn.Close()
		return
	}

	go h.writePump(client)
	go h.readPump(client)
}

func (h *Hub) writePump(client *wsClient) {
	defer client.conn.Close()

	for message := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := client.conn.WriteJSON(message); err != nil {
			return
		}
	}

	client.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump discards incoming messages; the feed is one-way. It exists to
// detect client disconnects.
func (h *Hub) readPump(client *wsClient) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.shutdown:
		}
		client.conn.Close()
	}()

	client.conn.SetReadLimit(512)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}
