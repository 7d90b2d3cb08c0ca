// Package feed broadcasts catalog and order events to connected admin
// websocket clients.
package feed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/qr-table-order/utils"
)

const (
	EventOrderCreated = "order_created"
	EventOrderDeleted = "order_deleted"
	EventTableCreated = "table_created"
	EventTableDeleted = "table_deleted"
	EventMenuCreated  = "menu_created"
	EventMenuUpdated  = "menu_updated"
	EventMenuDeleted  = "menu_deleted"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

const (
	writeWait  = 10 * time.Second
	sendBuffer = 64
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks admin connections. Each client has its own queue and writer
// goroutine; Publish never writes to a socket.
type Hub struct {
	clients    map[*websocket.Conn]*client
	mutex      sync.Mutex
	writeWait  time.Duration
	sendBuffer int
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*client),
		writeWait:  writeWait,
		sendBuffer: sendBuffer,
	}
}

// Register adds the connection and starts its writer.
func (h *Hub) Register(conn *websocket.Conn) {
	cl := &client{conn: conn, send: make(chan []byte, h.sendBuffer)}

	h.mutex.Lock()
	h.clients[conn] = cl
	h.mutex.Unlock()

	go h.writePump(cl)
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.remove(conn)
}

// remove stops the client's writer and closes the socket, which also
// unblocks a write in progress. Callers hold the mutex.
func (h *Hub) remove(conn *websocket.Conn) {
	if cl, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(cl.send)
		conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish queues {event, data} for every client. A client whose queue is
// full is dropped. A nil hub discards events.
func (h *Hub) Publish(event string, data interface{}) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s event: %v", event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, cl := range h.clients {
		select {
		case cl.send <- payload:
		default:
			utils.ErrorLogger.Printf("Dropping slow admin feed client %s", conn.RemoteAddr())
			h.remove(conn)
		}
	}
}

func (h *Hub) writePump(cl *client) {
	for payload := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.Printf("Dropping admin feed client: %v", err)
			h.Unregister(cl.conn)
			return
		}
	}
}
