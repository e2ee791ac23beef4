package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/alanyang/insta-mosaic/internal/domain/event"
)

// writeWait bounds a single write so one stalled client cannot hold up the
// others.
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one websocket connection. gorilla/websocket allows a single
// concurrent writer per connection.
type client struct {
	conn     *websocket.Conn
	workerID uuid.UUID

	mu sync.Mutex
}

func (c *client) wants(e event.Event) bool {
	return c.workerID == uuid.Nil || c.workerID == e.WorkerID
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

type Hub struct {
	clients map[*client]struct{}
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) Register(rg *gin.RouterGroup) {
	rg.GET("", h.handleWS)
}

// handleWS streams every event, or only those of one worker when the
// worker_id query parameter is set.
func (h *Hub) handleWS(c *gin.Context) {
	var workerID uuid.UUID
	if v := c.Query("worker_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker_id"})
			return
		}
		workerID = id
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	cl := &client{conn: conn, workerID: workerID}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, cl)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(e event.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("websocket broadcast marshal failed", "error", err)
		return
	}

	var failed []*client
	h.mu.RLock()
	for cl := range h.clients {
		if !cl.wants(e) {
			continue
		}
		if err := cl.write(data); err != nil {
			slog.Warn("dropping websocket client", "error", err)
			failed = append(failed, cl)
		}
	}
	h.mu.RUnlock()

	if len(failed) == 0 {
		return
	}
	h.mu.Lock()
	for _, cl := range failed {
		delete(h.clients, cl)
	}
	h.mu.Unlock()
	for _, cl := range failed {
		cl.conn.Close()
	}
}
