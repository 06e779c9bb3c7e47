package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/status-im/market-dashboard/dashboard"
	"github.com/status-im/market-dashboard/metrics"
	"github.com/status-im/market-dashboard/notify"
)

const (
	MessageView         = "view"
	MessageNotification = "notification"
	MessageChart        = "chart"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	readLimit  = 512
)

// Message is the envelope of every push
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes session changes and notifications to websocket clients. A
// client that falls behind only gets the newest message.
type Hub struct {
	session  *dashboard.Session
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHub(session *dashboard.Session) *Hub {
	return &Hub{
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Start implements core.Interface. It pushes the session view whenever it changes.
func (h *Hub) Start(ctx context.Context) error {
	ctx, h.cancel = context.WithCancel(ctx)
	h.wg.Add(1)
	go h.run(ctx)
	return nil
}

func (h *Hub) run(ctx context.Context) {
	defer h.wg.Done()

	var lastChart dashboard.ChartState
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.session.Changes():
			h.Broadcast(MessageView, h.session.View())

			chart := h.session.ChartPanel()
			if chart.Status != lastChart.Status || chart.Key != nil && (lastChart.Key == nil || *chart.Key != *lastChart.Key) {
				h.Broadcast(MessageChart, chart)
				lastChart = chart
			}
		}
	}
}

// Stop implements core.Interface
func (h *Hub) Stop() {
	if h.cancel != nil {
		h.cancel()
	}
	h.wg.Wait()

	h.mu.Lock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	h.mu.Unlock()
	metrics.RecordWebsocketClients(0)
}

// Notify implements notify.Notifier
func (h *Hub) Notify(_ context.Context, n notify.Notification) error {
	return h.Broadcast(MessageNotification, n)
}

// Broadcast queues a message for every connected client
func (h *Hub) Broadcast(msgType string, data interface{}) error {
	payload, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
			continue
		default:
		}
		select {
		case <-c.send:
		default:
		}
		select {
		case c.send <- payload:
		default:
		}
	}
	return nil
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and sends the current view right away
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("Websocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 1)}
	if payload, err := json.Marshal(Message{Type: MessageView, Data: h.session.View()}); err == nil {
		c.send <- payload
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.RecordWebsocketClients(n)
	log.Debugf("Websocket client connected from %s (%d total)", r.RemoteAddr, n)

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.RecordWebsocketClients(n)
}

// readPump discards client messages and detects disconnects
func (h *Hub) readPump(c *client) {
	defer h.unregister(c)

	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debugf("Websocket read error: %v", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
