package eventbus

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WSStream exposes a read-only fan-out of bus events to external
// observers (the presentation layer, spectator tools) over WebSocket.
// The bus itself stays in-process and authoritative; this is purely an
// observation tap, never a command-submission channel.
type WSStream struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
}

// NewWSStream constructs a stream tap with permissive origin checking
// suitable for a trusted LAN/companion-tool deployment; production
// deployments should tighten CheckOrigin.
func NewWSStream() *WSStream {
	return &WSStream{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// outboundEvent is the wire envelope sent to every connected client.
type outboundEvent struct {
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload"`
}

// ServeHTTP upgrades the connection and registers it as a subscriber
// until the client disconnects. The connection is read-only from the
// client's perspective: any inbound message is discarded, since this tap
// never accepts commands.
func (w *WSStream) ServeHTTP(wr http.ResponseWriter, r *http.Request) {
	conn, err := w.upgrader.Upgrade(wr, r, nil)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.clients[conn] = struct{}{}
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		delete(w.clients, conn)
		w.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Forward subscribes the stream to topic on bus, broadcasting every
// published event to all connected WebSocket clients as JSON.
func (w *WSStream) Forward(bus *Bus, topic Topic) Disposable {
	return bus.SubscribeDisposable(topic, func(event interface{}) {
		w.broadcast(string(topic), event)
	})
}

func (w *WSStream) broadcast(topic string, payload interface{}) {
	data, err := json.Marshal(outboundEvent{Topic: topic, Payload: payload})
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for conn := range w.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(w.clients, conn)
		}
	}
}
