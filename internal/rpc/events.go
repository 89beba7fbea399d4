package rpc

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/duopane/engine/pkg/log"
)

// event is the one-way envelope pushed to every connected UI client
// (spec §6 "Events emitted to UI").
type event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the UI is a local desktop shell talking to a loopback-bound engine,
	// not a browser page served cross-origin.
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// hub fans events out to every connected UI websocket client.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan event
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]chan event)}
}

func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithComponent("rpc").Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	out := make(chan event, 64)
	h.mu.Lock()
	h.clients[conn] = out
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// drain reads to notice client-initiated close; the UI never sends
	// application messages on this connection.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				close(out)
				return
			}
		}
	}()

	for evt := range out {
		data, err := json.Marshal(evt)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// broadcast pushes evt to every connected client, dropping it for any
// client whose outbound buffer is full rather than blocking the caller.
func (h *hub) broadcast(evt event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.clients {
		select {
		case ch <- evt:
		default:
		}
	}
}
