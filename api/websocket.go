package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades the connection and streams every
// BroadcastEvent for one session to it until the client disconnects.
// The session is named by the "session" query parameter (all sessions,
// if it's empty); there is no client->server subscription protocol to
// negotiate on top of that, since a /ws connection exists to watch one
// session's translation events, not to renegotiate what it watches.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	sub := s.broadcaster.Subscribe(r.URL.Query().Get("session"), nil)
	go readKeepalive(conn, s.broadcaster, sub)
	writeEvents(conn, sub)
}

// readKeepalive does nothing with incoming frames beyond answering
// pongs and noticing the socket close; the feed this endpoint serves is
// server -> client only. It unsubscribes sub once the client goes away,
// which is what lets writeEvents's range over sub.Channel end too.
func readKeepalive(conn *websocket.Conn, b *Broadcaster, sub *Subscription) {
	defer b.Unsubscribe(sub)

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeEvents forwards sub's events to conn and pings it periodically,
// until sub's channel is closed (by readKeepalive's Unsubscribe) or a
// write fails.
func writeEvents(conn *websocket.Conn, sub *Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := conn.Close(); err != nil {
			log.Printf("websocket close error: %v", err)
		}
	}()

	for {
		select {
		case event, ok := <-sub.Channel:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("websocket write error: %v", err)
				return
			}

		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
