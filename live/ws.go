package live

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeWait = 10 * time.Second

// ServeWS upgrades the connection and streams events until the client goes
// away. The stream is read-only for clients; inbound frames are drained and
// ignored.
func ServeWS(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("live: upgrade: %v", err)
			return
		}

		client := &Client{Send: make(chan []byte, 16)}
		hub.Register(client)

		go func() {
			defer conn.Close()
			for data := range client.Send {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					hub.Unregister(client)
					return
				}
			}
		}()

		// reader goroutine: detect disconnects
		go func() {
			defer conn.Close()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					hub.Unregister(client)
					return
				}
			}
		}()
	}
}
