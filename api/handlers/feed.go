package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/roadwatch/accident-tracker-api/feed"
)

// FeedSocket exported for testing purposes
type FeedSocket struct {
	Feed *feed.Feed
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and streams report snapshots. The client
// gets the current snapshot on connect and a full replacement on every
// change. A closed subscription channel means the feed hit a terminal error,
// so the socket closes and the client must reconnect.
func (f FeedSocket) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().With(err).Error("failed to upgrade websocket")
		return
	}
	defer conn.Close()

	id, ch := f.Feed.Subscribe()
	defer f.Feed.Unsubscribe(id)

	// drain reads so we notice the client going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snapshot, ok := <-ch:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "feed stopped"))
				return
			}
			if err := conn.WriteJSON(snapshot); err != nil {
				zap.S().Debugf("feed subscriber write failed: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}
