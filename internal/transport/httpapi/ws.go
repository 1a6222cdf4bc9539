package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ari4325/real-time-notification-system/internal/realtime"
)

type WSHandler struct {
	Log        *zap.Logger
	Hub        *realtime.Hub
	SendBuffer int
	Upgrader   websocket.Upgrader
}

// ServeHTTP upgrades the connection and keeps the session registered for its
// whole lifetime. The read loop only exists to notice the disconnect.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sess := realtime.NewWSSession(conn, h.SendBuffer, h.Log)
	h.Hub.Register(sess)
	sess.ReadLoop(func() { h.Hub.Unregister(sess) })
}
