package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ari4325/real-time-notification-system/internal/realtime"
	"github.com/ari4325/real-time-notification-system/internal/services/notifier"
)

type RouterConfig struct {
	JWTSecret  string
	SendBuffer int
}

// NewRouter wires the ingest API and the websocket endpoint. Everything is
// behind bearer auth; the caller's identity is the notification owner.
func NewRouter(log *zap.Logger, uc *notifier.Usecase, hub *realtime.Hub, cfg RouterConfig) http.Handler {
	h := &Handler{Log: log, UC: uc}
	ws := &WSHandler{
		Log:        log,
		Hub:        hub,
		SendBuffer: cfg.SendBuffer,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(Auth(cfg.JWTSecret))
		r.Route("/api/notifications", func(r chi.Router) {
			r.Post("/", h.create)
			r.Get("/", h.list)
			r.Get("/{id}", h.get)
			r.Put("/{id}", h.markRead)
		})
		r.Get("/ws", ws.ServeHTTP)
	})

	return r
}
