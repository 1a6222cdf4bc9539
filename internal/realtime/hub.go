package realtime

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/ari4325/real-time-notification-system/internal/domain/notification"
)

// Session is one live client able to receive pushed events. Send must not
// block; a session that cannot keep up should fail instead.
type Session interface {
	ID() string
	Send(n *notification.Notification) error
	Close() error
}

var (
	mSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hub_sessions", Help: "Currently registered sessions",
	})
	mDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hub_events_delivered_total", Help: "Events delivered to sessions",
	})
	mDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hub_events_dropped_total", Help: "Per-session deliveries that failed",
	})
	mBroadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hub_broadcasts_total", Help: "Broadcast calls",
	})
)

// Hub owns the live session set. It is the only shared state on the delivery
// side and is safe for concurrent register/unregister/broadcast.
type Hub struct {
	log *zap.Logger

	mu       sync.RWMutex
	sessions map[Session]struct{}
	closed   bool
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.L()
	}
	return &Hub{
		log:      log.With(zap.String("component", "hub")),
		sessions: make(map[Session]struct{}),
	}
}

// Register adds a session to the broadcast set. No-op if already registered
// or if the hub is shut down.
func (h *Hub) Register(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if _, ok := h.sessions[s]; ok {
		return
	}
	h.sessions[s] = struct{}{}
	mSessions.Set(float64(len(h.sessions)))
	h.log.Info("session registered", zap.String("session", s.ID()), zap.Int("sessions", len(h.sessions)))
}

// Unregister removes a session. No-op if absent.
func (h *Hub) Unregister(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[s]; !ok {
		return
	}
	delete(h.sessions, s)
	mSessions.Set(float64(len(h.sessions)))
	h.log.Info("session unregistered", zap.String("session", s.ID()), zap.Int("sessions", len(h.sessions)))
}

// Len reports the number of registered sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast pushes n to every session registered at the moment of the call.
// A failed send evicts that session but never blocks the rest or the caller.
func (h *Hub) Broadcast(n *notification.Notification) {
	mBroadcasts.Inc()

	h.mu.RLock()
	targets := make([]Session, 0, len(h.sessions))
	for s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	var dead []Session
	for _, s := range targets {
		if err := s.Send(n); err != nil {
			mDropped.Inc()
			h.log.Warn("send failed; evicting session",
				zap.String("session", s.ID()), zap.String("notification", n.ID), zap.Error(err))
			dead = append(dead, s)
			continue
		}
		mDelivered.Inc()
	}

	for _, s := range dead {
		h.Unregister(s)
		_ = s.Close()
	}
}

// Shutdown closes every session and refuses further registrations.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	sessions := make([]Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.sessions = make(map[Session]struct{})
	h.closed = true
	mSessions.Set(0)
	h.mu.Unlock()

	for _, s := range sessions {
		_ = s.Close()
	}
	h.log.Info("hub shut down", zap.Int("sessions_closed", len(sessions)))
}

var _ notification.Broadcaster = (*Hub)(nil)
