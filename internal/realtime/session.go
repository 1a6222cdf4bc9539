package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ari4325/real-time-notification-system/internal/domain/notification"
)

// Event is the only outbound frame the service emits to a session.
type Event struct {
	Event string                     `json:"event"`
	Data  *notification.Notification `json:"data"`
}

const EventNotification = "notification"

var ErrSessionBusy = errors.New("session send buffer full")

const writeTimeout = 5 * time.Second

// WSSession adapts one websocket connection to the hub. Sends go through a
// buffered channel drained by a single write pump, so Send never blocks on
// the socket and concurrent broadcasts never interleave writes.
type WSSession struct {
	id   string
	conn *websocket.Conn
	log  *zap.Logger

	out  chan *notification.Notification
	done chan struct{}
	once sync.Once
}

func NewWSSession(conn *websocket.Conn, buffer int, log *zap.Logger) *WSSession {
	if buffer <= 0 {
		buffer = 16
	}
	if log == nil {
		log = zap.L()
	}
	id := uuid.NewString()
	s := &WSSession{
		id:   id,
		conn: conn,
		log:  log.With(zap.String("component", "ws.session"), zap.String("session", id)),
		out:  make(chan *notification.Notification, buffer),
		done: make(chan struct{}),
	}
	go s.writePump()
	return s
}

func (s *WSSession) ID() string { return s.id }

// Send queues n for delivery. It fails fast when the session is closed or
// its buffer is full; the hub treats that as a dead session.
func (s *WSSession) Send(n *notification.Notification) error {
	select {
	case <-s.done:
		return errors.New("session closed")
	default:
	}
	select {
	case s.out <- n:
		return nil
	default:
		return ErrSessionBusy
	}
}

func (s *WSSession) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *WSSession) writePump() {
	for {
		select {
		case <-s.done:
			return
		case n := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteJSON(Event{Event: EventNotification, Data: n}); err != nil {
				s.log.Warn("write failed", zap.Error(err))
				_ = s.Close()
				return
			}
		}
	}
}

// ReadLoop consumes inbound frames until the peer goes away. The service
// ignores client payloads; reading only surfaces the disconnect.
func (s *WSSession) ReadLoop(onClose func()) {
	defer func() {
		_ = s.Close()
		if onClose != nil {
			onClose()
		}
	}()
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
