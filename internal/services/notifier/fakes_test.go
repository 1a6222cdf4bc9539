package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ari4325/real-time-notification-system/internal/domain/notification"
)

// memRepo is an in-memory stand-in for the postgres repo, with the same
// contract: ids assigned on insert, ErrNotFound on misses, insertion order.
type memRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]*notification.Notification
	order []string
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string]*notification.Notification)}
}

func (r *memRepo) Create(_ context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	n.ID = fmt.Sprintf("n-%d", r.seq)
	n.Read = false
	r.items[n.ID] = n.Clone()
	r.order = append(r.order, n.ID)
	return nil
}

func (r *memRepo) ListByOwner(_ context.Context, ownerID string) ([]*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*notification.Notification, 0)
	for _, id := range r.order {
		if n := r.items[id]; n.OwnerID == ownerID {
			out = append(out, n.Clone())
		}
	}
	return out, nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, notification.ErrNotFound
	}
	return n.Clone(), nil
}

func (r *memRepo) MarkRead(_ context.Context, id string) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, notification.ErrNotFound
	}
	n.Read = true
	return n.Clone(), nil
}

var _ notification.Repo = (*memRepo)(nil)

// stubEvents records publishes and can simulate a broker outage.
type stubEvents struct {
	mu        sync.Mutex
	fail      bool
	published []*notification.Notification
}

func (e *stubEvents) PublishCreated(_ context.Context, n *notification.Notification) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fail {
		return errors.New("broker unavailable")
	}
	e.published = append(e.published, n.Clone())
	return nil
}

func (e *stubEvents) all() []*notification.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*notification.Notification, len(e.published))
	copy(out, e.published)
	return out
}

var _ notification.Events = (*stubEvents)(nil)
