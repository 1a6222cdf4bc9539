package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/ari4325/real-time-notification-system/internal/domain/notification"
	"github.com/ari4325/real-time-notification-system/internal/obs/retry"
)

var (
	mCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifier_created_total", Help: "Notifications persisted",
	})
	mPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifier_published_total", Help: "Notifications handed to the delivery topic",
	})
	mPublishSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifier_publish_skipped_total", Help: "Notifications stored but never published",
	})
)

// Usecase is the ingest-facing core: validate, persist, then hand off to the
// delivery topic without making the caller wait on the broker.
type Usecase struct {
	log    *zap.Logger
	repo   notification.Repo
	events notification.Events
	pub    retry.Policy

	inflight sync.WaitGroup
}

func NewUsecase(log *zap.Logger, repo notification.Repo, events notification.Events, pub retry.Policy) *Usecase {
	if log == nil {
		log = zap.L()
	}
	return &Usecase{log: log.With(zap.String("component", "notifier")), repo: repo, events: events, pub: pub}
}

// Create persists the notification and schedules its publish. The create
// succeeds as soon as the record is durable; a broker outage only costs the
// live push, never the record.
func (u *Usecase) Create(ctx context.Context, ownerID, message string) (*notification.Notification, error) {
	n := &notification.Notification{OwnerID: ownerID, Message: message}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	mCreated.Inc()

	u.inflight.Add(1)
	go u.publish(n.Clone())

	return n, nil
}

func (u *Usecase) publish(n *notification.Notification) {
	defer u.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := retry.Do(ctx, func() error { return u.events.PublishCreated(ctx, n) }, u.pub)
	if err != nil {
		mPublishSkipped.Inc()
		u.log.Warn("notification stored but not published",
			zap.String("notification", n.ID), zap.String("owner", n.OwnerID), zap.Error(err))
		return
	}
	mPublished.Inc()
}

func (u *Usecase) ListByOwner(ctx context.Context, ownerID string) ([]*notification.Notification, error) {
	return u.repo.ListByOwner(ctx, ownerID)
}

func (u *Usecase) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	return u.repo.GetByID(ctx, id)
}

func (u *Usecase) MarkRead(ctx context.Context, id string) (*notification.Notification, error) {
	return u.repo.MarkRead(ctx, id)
}

// DrainPublishes waits for in-flight publish goroutines, up to timeout.
// Used at shutdown; losing the remainder is accepted best-effort delivery.
func (u *Usecase) DrainPublishes(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		u.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
