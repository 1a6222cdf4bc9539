package kafka

import (
	"context"

	"github.com/ari4325/real-time-notification-system/internal/domain/notification"
)

// NotificationEvents publishes created notifications to the delivery topic,
// keyed by owner so one owner's stream stays on one partition.
type NotificationEvents struct {
	p *Producer
}

func NewNotificationEvents(p *Producer) *NotificationEvents { return &NotificationEvents{p: p} }

var _ notification.Events = (*NotificationEvents)(nil)

func (e *NotificationEvents) PublishCreated(ctx context.Context, n *notification.Notification) error {
	return e.p.PublishJSON(ctx, []byte(n.OwnerID), n)
}
