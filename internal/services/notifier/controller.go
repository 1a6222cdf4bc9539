package notifier

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/ari4325/real-time-notification-system/internal/domain/notification"
	kafkax "github.com/ari4325/real-time-notification-system/internal/repository/kafka"
)

var (
	mForwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifier_forwarded_total", Help: "Messages forwarded to the hub",
	})
	mDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifier_discarded_total", Help: "Malformed or invalid messages dropped",
	})
)

// Controller is the delivery-side loop: it drains the notifications topic and
// forwards each decoded record to the hub. Bad payloads are dropped so one
// poisoned message can never stall live delivery.
type Controller struct {
	Log *zap.Logger
	Sub *kafkax.Consumer
	Hub notification.Broadcaster
}

func (c *Controller) Run(ctx context.Context) error {
	if err := c.Sub.Consume(ctx, c.Handler()); err != nil && !errors.Is(err, context.Canceled) {
		c.Log.Warn("kafka consume", zap.Error(err))
		return err
	}
	return ctx.Err()
}

// Handler decodes and forwards one message. Split out from Run so the
// forwarding behavior is testable without a broker.
func (c *Controller) Handler() kafkax.Handler {
	decode := kafkax.JSONHandler(func(_ context.Context, _ []byte, n *notification.Notification) error {
		if n.ID == "" || n.OwnerID == "" {
			mDiscarded.Inc()
			c.Log.Warn("dropping notification without id or owner",
				zap.String("notification", n.ID), zap.String("owner", n.OwnerID))
			return nil
		}
		c.Hub.Broadcast(n)
		mForwarded.Inc()
		return nil
	})

	return func(ctx context.Context, key, value []byte) error {
		err := decode(ctx, key, value)
		if errors.Is(err, kafkax.ErrMalformed) {
			mDiscarded.Inc()
			c.Log.Warn("dropping malformed payload", zap.Error(err))
			return nil
		}
		return err
	}
}
