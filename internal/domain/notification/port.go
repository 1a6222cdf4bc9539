package notification

import "context"

type Repo interface {
	Create(ctx context.Context, n *Notification) error
	ListByOwner(ctx context.Context, ownerID string) ([]*Notification, error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	MarkRead(ctx context.Context, id string) (*Notification, error)
}

// Events is the publish side of the delivery channel.
type Events interface {
	PublishCreated(ctx context.Context, n *Notification) error
}

// Broadcaster pushes a notification to every live session. Delivery is
// best-effort; implementations must never block on a single session.
type Broadcaster interface {
	Broadcast(n *Notification)
}
