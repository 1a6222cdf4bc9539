package notification

import (
	"errors"
	"strings"
)

// Notification is the single record this service moves around. The JSON form
// below is both the durable representation and the wire payload on the
// delivery topic, so the persisted and enqueued copies stay identical.
type Notification struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
}

var (
	ErrNotFound     = errors.New("notification not found")
	ErrMissingOwner = errors.New("owner id required")
	ErrEmptyMessage = errors.New("message must not be empty")
)

// IsValidation reports whether err is one of the create-input failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingOwner) || errors.Is(err, ErrEmptyMessage)
}

func (n *Notification) Validate() error {
	if n.OwnerID == "" {
		return ErrMissingOwner
	}
	if strings.TrimSpace(n.Message) == "" {
		return ErrEmptyMessage
	}
	return nil
}

// Clone returns an independent copy for the delivery path, so the transient
// queued copy never aliases the durable one.
func (n *Notification) Clone() *Notification {
	cp := *n
	return &cp
}
