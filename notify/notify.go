// Package notify sends desktop notifications for states the user must
// act on, such as a missing microphone or a rejected insertion.
package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// Notifier posts desktop notifications. Delivery is best effort;
// failures are logged, never returned.
type Notifier struct {
	enabled bool
}

// New creates a notifier. A disabled notifier drops everything.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// Send posts a notification.
func (n *Notifier) Send(title, message string) {
	if n == nil || !n.enabled {
		return
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		slog.Warn("failed to send notification", "title", title, "error", err)
	}
}
