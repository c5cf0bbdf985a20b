// Package notificationstest provides a Notifier that records what it receives.
package notificationstest

import (
	"context"
	"sync"

	"github.com/angelmondragon/shopcart-backend/internal/notifications"
	"github.com/angelmondragon/shopcart-backend/pkg/enums"
)

// Recorder captures notifications for assertions.
type Recorder struct {
	mu    sync.Mutex
	items []notifications.Notification
}

func (r *Recorder) Notify(_ context.Context, kind enums.NotificationType, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, notifications.Notification{Message: message, Type: kind})
}

// Last returns the most recent notification.
func (r *Recorder) Last() (notifications.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return notifications.Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// All returns every recorded notification.
func (r *Recorder) All() []notifications.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notifications.Notification, len(r.items))
	copy(out, r.items)
	return out
}
