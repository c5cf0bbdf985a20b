package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
)

// DefaultTTL is how long a notification stays visible in the feed.
const DefaultTTL = 3 * time.Second

// Notification is a short user-facing message produced by a cart or catalog operation.
type Notification struct {
	ID        string                 `json:"id"`
	Message   string                 `json:"message"`
	Type      enums.NotificationType `json:"type"`
	CreatedAt time.Time              `json:"created_at"`
}

// Notifier receives operation outcomes.
type Notifier interface {
	Notify(ctx context.Context, kind enums.NotificationType, message string)
}

// LogNotifier writes every notification to the structured logger.
type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

func (n *LogNotifier) Notify(ctx context.Context, kind enums.NotificationType, message string) {
	if n == nil || n.logg == nil {
		return
	}
	ctx = n.logg.WithField(ctx, "notification_type", string(kind))
	switch kind {
	case enums.NotificationTypeError, enums.NotificationTypeWarning:
		n.logg.Warn(ctx, message)
	default:
		n.logg.Info(ctx, message)
	}
}

// Feed keeps recent notifications in memory until they expire or are dismissed.
type Feed struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []Notification
}

func NewFeed(ttl time.Duration) *Feed {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Feed{ttl: ttl, now: time.Now}
}

func (f *Feed) Notify(_ context.Context, kind enums.NotificationType, message string) {
	if !kind.IsValid() {
		kind = enums.NotificationTypeSuccess
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruneLocked()
	f.items = append(f.items, Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      kind,
		CreatedAt: f.now().UTC(),
	})
}

// List returns the live notifications, oldest first, dropping expired ones.
func (f *Feed) List() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruneLocked()
	out := make([]Notification, len(f.items))
	copy(out, f.items)
	return out
}

// Dismiss removes a notification by id and reports whether it was present.
func (f *Feed) Dismiss(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		if item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true
		}
	}
	return false
}

func (f *Feed) pruneLocked() {
	cutoff := f.now().Add(-f.ttl)
	kept := f.items[:0]
	for _, item := range f.items {
		if item.CreatedAt.After(cutoff) {
			kept = append(kept, item)
		}
	}
	f.items = kept
}

// Fanout delivers each notification to every wrapped notifier.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, kind enums.NotificationType, message string) {
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, kind, message)
		}
	}
}
