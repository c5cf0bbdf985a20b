package notifications

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
)

func TestFeedExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	feed := NewFeed(3 * time.Second)
	feed.now = func() time.Time { return now }

	feed.Notify(context.Background(), enums.NotificationTypeSuccess, "added to cart")
	now = now.Add(2 * time.Second)
	feed.Notify(context.Background(), enums.NotificationTypeError, "out of stock")

	items := feed.List()
	require.Len(t, items, 2)
	assert.Equal(t, "added to cart", items[0].Message)

	now = now.Add(1500 * time.Millisecond)
	items = feed.List()
	require.Len(t, items, 1)
	assert.Equal(t, enums.NotificationTypeError, items[0].Type)
}

func TestFeedDismiss(t *testing.T) {
	feed := NewFeed(0)
	feed.Notify(context.Background(), enums.NotificationTypeWarning, "heads up")
	items := feed.List()
	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].ID)

	assert.True(t, feed.Dismiss(items[0].ID))
	assert.False(t, feed.Dismiss(items[0].ID))
	assert.Empty(t, feed.List())
}

func TestFeedNormalizesUnknownType(t *testing.T) {
	feed := NewFeed(time.Minute)
	feed.Notify(context.Background(), enums.NotificationType("info"), "hello")
	assert.Equal(t, enums.NotificationTypeSuccess, feed.List()[0].Type)
}

func TestFeedPrunesExpiredOnNotify(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	feed := NewFeed(3 * time.Second)
	feed.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		feed.Notify(context.Background(), enums.NotificationTypeSuccess, "added to cart")
		now = now.Add(time.Second)
	}

	feed.mu.Lock()
	defer feed.mu.Unlock()
	assert.LessOrEqual(t, len(feed.items), 3)
}

func TestFanoutAndLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("info"), Output: &buf})
	feed := NewFeed(time.Minute)

	Fanout{NewLogNotifier(logg), feed, nil}.Notify(context.Background(), enums.NotificationTypeError, "stock exceeded")

	items := feed.List()
	require.Len(t, items, 1)
	assert.Equal(t, "stock exceeded", items[0].Message)
	assert.Contains(t, buf.String(), `"notification_type":"error"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
