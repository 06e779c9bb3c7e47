package dashboard

import (
	"context"
	"sync"

	"github.com/status-im/market-dashboard/notify"
)

const DefaultNotificationsLimit = 20

// NotificationLog keeps the most recent notifications, oldest first.
type NotificationLog struct {
	mu    sync.Mutex
	limit int
	items []notify.Notification
}

func NewNotificationLog(limit int) *NotificationLog {
	if limit <= 0 {
		limit = DefaultNotificationsLimit
	}
	return &NotificationLog{limit: limit}
}

// Notify implements notify.Notifier.
func (l *NotificationLog) Notify(_ context.Context, n notify.Notification) error {
	l.Push(n)
	return nil
}

func (l *NotificationLog) Push(n notify.Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items, n)
	if over := len(l.items) - l.limit; over > 0 {
		l.items = append(l.items[:0:0], l.items[over:]...)
	}
}

func (l *NotificationLog) List() []notify.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]notify.Notification, len(l.items))
	copy(out, l.items)
	return out
}
