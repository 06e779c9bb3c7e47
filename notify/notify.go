// Package notify delivers user-visible notifications such as listing fetch failures.
package notify

//go:generate mockgen -destination=mocks/notifier.go . Notifier

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var log = logrus.WithField("component", "notify")

type Severity string

const (
	SeverityDefault     Severity = "default"
	SeverityDestructive Severity = "destructive"
)

type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Time        time.Time `json:"time"`
}

// Notifier sends a notification somewhere a user will see it.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, n Notification) error

func (f Func) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// LogNotifier writes notifications to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n Notification) error {
	entry := log.WithField("severity", n.Severity)
	if n.Severity == SeverityDestructive {
		entry.Errorf("%s: %s", n.Title, n.Description)
	} else {
		entry.Infof("%s: %s", n.Title, n.Description)
	}
	return nil
}

// Multi delivers to every notifier, even when some of them fail.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		errs = multierr.Append(errs, notifier.Notify(ctx, n))
	}
	return errs
}
