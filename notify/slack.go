package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

// SlackNotifier posts notifications to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	channel    string
	limiter    *rate.Limiter
}

func NewSlackNotifier(webhookURL, channel string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

func (s *SlackNotifier) Notify(ctx context.Context, n Notification) error {
	// drop instead of queueing when a failure streak floods the channel
	if !s.limiter.Allow() {
		log.Debugf("Slack: rate limited, dropping %q", n.Title)
		return nil
	}

	color := "good"
	if n.Severity == SeverityDestructive {
		color = "danger"
	}

	ts := n.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	msg := &slack.WebhookMessage{
		Channel: s.channel,
		Attachments: []slack.Attachment{{
			Color:  color,
			Title:  n.Title,
			Text:   n.Description,
			Footer: "market-dashboard",
			Ts:     json.Number(fmt.Sprintf("%d", ts.Unix())),
		}},
	}

	if err := slack.PostWebhookContext(ctx, s.webhookURL, msg); err != nil {
		return fmt.Errorf("slack webhook failed: %w", err)
	}
	return nil
}
