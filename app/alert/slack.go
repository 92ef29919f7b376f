package alert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"
)

var _ Notifier = (*SlackNotifier)(nil)
var _ Notifier = (*NoopNotifier)(nil)

// SlackNotifier posts alert messages to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
}

func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{webhookURL: webhookURL}
}

func (n *SlackNotifier) Notify(ctx context.Context, message string) error {
	msg := &slack.WebhookMessage{Text: message}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return fmt.Errorf("failed to post Slack webhook: %w", err)
	}

	return nil
}

// NoopNotifier is used when no webhook is configured. An unconfigured
// channel is a legitimate state, so delivery quietly succeeds without
// going anywhere.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) Notify(_ context.Context, message string) error {
	slog.Debug("Notification channel not configured, dropping message", "message", message)
	return nil
}

// NewNotifier picks the Slack notifier when a webhook URL is configured and
// the no-op notifier otherwise.
func NewNotifier(webhookURL string) Notifier {
	if webhookURL == "" {
		return NewNoopNotifier()
	}
	return NewSlackNotifier(webhookURL)
}
