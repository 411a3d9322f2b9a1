// Package slack implements the notify.Notifier for Slack.
package slack

import (
	"context"
	"fmt"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/sunpack/boxline/internal/notify"
)

const (
	// maxRetries is the max number of retries for rate-limited API calls.
	maxRetries = 3
)

// client abstracts the Slack API methods we use, enabling test mocks.
type client interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Notifier posts events to one Slack channel.
type Notifier struct {
	client    client
	channelID string
}

// New creates a Slack notifier for the given bot token and channel.
func New(botToken, channelID string) *Notifier {
	return &Notifier{
		client:    slackapi.New(botToken),
		channelID: channelID,
	}
}

// Send posts the formatted event, retrying on rate limits.
func (n *Notifier) Send(ctx context.Context, ev notify.Event) error {
	text := notify.Format(ev)
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		_, _, err := n.client.PostMessageContext(ctx, n.channelID,
			slackapi.MsgOptionText(text, false))
		if err == nil {
			return nil
		}
		lastErr = err
		var rl *slackapi.RateLimitedError
		if rle, ok := err.(*slackapi.RateLimitedError); ok {
			rl = rle
		} else {
			break
		}
		select {
		case <-time.After(rl.RetryAfter):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("slack: post to %s: %w", n.channelID, lastErr)
}

// Close is a no-op; the Slack web API client holds no connection.
func (n *Notifier) Close() error { return nil }
