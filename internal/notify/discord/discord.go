// Package discord implements the notify.Notifier for Discord.
package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sunpack/boxline/internal/notify"
)

// session abstracts the discordgo.Session methods we use, enabling test mocks.
type session interface {
	Open() error
	Close() error
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier posts events to one Discord channel. One Notifier is shared
// across concurrent request handlers; mu guards the session open state.
type Notifier struct {
	sess      session
	channelID string

	mu     sync.Mutex
	opened bool
}

// New creates a Discord notifier for the given bot token and channel.
func New(botToken, channelID string) (*Notifier, error) {
	sess, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("discord: new session: %w", err)
	}
	return &Notifier{sess: sess, channelID: channelID}, nil
}

// Send posts the formatted event, opening the gateway session on first use.
func (n *Notifier) Send(ctx context.Context, ev notify.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.ensureOpen(); err != nil {
		return err
	}
	if _, err := n.sess.ChannelMessageSend(n.channelID, notify.Format(ev)); err != nil {
		return fmt.Errorf("discord: send to %s: %w", n.channelID, err)
	}
	return nil
}

// ensureOpen opens the gateway session exactly once, no matter how many
// sends race on first use.
func (n *Notifier) ensureOpen() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.opened {
		return nil
	}
	if err := n.sess.Open(); err != nil {
		return fmt.Errorf("discord: open: %w", err)
	}
	n.opened = true
	return nil
}

// Close shuts down the gateway session.
func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.opened {
		return nil
	}
	n.opened = false
	if err := n.sess.Close(); err != nil {
		return fmt.Errorf("discord: close: %w", err)
	}
	return nil
}
