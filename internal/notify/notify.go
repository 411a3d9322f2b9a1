// Package notify pushes shop-floor events (step transitions on high-demand
// jobs, dispatch completions, shift digests) to chat platforms. Delivery is
// best-effort; production flow never waits on a notifier.
package notify

import (
	"context"
	"fmt"
	"strings"
)

// Kind classifies an event.
type Kind string

const (
	KindStepStarted   Kind = "step_started"
	KindStepStopped   Kind = "step_stopped"
	KindJobDispatched Kind = "job_dispatched"
	KindDigest        Kind = "digest"
)

// Event is one notification.
type Event struct {
	Kind  Kind
	JobNo string
	Step  string
	User  string
	Tier  string
	Text  string
}

// Format renders an event as a single chat message line.
func Format(ev Event) string {
	switch ev.Kind {
	case KindStepStarted:
		return fmt.Sprintf("▶ %s: %s started by %s", ev.JobNo, ev.Step, ev.User)
	case KindStepStopped:
		return fmt.Sprintf("■ %s: %s completed by %s", ev.JobNo, ev.Step, ev.User)
	case KindJobDispatched:
		return fmt.Sprintf("✔ %s dispatched", ev.JobNo)
	case KindDigest:
		return ev.Text
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", ev.JobNo, ev.Step, ev.Text))
}

// Notifier delivers events to one platform.
type Notifier interface {
	Send(ctx context.Context, ev Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Send(context.Context, Event) error { return nil }
func (Nop) Close() error                      { return nil }

// Multi fans an event out to several notifiers, collecting errors.
type Multi []Notifier

// Send delivers to every member; the first error is returned after all
// members have been attempted.
func (m Multi) Send(ctx context.Context, ev Event) error {
	var first error
	for _, n := range m {
		if err := n.Send(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes every member.
func (m Multi) Close() error {
	var first error
	for _, n := range m {
		if err := n.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
