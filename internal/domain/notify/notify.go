// Package notify defines the best-effort notification port used by the ledger.
package notify

import "context"

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Notifier delivers a message and reports whether it went out.
// A false result is informational; callers never fail because of it.
type Notifier interface {
	Notify(ctx context.Context, ch Channel, recipient, subject, body string) bool
}

// Nop drops every message.
type Nop struct{}

func (Nop) Notify(context.Context, Channel, string, string, string) bool { return false }
