package domain

import "time"

// MessageChannel identifies the external delivery channel.
type MessageChannel string

const (
	MessageChannelLine      MessageChannel = "LINE"
	MessageChannelInstagram MessageChannel = "INSTAGRAM"
	MessageChannelEmail     MessageChannel = "EMAIL"
)

// ValidMessageChannel reports membership in the closed channel set.
func ValidMessageChannel(channel MessageChannel) bool {
	switch channel {
	case MessageChannelLine, MessageChannelInstagram, MessageChannelEmail:
		return true
	}
	return false
}

// MessageDirection distinguishes customer-sent from salon-sent messages.
type MessageDirection string

const (
	MessageDirectionInbound  MessageDirection = "INBOUND"
	MessageDirectionOutbound MessageDirection = "OUTBOUND"
)

// Message is a single customer conversation entry.
type Message struct {
	ID         string
	TenantID   string
	CustomerID string
	Channel    MessageChannel
	Direction  MessageDirection
	Body       string
	Read       bool
	SentAt     time.Time
	CreatedAt  time.Time
}
