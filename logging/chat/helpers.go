package chat

import (
	"context"

	"crowdcast/server/logging"
)

const (
	// EventMessageSent is emitted for every accepted chat message.
	EventMessageSent logging.EventType = "chat.message_sent"
	// EventMessageDropped is emitted when a message references an unknown author.
	EventMessageDropped logging.EventType = "chat.message_dropped"
	// EventResponderScheduled is emitted when an ambient response is queued.
	EventResponderScheduled logging.EventType = "chat.responder_scheduled"
)

// MessageSentPayload summarizes an accepted message.
type MessageSentPayload struct {
	MessageID string `json:"messageId"`
	Length    int    `json:"length"`
	Effects   int    `json:"effects,omitempty"`
	Reward    int    `json:"reward"`
}

// MessageDroppedPayload describes why a message was discarded.
type MessageDroppedPayload struct {
	Reason string `json:"reason"`
}

// ResponderScheduledPayload records the personality and delay chosen.
type ResponderScheduledPayload struct {
	Personality string `json:"personality"`
	DelayMillis int64  `json:"delayMillis"`
}

// MessageSent publishes an accepted-message event.
func MessageSent(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload MessageSentPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMessageSent,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryChat,
		Payload:  payload,
	})
}

// MessageDropped publishes a discarded-message event.
func MessageDropped(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload MessageDroppedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMessageDropped,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryChat,
		Payload:  payload,
	})
}

// ResponderScheduled publishes an ambient-response scheduling event.
func ResponderScheduled(ctx context.Context, pub logging.Publisher, payload ResponderScheduledPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventResponderScheduled,
		Actor:    logging.EntityRef{Kind: logging.EntityKindSystem},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryChat,
		Payload:  payload,
	})
}
