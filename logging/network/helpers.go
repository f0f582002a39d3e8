package network

import (
	"context"

	"crowdcast/server/logging"
)

const (
	// EventBroadcastFailed is emitted when a subscriber write fails and the
	// connection is dropped.
	EventBroadcastFailed logging.EventType = "network.broadcast_failed"
	// EventMalformedMessage is emitted when an inbound frame fails to decode.
	EventMalformedMessage logging.EventType = "network.malformed_message"
)

// BroadcastFailedPayload describes a failed subscriber write.
type BroadcastFailedPayload struct {
	Event string `json:"event"`
	Error string `json:"error"`
}

// MalformedMessagePayload describes an undecodable frame.
type MalformedMessagePayload struct {
	Error string `json:"error"`
}

// BroadcastFailed publishes a failed-write event.
func BroadcastFailed(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload BroadcastFailedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBroadcastFailed,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetwork,
		Payload:  payload,
	})
}

// MalformedMessage publishes an undecodable-frame event.
func MalformedMessage(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload MalformedMessagePayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMalformedMessage,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryNetwork,
		Payload:  payload,
	})
}
