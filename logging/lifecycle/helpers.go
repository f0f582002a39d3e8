package lifecycle

import (
	"context"

	"crowdcast/server/logging"
)

const (
	// EventParticipantJoined is emitted when a connection registers.
	EventParticipantJoined logging.EventType = "lifecycle.participant_joined"
	// EventParticipantLeft is emitted when a participant is removed.
	EventParticipantLeft logging.EventType = "lifecycle.participant_left"
	// EventDuplicateJoin is emitted when registration hits an id collision.
	EventDuplicateJoin logging.EventType = "lifecycle.duplicate_join"
	// EventNameChanged is emitted on a successful rename.
	EventNameChanged logging.EventType = "lifecycle.name_changed"
)

// JoinedPayload describes a fresh registration.
type JoinedPayload struct {
	Participants int `json:"participants"`
}

// LeftPayload describes a removal.
type LeftPayload struct {
	Participants int `json:"participants"`
}

// NameChangedPayload carries the new display name.
type NameChangedPayload struct {
	Name string `json:"name"`
}

// Joined publishes a registration event.
func Joined(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload JoinedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventParticipantJoined,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// Left publishes a removal event.
func Left(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload LeftPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventParticipantLeft,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// DuplicateJoin publishes an id-collision invariant violation.
func DuplicateJoin(ctx context.Context, pub logging.Publisher, actor logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDuplicateJoin,
		Actor:    actor,
		Severity: logging.SeverityError,
		Category: logging.CategoryLifecycle,
	})
}

// NameChanged publishes a rename event.
func NameChanged(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload NameChangedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventNameChanged,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}
