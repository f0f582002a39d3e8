package economy

import (
	"context"

	"crowdcast/server/logging"
)

const (
	// EventEffectActivated is emitted on a successful effect purchase.
	EventEffectActivated logging.EventType = "economy.effect_activated"
	// EventActivationRejected is emitted when an activation is refused.
	EventActivationRejected logging.EventType = "economy.activation_rejected"
	// EventPointsGranted is emitted whenever a participant earns points.
	EventPointsGranted logging.EventType = "economy.points_granted"
	// EventAchievementUnlocked is emitted when a rule grants a badge.
	EventAchievementUnlocked logging.EventType = "economy.achievement_unlocked"
)

// EffectActivatedPayload describes a successful purchase.
type EffectActivatedPayload struct {
	Effect    string `json:"effect"`
	Cost      int    `json:"cost"`
	Remaining int    `json:"remaining"`
}

// ActivationRejectedPayload describes a refused purchase.
type ActivationRejectedPayload struct {
	Effect   string `json:"effect"`
	Reason   string `json:"reason"`
	Required int    `json:"required,omitempty"`
	Current  int    `json:"current,omitempty"`
}

// PointsGrantedPayload describes a point credit.
type PointsGrantedPayload struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
	Total  int    `json:"total"`
}

// AchievementUnlockedPayload describes a badge grant.
type AchievementUnlockedPayload struct {
	Achievement string `json:"achievement"`
	Reward      int    `json:"reward"`
}

// EffectActivated publishes a successful activation event.
func EffectActivated(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload EffectActivatedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEffectActivated,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// ActivationRejected publishes a refused activation event.
func ActivationRejected(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload ActivationRejectedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventActivationRejected,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// PointsGranted publishes a point-credit event.
func PointsGranted(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload PointsGrantedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPointsGranted,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// AchievementUnlocked publishes a badge-grant event.
func AchievementUnlocked(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload AchievementUnlockedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAchievementUnlocked,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}
