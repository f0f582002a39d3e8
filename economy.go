package server

import (
	"context"

	"crowdcast/server/logging"
	loggingEconomy "crowdcast/server/logging/economy"
)

// ActivationStatus reports how an activate_effect request was resolved.
type ActivationStatus int

const (
	ActivationUnknownParticipant ActivationStatus = iota
	ActivationUnknownEffect
	ActivationInsufficientPoints
	ActivationAccepted
)

// ActivationOutcome carries the policy-rejection details the transport
// relays back to the originating participant.
type ActivationOutcome struct {
	Status   ActivationStatus
	Effect   EffectDefinition
	Required int
	Current  int
}

// ActivateEffect debits the catalog cost and attaches an active instance.
// The debit is all-or-nothing: an unknown effect or an insufficient balance
// leaves state untouched. Rejections are delivered only to the caller, never
// broadcast.
func (h *Hub) ActivateEffect(id, name string) ActivationOutcome {
	h.mu.Lock()
	state, known := h.participants[id]
	if !known {
		h.mu.Unlock()
		return ActivationOutcome{Status: ActivationUnknownParticipant}
	}

	def, ok := effectCatalog[EffectName(name)]
	if !ok {
		h.mu.Unlock()
		loggingEconomy.ActivationRejected(context.Background(), h.publisher,
			logging.EntityRef{ID: id, Kind: logging.EntityKindParticipant},
			loggingEconomy.ActivationRejectedPayload{Effect: name, Reason: "unknown effect"})
		return ActivationOutcome{Status: ActivationUnknownEffect}
	}

	if state.Points < def.Cost {
		required, current := def.Cost, state.Points
		h.mu.Unlock()
		loggingEconomy.ActivationRejected(context.Background(), h.publisher,
			logging.EntityRef{ID: id, Kind: logging.EntityKindParticipant},
			loggingEconomy.ActivationRejectedPayload{Effect: name, Reason: "insufficient points", Required: required, Current: current})
		h.sendTo(id, eventInsufficientPoints, insufficientPointsMessage{
			Ver:      ProtocolVersion,
			Type:     eventInsufficientPoints,
			Effect:   def.Name,
			Required: required,
			Current:  current,
		})
		return ActivationOutcome{Status: ActivationInsufficientPoints, Effect: def, Required: required, Current: current}
	}

	now := h.clock.Now()
	state.addPoints(-def.Cost)
	if state.Points < 0 {
		// Balance invariant breached; undo and refuse rather than carry
		// corrupted state forward.
		state.addPoints(def.Cost)
		h.mu.Unlock()
		h.logger.Printf("balance went negative activating %s for %s, activation rejected", name, id)
		return ActivationOutcome{Status: ActivationInsufficientPoints, Effect: def, Required: def.Cost, Current: state.Points}
	}
	state.Effects = append(state.Effects, ActiveEffect{
		Name:        def.Name,
		Duration:    def.Duration,
		ActivatedAt: now,
	})
	state.effectsActivated++
	authorName := state.Name
	remaining := state.Points

	unlocks := h.evaluateAchievementsLocked(state)
	update := h.participantsUpdateLocked(now)
	h.mu.Unlock()

	loggingEconomy.EffectActivated(context.Background(), h.publisher,
		logging.EntityRef{ID: id, Kind: logging.EntityKindParticipant},
		loggingEconomy.EffectActivatedPayload{Effect: name, Cost: def.Cost, Remaining: remaining})

	for _, unlock := range unlocks {
		h.sendTo(id, eventAchievementUnlocked, unlock)
	}
	h.broadcast(eventEffectActivated, effectActivatedMessage{
		Ver:        ProtocolVersion,
		Type:       eventEffectActivated,
		ID:         id,
		Name:       authorName,
		Effect:     def.Name,
		Duration:   def.Duration,
		ServerTime: now.UnixMilli(),
	})
	h.broadcast(eventParticipantsUpdate, update)

	return ActivationOutcome{Status: ActivationAccepted, Effect: def, Current: remaining}
}
