package server

import (
	"context"

	"crowdcast/server/logging"
	loggingEconomy "crowdcast/server/logging/economy"
)

// achievementRule reports whether a participant currently satisfies the rule.
// Rules are independent and idempotent; already-unlocked ids are skipped by
// the evaluator, and every satisfied rule fires from the same event.
type achievementRule struct {
	id        AchievementID
	satisfied func(*participantState) bool
}

var achievementRules = []achievementRule{
	{
		id:        AchievementFirstContact,
		satisfied: func(s *participantState) bool { return s.named },
	},
	{
		id:        AchievementCreativeGenius,
		satisfied: func(s *participantState) bool { return s.Points >= creativeGeniusPoints },
	},
	{
		id:        AchievementEffectMaster,
		satisfied: func(s *participantState) bool { return s.effectsActivated >= effectMasterCount },
	},
}

// evaluateAchievementsLocked runs every rule against the participant and
// grants what is newly satisfied. The reward is credited immediately, so a
// later rule in the same pass sees the updated balance. Returns the targeted
// unlock payloads for the caller to deliver after releasing the hub mutex.
func (h *Hub) evaluateAchievementsLocked(state *participantState) []achievementUnlockedMessage {
	var unlocks []achievementUnlockedMessage
	for _, rule := range achievementRules {
		if state.hasAchievement(rule.id) {
			continue
		}
		if !rule.satisfied(state) {
			continue
		}
		def, ok := achievementCatalog[rule.id]
		if !ok {
			continue
		}
		state.grantAchievement(rule.id)
		state.addPoints(def.Reward)
		loggingEconomy.AchievementUnlocked(context.Background(), h.publisher,
			logging.EntityRef{ID: state.ID, Kind: logging.EntityKindParticipant},
			loggingEconomy.AchievementUnlockedPayload{Achievement: string(def.ID), Reward: def.Reward})
		unlocks = append(unlocks, achievementUnlockedMessage{
			Ver:         ProtocolVersion,
			Type:        eventAchievementUnlocked,
			Achievement: def,
			Points:      state.Points,
		})
	}
	return unlocks
}
