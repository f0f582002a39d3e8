package server

import "time"

// HubStats is the read-only counter view consumed by the HTTP layer.
type HubStats struct {
	Participants  int    `json:"participants"`
	Messages      int    `json:"messages"`
	ActiveEffects int    `json:"activeEffects"`
	Broadcasts    uint64 `json:"broadcasts"`
	SendErrors    uint64 `json:"sendErrors"`
	MessagesTotal uint64 `json:"messagesTotal"`
}

// Stats returns current counts. Messages counts the retained history;
// MessagesTotal counts every accepted message since start.
func (h *Hub) Stats() HubStats {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.clock.Now()
	active := 0
	for _, state := range h.participants {
		state.pruneEffects(now)
		active += len(state.Effects)
	}
	return HubStats{
		Participants:  len(h.participants),
		Messages:      len(h.history),
		ActiveEffects: active,
		Broadcasts:    h.broadcastsTotal.Load(),
		SendErrors:    h.sendErrorsTotal.Load(),
		MessagesTotal: h.messagesTotal.Load(),
	}
}

// WorldState is the current-virtual-world view for the HTTP layer.
type WorldState struct {
	Environment Environment         `json:"environment"`
	Holograms   []HolographicRecord `json:"holograms"`
	Sounds      []SoundRecord       `json:"sounds"`
	Particles   []ParticleRecord    `json:"particles"`
}

// World returns the environment plus live ephemeral records.
func (h *Hub) World() WorldState {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.clock.Now()
	h.holograms.purge(now)
	h.sounds.purge(now)
	h.particles.purge(now)
	return WorldState{
		Environment: h.environment,
		Holograms:   h.holograms.snapshot(),
		Sounds:      h.sounds.snapshot(),
		Particles:   h.particles.snapshot(),
	}
}

// DiagnosticsParticipant exposes per-session data for the diagnostics
// endpoint.
type DiagnosticsParticipant struct {
	Ver        int    `json:"ver"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Points     int    `json:"points"`
	JoinedAt   int64  `json:"joinedAt"`
	Subscribed bool   `json:"subscribed"`
}

// DiagnosticsSnapshot lists every registered participant.
func (h *Hub) DiagnosticsSnapshot() []DiagnosticsParticipant {
	h.mu.Lock()
	defer h.mu.Unlock()

	participants := make([]DiagnosticsParticipant, 0, len(h.order))
	for _, id := range h.order {
		state, ok := h.participants[id]
		if !ok {
			continue
		}
		_, subscribed := h.subscribers[id]
		participants = append(participants, DiagnosticsParticipant{
			Ver:        ProtocolVersion,
			ID:         state.ID,
			Name:       state.Name,
			Points:     state.Points,
			JoinedAt:   state.JoinedAt.UnixMilli(),
			Subscribed: subscribed,
		})
	}
	return participants
}

// ResponderPersonality returns the configured responder personality.
func (h *Hub) ResponderPersonality() Personality {
	return h.personality
}

// CleanupInterval returns the purge cadence (exposed for diagnostics).
func (h *Hub) CleanupInterval() time.Duration {
	return h.cleanupInterval
}
