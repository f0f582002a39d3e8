package server

import "sort"

// LeaderboardEntry is a ranked participant summary.
type LeaderboardEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// recomputeLeaderboardLocked rebuilds the ranked snapshot from scratch.
// Ties keep registry insertion order (stable sort over the join-order
// slice), so output is deterministic. Cheap at expected participant counts;
// no memoization on purpose.
func (h *Hub) recomputeLeaderboardLocked() []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(h.order))
	for _, id := range h.order {
		state, ok := h.participants[id]
		if !ok {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			ID:     state.ID,
			Name:   state.Name,
			Points: state.Points,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	return entries
}

// Leaderboard returns the current top-N ranking.
func (h *Hub) Leaderboard() []LeaderboardEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.recomputeLeaderboardLocked()
}
