package server

import "time"

// Participant is the wire-visible view of a connected session.
type Participant struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Points       int             `json:"points"`
	Level        int             `json:"level"`
	Achievements []AchievementID `json:"achievements"`
	Effects      []ActiveEffect  `json:"effects"`
	JoinedAt     time.Time       `json:"joinedAt"`
}

// ActiveEffect is a cosmetic overlay currently attached to a participant.
// Expiry is lazy: consumers treat ActivatedAt+Duration as the end time and
// the hub prunes stale instances on snapshot and cleanup passes.
type ActiveEffect struct {
	Name        EffectName `json:"name"`
	Duration    int        `json:"duration"`
	ActivatedAt time.Time  `json:"activatedAt"`
}

func (e ActiveEffect) expired(now time.Time) bool {
	return !now.Before(e.ActivatedAt.Add(time.Duration(e.Duration) * time.Second))
}

type participantState struct {
	Participant
	achievements map[AchievementID]struct{}
	// Lifetime activation count. Drives effect_master so the badge does not
	// depend on how recently expired instances were pruned.
	effectsActivated int
	named            bool
}

func newParticipantState(id string, now time.Time) *participantState {
	return &participantState{
		Participant: Participant{
			ID:       id,
			Name:     defaultName,
			Points:   startingPoints,
			Level:    levelForPoints(startingPoints),
			JoinedAt: now,
		},
		achievements: make(map[AchievementID]struct{}),
	}
}

// levelForPoints derives the display level. Purely cosmetic.
func levelForPoints(points int) int {
	if points < 0 {
		return 1
	}
	return points/pointsPerLevel + 1
}

func (s *participantState) addPoints(delta int) {
	s.Points += delta
	s.Level = levelForPoints(s.Points)
}

func (s *participantState) hasAchievement(id AchievementID) bool {
	_, ok := s.achievements[id]
	return ok
}

func (s *participantState) grantAchievement(id AchievementID) {
	s.achievements[id] = struct{}{}
	s.Achievements = append(s.Achievements, id)
}

// pruneEffects drops expired instances in place, preserving order.
func (s *participantState) pruneEffects(now time.Time) {
	if len(s.Effects) == 0 {
		return
	}
	kept := s.Effects[:0]
	for _, eff := range s.Effects {
		if !eff.expired(now) {
			kept = append(kept, eff)
		}
	}
	s.Effects = kept
}

// snapshot returns a defensive copy safe to hand to broadcast encoding.
func (s *participantState) snapshot() Participant {
	p := s.Participant
	p.Achievements = append([]AchievementID(nil), s.Achievements...)
	p.Effects = append([]ActiveEffect(nil), s.Effects...)
	return p
}
