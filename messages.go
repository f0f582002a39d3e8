package server

// Outbound event envelopes. Every payload carries the protocol version and a
// type tag; broadcasts go to all subscribers, targeted payloads only to the
// originating participant.

type welcomeMessage struct {
	Ver          int                     `json:"ver"`
	Type         string                  `json:"type"`
	ID           string                  `json:"id"`
	Effects      []EffectDefinition      `json:"effects"`
	Achievements []AchievementDefinition `json:"achievements"`
	Environments []Environment           `json:"environments"`
	Environment  Environment             `json:"environment"`
	Participants []Participant           `json:"participants"`
	Messages     []Message               `json:"messages"`
	Leaderboard  []LeaderboardEntry      `json:"leaderboard"`
	ServerTime   int64                   `json:"serverTime"`
}

type participantsMessage struct {
	Ver          int                `json:"ver"`
	Type         string             `json:"type"`
	Participants []Participant      `json:"participants"`
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`
	ServerTime   int64              `json:"serverTime"`
}

type newMessageMessage struct {
	Ver     int     `json:"ver"`
	Type    string  `json:"type"`
	Message Message `json:"message"`
}

type effectActivatedMessage struct {
	Ver        int        `json:"ver"`
	Type       string     `json:"type"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Effect     EffectName `json:"effect"`
	Duration   int        `json:"duration"`
	ServerTime int64      `json:"serverTime"`
}

type achievementUnlockedMessage struct {
	Ver         int                   `json:"ver"`
	Type        string                `json:"type"`
	Achievement AchievementDefinition `json:"achievement"`
	Points      int                   `json:"points"`
}

type insufficientPointsMessage struct {
	Ver      int        `json:"ver"`
	Type     string     `json:"type"`
	Effect   EffectName `json:"effect"`
	Required int        `json:"required"`
	Current  int        `json:"current"`
}

type holographicMessage struct {
	Ver    int               `json:"ver"`
	Type   string            `json:"type"`
	Record HolographicRecord `json:"record"`
}

type soundMessage struct {
	Ver    int         `json:"ver"`
	Type   string      `json:"type"`
	Record SoundRecord `json:"record"`
}

type particleMessage struct {
	Ver    int            `json:"ver"`
	Type   string         `json:"type"`
	Record ParticleRecord `json:"record"`
}

type environmentMessage struct {
	Ver         int         `json:"ver"`
	Type        string      `json:"type"`
	Environment Environment `json:"environment"`
	ChangedBy   string      `json:"changedBy"`
}

type voteMessage struct {
	Ver    int    `json:"ver"`
	Type   string `json:"type"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Option string `json:"option"`
	Effect string `json:"effect,omitempty"`
}

type aiResponseMessage struct {
	Ver         int         `json:"ver"`
	Type        string      `json:"type"`
	Text        string      `json:"text"`
	Personality Personality `json:"personality"`
	ServerTime  int64       `json:"serverTime"`
}

const (
	eventWelcome             = "welcome"
	eventParticipantsUpdate  = "participants_update"
	eventNewMessage          = "new_message"
	eventEffectActivated     = "effect_activated"
	eventAchievementUnlocked = "achievement_unlocked"
	eventInsufficientPoints  = "insufficient_points"
	eventHolographicEffect   = "holographic_effect"
	eventSoundEffect         = "sound_effect"
	eventParticleEffect      = "particle_effect"
	eventEnvironmentChanged  = "environment_changed"
	eventVoteCast            = "vote_cast"
	eventAIResponse          = "ai_response"
)
