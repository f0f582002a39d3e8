package server

// Personality selects the phrase table used for ambient responses.
type Personality string

const (
	PersonalityHype   Personality = "hype"
	PersonalityChill  Personality = "chill"
	PersonalityCosmic Personality = "cosmic"

	defaultPersonality = PersonalityHype
)

var responderPhrases = map[Personality][]string{
	PersonalityHype: {
		"LET'S GOOO! The chat is on fire today!",
		"That message deserves a fireworks show!",
		"You all bring the energy, I just bring the hype!",
		"Somebody clip that, it was legendary!",
		"The leaderboard is heating up, keep it coming!",
	},
	PersonalityChill: {
		"Nice one. Good vibes all around.",
		"Love the energy in here tonight.",
		"Take your time, we're all just hanging out.",
		"That was smooth. Carry on.",
		"This chat is a cozy place to be.",
	},
	PersonalityCosmic: {
		"The stars aligned for that message.",
		"Somewhere a nebula just sparkled in approval.",
		"Your words ripple across the void.",
		"The universe is listening. So am I.",
		"Stardust settles on the leaderboard once more.",
	},
}

func personalities() []Personality {
	return []Personality{PersonalityHype, PersonalityChill, PersonalityCosmic}
}

// ParsePersonality validates a configured personality name.
func ParsePersonality(value string) (Personality, bool) {
	switch Personality(value) {
	case PersonalityHype, PersonalityChill, PersonalityCosmic:
		return Personality(value), true
	default:
		return "", false
	}
}

// respond picks one phrase uniformly at random from the personality's table.
// Unknown personalities fall back to the default table so a misconfigured
// hub still answers.
func (h *Hub) respond(personality Personality) string {
	phrases, ok := responderPhrases[personality]
	if !ok || len(phrases) == 0 {
		phrases = responderPhrases[defaultPersonality]
	}
	return phrases[h.rng.Intn(len(phrases))]
}
