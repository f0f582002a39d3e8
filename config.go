package server

import (
	"time"

	"crowdcast/server/internal/telemetry"
	"crowdcast/server/logging"
)

// HubConfig carries the injectable collaborators of a Hub. Zero values fall
// back to production defaults, so tests override only what they observe.
type HubConfig struct {
	// Personality used for ambient responses.
	Personality Personality
	// ResponderChance is the probability of scheduling an ambient response
	// after a chat message. Negative disables the responder entirely.
	ResponderChance float64
	// Clock supplies timestamps; defaults to the system clock.
	Clock logging.Clock
	// Seed for the hub's random source. Zero seeds from the clock.
	Seed int64
	// Publisher receives structured events; nil discards them.
	Publisher logging.Publisher
	// Logger receives plain-text diagnostics; nil uses log.Default().
	Logger telemetry.Logger
	// After schedules deferred work; defaults to time.AfterFunc. Tests
	// substitute a synchronous hook.
	After func(d time.Duration, f func())
	// CleanupInterval between purge passes. Zero uses the default.
	CleanupInterval time.Duration
}

func DefaultHubConfig() HubConfig {
	return HubConfig{
		Personality:     defaultPersonality,
		ResponderChance: responderChance,
	}
}
