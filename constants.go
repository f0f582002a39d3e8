package server

import "time"

const (
	ProtocolVersion = 1
	writeWait       = 10 * time.Second

	defaultName          = "Anonymous"
	startingPoints       = 500
	pointsPerLevel       = 100
	messageReward        = 10
	messageEffectBonus   = 5
	creativeGeniusPoints = 1000
	effectMasterCount    = 5

	maxHistory    = 100
	welcomeRecent = 20
	// HTTPRecentLimit bounds the /messages endpoint response.
	HTTPRecentLimit = 50

	leaderboardSize = 10

	cleanupInterval = 30 * time.Second

	holographicRetention = 30 * time.Second
	soundRetention       = 60 * time.Second
	particleRetention    = 30 * time.Second
	effectUsageRetention = 60 * time.Second

	responderChance   = 0.3
	responderMinDelay = 1 * time.Second
	responderMaxDelay = 3 * time.Second

	defaultSoundVolume   = 1.0
	defaultParticleCount = 10
)
