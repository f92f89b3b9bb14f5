// Package config centralizes all tunable session parameters.
package config

import "time"

// Gravity
const (
	GravityInterval = 500 * time.Millisecond // Time between gravity ticks
)

// Layout
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
	SidePanelWidth    = 22 // Columns reserved right of the board for stats
)

// Leaderboard
const (
	LeaderboardSize = 5 // Number of finished games kept per server
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
	ShutdownTimeout        = 15 * time.Second
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate
const (
	ServerTickRate = 20
	ServerTickTime = time.Second / ServerTickRate
)
