package client

import (
	"time"

	"github.com/tomz197/blockfall/internal/input"
)

// GameState represents the current screen for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStatePaused                    // Gameplay frozen, board still visible
	GameStateOver                      // Game ended, show restart prompt
	GameStateShutdown                  // Server is shutting down
)

var gameStateNames = [...]string{
	GameStateStart:    "start",
	GameStatePlaying:  "playing",
	GameStatePaused:   "paused",
	GameStateOver:     "over",
	GameStateShutdown: "shutdown",
}

func (s GameState) String() string {
	if s < 0 || int(s) >= len(gameStateNames) {
		return "unknown"
	}
	return gameStateNames[s]
}

// ClientState holds per-session presentation state. Game rules live in the
// engine; this only tracks what screen is up and why.
type ClientState struct {
	Input         input.Input
	GameState     GameState     // This client's screen
	Rank          int           // Leaderboard rank of the last finished game, 0 if unranked
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	prevGameState GameState     // Screen drawn last frame
	wasInactive   bool          // Inactivity state drawn last frame
	tooSmall      bool          // Terminal cannot fit the layout
	wasTooSmall   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState:     GameStateStart,
		Running:       true,
		prevGameState: -1,
	}
}
