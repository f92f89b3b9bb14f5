package server

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	Lines    int
	GameID   uuid.UUID
	Finished time.Time
	clientID int // Used for deterministic tie-break when scores are equal
}

// GameResult is what a client reports when one of its games ends.
type GameResult struct {
	GameID uuid.UUID
	Score  int
	Lines  int
}

// ServerSnapshot is an immutable view of the server for rendering.
type ServerSnapshot struct {
	Players   int             // Connected sessions
	TopScores []TopScoreEntry // Top N scores for leaderboard display
}

// leaderboard keeps the best finished games, highest score first.
type leaderboard struct {
	size    int
	entries []TopScoreEntry
}

func newLeaderboard(size int) *leaderboard {
	return &leaderboard{size: size, entries: make([]TopScoreEntry, 0, size+1)}
}

// add inserts e and trims the board to its size. It reports whether e made
// the cut.
func (l *leaderboard) add(e TopScoreEntry) bool {
	if l.size <= 0 {
		return false
	}
	l.entries = append(l.entries, e)
	sort.SliceStable(l.entries, func(i, j int) bool {
		a, b := l.entries[i], l.entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Lines != b.Lines {
			return a.Lines > b.Lines
		}
		return a.clientID < b.clientID
	})
	if len(l.entries) > l.size {
		dropped := l.entries[l.size]
		l.entries = l.entries[:l.size]
		if dropped.GameID == e.GameID && dropped.clientID == e.clientID {
			return false
		}
	}
	return true
}

// top returns a copy of the entries.
func (l *leaderboard) top() []TopScoreEntry {
	out := make([]TopScoreEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
