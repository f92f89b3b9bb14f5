package server

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(size int) *Server {
	return NewServer(Options{Logger: log.New(io.Discard), LeaderboardSize: size})
}

func TestRegisterAndUnregister(t *testing.T) {
	s := newTestServer(5)

	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, s.ClientCount())
	assert.Equal(t, 0, s.GetSnapshot().Players, "snapshot only updates on a server step")

	s.step()
	assert.Equal(t, 2, s.GetSnapshot().Players)

	s.UnregisterClient(a.ID)
	s.step()
	assert.Equal(t, 1, s.ClientCount())
	assert.Equal(t, 1, s.GetSnapshot().Players)

	_, open := <-a.EventsCh
	assert.False(t, open, "events channel closes on unregister")

	// Unknown ids are ignored.
	s.UnregisterClient(999)
	s.step()
	assert.Equal(t, 1, s.ClientCount())
}

func TestReportResultUpdatesLeaderboard(t *testing.T) {
	s := newTestServer(5)
	h := s.RegisterClient("alice")
	game := uuid.New()

	s.ReportResult(h.ID, GameResult{GameID: game, Score: 170, Lines: 3})
	s.step()

	top := s.GetSnapshot().TopScores
	require.Len(t, top, 1)
	assert.Equal(t, "alice", top[0].Username)
	assert.Equal(t, 170, top[0].Score)
	assert.Equal(t, 3, top[0].Lines)
	assert.Equal(t, game, top[0].GameID)

	select {
	case ev := <-h.EventsCh:
		assert.Equal(t, EventNewHighScore, ev.Type)
		assert.Equal(t, 1, ev.Rank)
	default:
		t.Fatal("expected a high score event")
	}
}

func TestLeaderboardKeepsBest(t *testing.T) {
	s := newTestServer(2)
	h := s.RegisterClient("alice")
	s.step()

	for _, score := range []int{10, 30, 20} {
		s.ReportResult(h.ID, GameResult{GameID: uuid.New(), Score: score})
	}
	s.step()

	top := s.GetSnapshot().TopScores
	require.Len(t, top, 2)
	assert.Equal(t, 30, top[0].Score)
	assert.Equal(t, 20, top[1].Score)

	// Drain events from the first batch.
	for len(h.EventsCh) > 0 {
		<-h.EventsCh
	}

	s.ReportResult(h.ID, GameResult{GameID: uuid.New(), Score: 5})
	s.step()
	assert.Len(t, h.EventsCh, 0, "a score that misses the cut sends no event")
	assert.Equal(t, 30, s.GetSnapshot().TopScores[0].Score)
}

func TestLeaderboardTieBreak(t *testing.T) {
	l := newLeaderboard(3)
	assert.True(t, l.add(TopScoreEntry{Score: 50, Lines: 1, clientID: 2}))
	assert.True(t, l.add(TopScoreEntry{Score: 50, Lines: 1, clientID: 1}))
	assert.True(t, l.add(TopScoreEntry{Score: 50, Lines: 2, clientID: 3}))

	top := l.top()
	require.Len(t, top, 3)
	assert.Equal(t, 3, top[0].clientID, "more lines wins a score tie")
	assert.Equal(t, 1, top[1].clientID)
	assert.Equal(t, 2, top[2].clientID)

	top[0].Score = 0
	assert.Equal(t, 50, l.entries[0].Score, "top returns a copy")
}

func TestSnapshotIsStableUntilNextStep(t *testing.T) {
	s := newTestServer(5)
	before := s.GetSnapshot()
	h := s.RegisterClient("alice")
	s.ReportResult(h.ID, GameResult{GameID: uuid.New(), Score: 50})

	assert.Same(t, before, s.GetSnapshot())
	s.step()
	assert.NotSame(t, before, s.GetSnapshot())
	assert.Empty(t, before.TopScores)
}

func TestShutdownWaitsForClients(t *testing.T) {
	s := newTestServer(5)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	h := s.RegisterClient("alice")
	go func() {
		for ev := range h.EventsCh {
			if ev.Type == EventServerShutdown {
				s.UnregisterClient(h.ID)
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		s.Shutdown(5 * time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("shutdown did not return after the client left")
	}
	assert.Equal(t, 0, s.ClientCount())
}

func TestShutdownTimesOut(t *testing.T) {
	s := newTestServer(5)
	s.RegisterClient("stubborn")

	start := time.Now()
	s.Shutdown(300 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
	assert.Equal(t, 1, s.ClientCount())
}
