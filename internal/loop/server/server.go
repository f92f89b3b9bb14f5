// Package server tracks connected sessions and the shared leaderboard. Every
// session plays its own board; the server never touches game state.
package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kamstrup/intmap"

	"github.com/tomz197/blockfall/internal/loop/config"
)

// GameServer is the interface clients use to communicate with the server.
// Decouples the Client from the concrete Server implementation, enabling
// testing and alternative hosts.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportResult(clientID int, result GameResult)
	GetSnapshot() *ServerSnapshot
}

// Server manages session registration and the leaderboard.
type Server struct {
	snapshot     atomic.Pointer[ServerSnapshot]
	clients      *intmap.Map[int, *ClientHandle]
	nextClientID int
	resultCh     chan clientResult
	registerCh   chan *ClientHandle
	unregisterCh chan int
	mu           sync.RWMutex // Guards clients and nextClientID
	scores       *leaderboard // Owned by the Run goroutine
	logger       *log.Logger
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this client
	EventsCh chan ClientEvent // Events sent to client
}

// clientResult is a finished game reported by a specific client.
type clientResult struct {
	ClientID int
	Result   GameResult
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
	Rank int // 1-based leaderboard position for EventNewHighScore
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventNewHighScore ClientEventType = iota
	EventServerShutdown
)

// Options configures a Server.
type Options struct {
	Logger          *log.Logger // Defaults to log.Default()
	LeaderboardSize int         // Defaults to config.LeaderboardSize
}

// NewServer creates a new server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	size := opts.LeaderboardSize
	if size <= 0 {
		size = config.LeaderboardSize
	}

	s := &Server{
		clients:      intmap.New[int, *ClientHandle](64),
		nextClientID: 1,
		resultCh:     make(chan clientResult, 64),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		scores:       newLeaderboard(size),
		logger:       logger,
	}

	// Create initial empty snapshot
	s.snapshot.Store(&ServerSnapshot{TopScores: []TopScoreEntry{}})

	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(config.ServerTickTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.step()
		}
	}
}

// step processes everything queued since the last tick and publishes a new
// snapshot.
func (s *Server) step() {
	s.processRegistrations()
	s.collectResults()
	s.createSnapshot()
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	// Notify all connected clients about the shutdown
	s.mu.RLock()
	s.clients.ForEach(func(_ int, handle *ClientHandle) bool {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
		return true
	})
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "remaining", s.ClientCount())
			return
		case <-ticker.C:
			if s.ClientCount() == 0 {
				return
			}
		}
	}
}

// ClientCount returns the number of registered clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clients.Len()
}

// RegisterClient registers a new client with the given username and returns its handle.
// The client is visible to Shutdown immediately; it shows up in snapshots
// after the next server tick.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}
	s.clients.Put(id, handle)
	s.mu.Unlock()

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the server. Its events channel is
// closed once the server processes the request.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// ReportResult records a finished game for the leaderboard.
func (s *Server) ReportResult(clientID int, result GameResult) {
	select {
	case s.resultCh <- clientResult{ClientID: clientID, Result: result}:
	default:
		s.logger.Warn("result dropped", "client", clientID, "game", result.GameID)
	}
}

// GetSnapshot returns the current server snapshot.
func (s *Server) GetSnapshot() *ServerSnapshot {
	return s.snapshot.Load()
}

// processRegistrations handles pending client registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.logger.Info("client registered", "client", handle.ID, "user", handle.Username)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients.Get(clientID); ok {
				close(handle.EventsCh)
				s.clients.Del(clientID)
				s.logger.Info("client unregistered", "client", clientID, "user", handle.Username)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// collectResults feeds reported games into the leaderboard and tells the
// owning client when it placed.
func (s *Server) collectResults() {
	for {
		select {
		case cr := <-s.resultCh:
			s.recordResult(cr)
		default:
			return
		}
	}
}

func (s *Server) recordResult(cr clientResult) {
	s.mu.RLock()
	handle, ok := s.clients.Get(cr.ClientID)
	s.mu.RUnlock()

	entry := TopScoreEntry{
		Score:    cr.Result.Score,
		Lines:    cr.Result.Lines,
		GameID:   cr.Result.GameID,
		Finished: time.Now(),
		clientID: cr.ClientID,
	}
	if ok {
		entry.Username = handle.Username
	}

	if !s.scores.add(entry) {
		return
	}
	s.logger.Debug("leaderboard entry",
		"client", cr.ClientID, "game", cr.Result.GameID, "score", cr.Result.Score)

	if !ok {
		return
	}
	for i, e := range s.scores.entries {
		if e.GameID == entry.GameID && e.clientID == entry.clientID {
			s.mu.RLock()
			if _, still := s.clients.Get(cr.ClientID); still {
				select {
				case handle.EventsCh <- ClientEvent{Type: EventNewHighScore, Rank: i + 1}:
				default:
				}
			}
			s.mu.RUnlock()
			break
		}
	}
}

// createSnapshot creates an immutable snapshot of the server state.
func (s *Server) createSnapshot() {
	snapshot := &ServerSnapshot{
		Players:   s.ClientCount(),
		TopScores: s.scores.top(),
	}
	s.snapshot.Store(snapshot)
}
