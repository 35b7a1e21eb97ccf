package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/tetrachess/server/game/engine"
	"github.com/tetrachess/server/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrSessionLimitReached  = errors.New("session limit reached")
)

// Manager owns the live game sessions. Each session wraps one engine; the
// manager only touches session metadata, so holding its lock never blocks on
// game rules. Session IDs are case-insensitive.
type Manager struct {
	mu          sync.RWMutex
	live        map[string]*service.Session
	persistence SessionPersistence
	maxSessions int
}

// NewManager creates a session manager without persistence.
func NewManager() *Manager {
	return &Manager{live: make(map[string]*service.Session)}
}

// NewManagerWithPersistence creates a session manager backed by p: new and
// swept sessions are written through, and unknown IDs are looked up on disk
// before being reported missing.
func NewManagerWithPersistence(p SessionPersistence) *Manager {
	return &Manager{live: make(map[string]*service.Session), persistence: p}
}

// SetMaxSessions caps the number of concurrently held sessions. Zero means
// unlimited.
func (m *Manager) SetMaxSessions(n int) {
	m.mu.Lock()
	m.maxSessions = n
	m.mu.Unlock()
}

func sessionKey(id string) string { return strings.ToLower(id) }

// Create starts a new session for the given config. An empty id gets a
// random 8-character one.
func (m *Manager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if id == "" {
		id = newSessionID()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.live) >= m.maxSessions {
		return nil, ErrSessionLimitReached
	}
	if _, taken := m.live[sessionKey(id)]; taken {
		return nil, ErrSessionAlreadyExists
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	now := time.Now()
	s := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.live[sessionKey(id)] = s

	// Persist eagerly so a fresh session survives an immediate crash; a
	// failure here only costs durability, not the session.
	if m.persistence != nil {
		if err := m.persistence.Save(s); err != nil {
			log.Printf("Warning: Failed to persist session %s: %v", id, err)
		}
	}
	return s, nil
}

// Get returns the session with the given ID, resurrecting it from
// persistence if it is not in memory.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	s, ok := m.live[sessionKey(id)]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	if m.persistence == nil || !m.persistence.Exists(id) {
		return nil, ErrSessionNotFound
	}

	loaded, err := m.persistence.Load(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// A concurrent Get may have resurrected it first; keep that one so both
	// callers share the same engine.
	if s, ok := m.live[sessionKey(id)]; ok {
		return s, nil
	}
	m.live[sessionKey(id)] = loaded
	return loaded, nil
}

// List returns all in-memory sessions in no particular order.
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*service.Session, 0, len(m.live))
	for _, s := range m.live {
		out = append(out, s)
	}
	return out
}

// Delete removes a session from memory and from persistence.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := sessionKey(id)
	_, inMemory := m.live[key]
	delete(m.live, key)

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}
	if !inMemory {
		return ErrSessionNotFound
	}
	return nil
}

// UpdateLastAccessed refreshes the session's TTL clock.
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.live[sessionKey(id)]
	if !ok {
		return ErrSessionNotFound
	}
	s.LastAccessedAt = time.Now()
	return nil
}

// Save writes one session's current state through to persistence. It is a
// no-op without persistence.
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	s, ok := m.live[sessionKey(id)]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}
	return m.persistence.Save(s)
}

// CleanupExpiredSessions drops sessions idle for longer than maxAge from
// memory and returns how many were dropped. Persisted snapshots stay on disk,
// so an expired session can still be resurrected by Get.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for key, s := range m.live {
		if s.LastAccessedAt.Before(cutoff) {
			delete(m.live, key)
			removed++
		}
	}
	return removed
}

// Count returns the number of in-memory sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.live)
}

func newSessionID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// LoadPersistedSessions brings every persisted session into memory, skipping
// IDs already live and logging (not failing on) corrupt snapshots. Called
// once at startup.
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, id := range ids {
		if _, ok := m.live[sessionKey(id)]; ok {
			continue
		}
		s, err := m.persistence.Load(id)
		if err != nil {
			log.Printf("Warning: Failed to load persisted session %s: %v", id, err)
			continue
		}
		m.live[sessionKey(id)] = s
		loaded++
	}
	if loaded > 0 {
		log.Printf("Loaded %d persisted sessions from storage", loaded)
	}
	return nil
}

// SaveAllSessions flushes every in-memory session to persistence. Called on
// shutdown; individual failures are logged and summarized in the returned
// error.
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}

	failed := 0
	for _, s := range m.List() {
		if err := m.persistence.Save(s); err != nil {
			log.Printf("Warning: Failed to save session %s: %v", s.ID, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to save %d sessions", failed)
	}
	return nil
}
