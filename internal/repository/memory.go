package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/holdem-client/internal/apperror"
	"github.com/rocketscienceinc/holdem-client/internal/entity"
)

type memorySession struct {
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	session   entity.Session
	expiresAt time.Time
}

// NewMemorySessionRepository keeps sessions for the lifetime of the process.
func NewMemorySessionRepository() SessionRepository {
	return &memorySession{
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (that *memorySession) Save(_ context.Context, profile string, session *entity.Session, ttl time.Duration) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry := memoryEntry{session: *session}
	if ttl > 0 {
		entry.expiresAt = that.now().Add(ttl)
	}

	that.sessions[profile] = entry

	return nil
}

func (that *memorySession) Get(_ context.Context, profile string) (*entity.Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	entry, ok := that.sessions[profile]
	if !ok || (!entry.expiresAt.IsZero() && !that.now().Before(entry.expiresAt)) {
		return nil, apperror.ErrSessionNotFound
	}

	session := entry.session

	return &session, nil
}

func (that *memorySession) Delete(_ context.Context, profile string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, profile)

	return nil
}
