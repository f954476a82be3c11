package ui

import (
	"sync"

	"tablechat/domain/dataset"

	"github.com/google/uuid"
)

// DefaultSession is used when a client does not negotiate a session ID.
const DefaultSession = "default"

// SessionStore holds each session's dataset snapshot in memory. A dataset
// lives for the session only: uploads replace it wholesale and nothing is
// persisted across process restarts.
type SessionStore struct {
	mu       sync.RWMutex
	datasets map[string]*dataset.Dataset
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{datasets: make(map[string]*dataset.Dataset)}
}

// NewSession allocates a fresh session ID.
func (s *SessionStore) NewSession() string {
	return uuid.NewString()
}

// Put replaces the session's dataset.
func (s *SessionStore) Put(sessionID string, ds *dataset.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[sessionID] = ds
}

// Get returns the session's dataset, or false when none was uploaded yet.
func (s *SessionStore) Get(sessionID string) (*dataset.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[sessionID]
	return ds, ok
}
