package game

import "sync"

// SessionStore abstracts how active sessions are kept (in-memory, Redis-marked).
// Put overwrites any prior session for the room: starting a game discards an
// unfinished one.
type SessionStore interface {
	Put(roomID int64, s *Session)
	Get(roomID int64) (*Session, bool)
	Delete(roomID int64)
}

// Store is the in-memory SessionStore, a mutex-guarded map from room id to
// its active session. It is a process-lifetime singleton owned by the
// server wiring; nothing here survives a restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

func (s *Store) Put(roomID int64, session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[roomID] = session
}

func (s *Store) Get(roomID int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[roomID]
	return session, ok
}

func (s *Store) Delete(roomID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, roomID)
}
