package auth

import (
	"sync"

	"github.com/google/uuid"
)

// CookieName is the session cookie issued to clients.
const CookieName = "notes_session"

// Sessions maps opaque tokens to user ids. The transport layer carries
// the token in a cookie; everything else sees only the resolved id.
type Sessions struct {
	mu     sync.RWMutex
	tokens map[string]int64
}

func NewSessions() *Sessions {
	return &Sessions{tokens: make(map[string]int64)}
}

// Issue creates a new session for userID and returns its token.
func (s *Sessions) Issue(userID int64) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = userID
	s.mu.Unlock()
	return token
}

// Resolve returns the user id behind token, if any.
func (s *Sessions) Resolve(token string) (int64, bool) {
	s.mu.RLock()
	userID, ok := s.tokens[token]
	s.mu.RUnlock()
	return userID, ok
}

// Revoke drops the session behind token. Returns false when no such
// session existed.
func (s *Sessions) Revoke(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token]; !ok {
		return false
	}
	delete(s.tokens, token)
	return true
}

// RevokeUser drops every session belonging to userID.
func (s *Sessions) RevokeUser(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, id := range s.tokens {
		if id == userID {
			delete(s.tokens, token)
		}
	}
}
