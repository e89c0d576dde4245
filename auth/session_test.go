package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsIssueResolve(t *testing.T) {
	s := NewSessions()

	token := s.Issue(42)
	require.NotEmpty(t, token)

	id, ok := s.Resolve(token)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = s.Resolve("nope")
	assert.False(t, ok)
}

func TestSessionsRevoke(t *testing.T) {
	s := NewSessions()
	token := s.Issue(7)

	assert.True(t, s.Revoke(token))
	_, ok := s.Resolve(token)
	assert.False(t, ok)

	assert.False(t, s.Revoke(token))
}

func TestSessionsRevokeUser(t *testing.T) {
	s := NewSessions()
	a := s.Issue(1)
	b := s.Issue(1)
	c := s.Issue(2)

	s.RevokeUser(1)
	_, ok := s.Resolve(a)
	assert.False(t, ok)
	_, ok = s.Resolve(b)
	assert.False(t, ok)
	_, ok = s.Resolve(c)
	assert.True(t, ok)
}
