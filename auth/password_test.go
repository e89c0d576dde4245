package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PaperyIron/notesWebApp/domain"
)

func TestHashPassword(t *testing.T) {
	digest, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", digest)

	assert.True(t, CheckPassword("correct horse", digest))
	assert.False(t, CheckPassword("wrong horse", digest))
}

func TestHashPasswordTooShort(t *testing.T) {
	_, err := HashPassword("seven77")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("password123")
	require.NoError(t, err)
	b, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
