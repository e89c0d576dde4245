package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	got, err := ValidateUsername("  alice_01  ")
	require.NoError(t, err)
	assert.Equal(t, "alice_01", got)

	for _, bad := range []string{"", "ab", strings.Repeat("a", 31), "has space", "dots.bad", "héllo"} {
		_, err := ValidateUsername(bad)
		assert.Error(t, err, "username %q", bad)
		assert.True(t, IsValidation(err))
	}
}

func TestValidateEmail(t *testing.T) {
	got, err := ValidateEmail("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got)

	for _, bad := range []string{"", "no-at.com", "no@dot", "sp ace@x.com", "@x.com"} {
		_, err := ValidateEmail(bad)
		assert.Error(t, err, "email %q", bad)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("longenough"))
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("short77"))
}

func TestValidateFolderName(t *testing.T) {
	got, err := ValidateFolderName("  Work  ")
	require.NoError(t, err)
	assert.Equal(t, "Work", got)

	_, err = ValidateFolderName("   ")
	assert.Error(t, err)
	_, err = ValidateFolderName(strings.Repeat("x", 26))
	assert.Error(t, err)

	// Limits count characters, not bytes.
	got, err = ValidateFolderName(strings.Repeat("ф", 25))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ф", 25), got)
	_, err = ValidateFolderName(strings.Repeat("ф", 26))
	assert.Error(t, err)
}

func TestValidateFolderColor(t *testing.T) {
	got, err := ValidateFolderColor("#FF5733")
	require.NoError(t, err)
	assert.Equal(t, "#ff5733", got)

	for _, bad := range []string{"", "FF5733", "#FF573", "#FF57333", "#GG5733"} {
		_, err := ValidateFolderColor(bad)
		assert.Error(t, err, "color %q", bad)
	}
}

func TestValidateNoteTitle(t *testing.T) {
	got, err := ValidateNoteTitle(" My note ")
	require.NoError(t, err)
	assert.Equal(t, "My note", got)

	_, err = ValidateNoteTitle("")
	assert.Error(t, err)
	_, err = ValidateNoteTitle(strings.Repeat("t", 101))
	assert.Error(t, err)

	got, err = ValidateNoteTitle(strings.Repeat("日", 100))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("日", 100), got)
	_, err = ValidateNoteTitle(strings.Repeat("日", 101))
	assert.Error(t, err)
}

func TestValidateTagName(t *testing.T) {
	got, err := ValidateTagName(" urgent ")
	require.NoError(t, err)
	assert.Equal(t, "urgent", got)

	_, err = ValidateTagName("")
	assert.Error(t, err)
	_, err = ValidateTagName(strings.Repeat("g", 51))
	assert.Error(t, err)

	got, err = ValidateTagName(strings.Repeat("ü", 50))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ü", 50), got)
	_, err = ValidateTagName(strings.Repeat("ü", 51))
	assert.Error(t, err)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(20, 0, 25)
	assert.True(t, p.HasMore)
	require.NotNil(t, p.NextOffset)
	assert.Equal(t, 20, *p.NextOffset)

	p = NewPagination(20, 20, 25)
	assert.False(t, p.HasMore)
	assert.Nil(t, p.NextOffset)
}
