package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := Generate("secreto", "user-1", "planificador", "produccion-api", 5)
	require.NoError(t, err)

	userID, role, err := Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "planificador", role)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	token, err := Generate("secreto", "user-1", "admin", "produccion-api", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := Generate("secreto", "user-1", "admin", "produccion-api", -1)
	require.NoError(t, err)

	_, _, err = Parse("secreto", token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "user-1", "admin", "x", 5)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, _, err = Parse("", "abc")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
