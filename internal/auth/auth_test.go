package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	actor := Actor{ID: uuid.New(), Name: "Dr. Smith", Role: RoleProfessor}

	raw, err := SignToken(secret, actor, time.Hour)
	require.NoError(t, err)

	parsed, err := ParseToken(secret, raw)
	require.NoError(t, err)
	require.Equal(t, actor, parsed)
}

func TestParseToken_WrongSecret(t *testing.T) {
	actor := Actor{ID: uuid.New(), Name: "x", Role: RoleStudent}
	raw, err := SignToken(secret, actor, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("other-secret"), raw)
	require.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	actor := Actor{ID: uuid.New(), Name: "x", Role: RoleStudent}
	raw, err := SignToken(secret, actor, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(secret, raw)
	require.Error(t, err)
}

func TestParseToken_UnknownRole(t *testing.T) {
	actor := Actor{ID: uuid.New(), Name: "x", Role: Role("admin")}
	raw, err := SignToken(secret, actor, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(secret, raw)
	require.Error(t, err)
}
