package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokens_RoundTrip(t *testing.T) {
	m := NewSessionTokens("secret", time.Hour, "loyalty-funnel")
	sid := NewSessionID()

	tok, exp, err := m.Sign(sid)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	got, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, sid, got)
}

func TestSessionTokens_Rejects(t *testing.T) {
	m := NewSessionTokens("secret", time.Hour, "")
	tok, _, err := m.Sign(NewSessionID())
	require.NoError(t, err)

	_, err = NewSessionTokens("other", time.Hour, "").Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)

	expired := NewSessionTokens("secret", -time.Minute, "")
	old, _, err := expired.Sign(NewSessionID())
	require.NoError(t, err)
	_, err = m.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)

	notUUID, _, err := m.Sign("not-a-uuid")
	require.NoError(t, err)
	_, err = m.Parse(notUUID)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)

	_, err = m.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}
