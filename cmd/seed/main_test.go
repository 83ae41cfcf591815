package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/loyalty-funnel/internal/session/sessiontest"
	"github.com/oksasatya/loyalty-funnel/pkg/validation"
)

func TestCheck(t *testing.T) {
	v := validation.New()
	require.NoError(t, check(v, sessiontest.UserRecord()))

	rec := sessiontest.UserRecord()
	rec.Phone = "call me"
	assert.EqualError(t, check(v, rec), "invalid fixture: phone must be a valid phone number")

	rec = sessiontest.UserRecord()
	rec.BirthMonth = "march"
	assert.EqualError(t, check(v, rec), "invalid fixture: birthMonth must be an English month name")
}
