package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticTokenVerifier(t *testing.T) {
	v := &StaticTokenVerifier{Token: "s3cret"}

	data, err := v.Verify("Bearer s3cret")
	require.NoError(t, err)
	assert.Equal(t, "static-admin", data.Sub)

	_, err = v.Verify("Bearer wrong")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = (&StaticTokenVerifier{}).Verify("Bearer anything")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenDataFromClaims(t *testing.T) {
	data := tokenDataFromClaims(jwt.MapClaims{
		"sub":            "abc",
		"email":          "admin@upra.fr",
		"cognito:groups": []any{"admins", "staff"},
		"exp":            float64(1700000000),
	})

	assert.Equal(t, "abc", data.Sub)
	assert.Equal(t, "admin@upra.fr", data.Email)
	assert.True(t, data.InGroup("admins"))
	assert.False(t, data.InGroup("root"))
	assert.EqualValues(t, 1700000000, data.Exp)
}

func TestTokenDataFromSpaceSeparatedGroups(t *testing.T) {
	data := tokenDataFromClaims(jwt.MapClaims{"groups": "admins staff"})
	assert.Equal(t, []string{"admins", "staff"}, data.Groups)
}
