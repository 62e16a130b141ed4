package api

import (
	"context"
	"testing"
	"time"

	"github.com/npezzotti/go-social/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestUserId(t *testing.T) {
	tcases := []struct {
		name     string
		ctx      context.Context
		expected int
		ok       bool
	}{
		{
			name:     "user id present",
			ctx:      WithUserId(context.Background(), 42),
			expected: 42,
			ok:       true,
		},
		{
			name: "user id absent",
			ctx:  context.Background(),
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := UserId(tc.ctx)
			assert.Equal(t, tc.ok, ok, "expected presence flag to match")
			assert.Equal(t, tc.expected, id, "expected user id to match")
		})
	}
}

func Test_hashPassword_verifyPassword(t *testing.T) {
	hash, err := hashPassword("s3cret")
	assert.NoError(t, err, "expected no error hashing password")
	assert.NotEqual(t, "s3cret", hash, "expected hash to differ from plaintext")

	assert.True(t, verifyPassword(hash, "s3cret"), "expected correct password to verify")
	assert.False(t, verifyPassword(hash, "wrong"), "expected wrong password to fail verification")
}

func Test_jwtRoundTrip(t *testing.T) {
	s := &SocialApp{signingKey: []byte("test-signing-key")}

	token, err := s.createJwtForSession(types.User{Id: 42}, defaultJwtExpiration)
	assert.NoError(t, err, "expected no error creating token")
	assert.NotEmpty(t, token, "expected a signed token")

	userId, err := s.extractUserIdFromToken(token)
	assert.NoError(t, err, "expected no error verifying token")
	assert.Equal(t, 42, userId, "expected user id claim to round trip")
}

func Test_extractUserIdFromToken_invalid(t *testing.T) {
	s := &SocialApp{signingKey: []byte("test-signing-key")}

	t.Run("garbage token", func(t *testing.T) {
		_, err := s.extractUserIdFromToken("not-a-token")
		assert.Error(t, err, "expected error for malformed token")
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := &SocialApp{signingKey: []byte("other-key")}
		token, err := other.createJwtForSession(types.User{Id: 42}, defaultJwtExpiration)
		assert.NoError(t, err, "expected no error creating token")

		_, err = s.extractUserIdFromToken(token)
		assert.Error(t, err, "expected error for token signed with another key")
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := s.createJwtForSession(types.User{Id: 42}, -time.Minute)
		assert.NoError(t, err, "expected no error creating token")

		_, err = s.extractUserIdFromToken(token)
		assert.Error(t, err, "expected error for expired token")
	})
}

func Test_createJwtCookie(t *testing.T) {
	cookie := createJwtCookie("tokenvalue", time.Hour)

	assert.Equal(t, tokenCookieKey, cookie.Name, "expected cookie name to match")
	assert.Equal(t, "tokenvalue", cookie.Value, "expected cookie value to match")
	assert.True(t, cookie.HttpOnly, "expected cookie to be http only")
	assert.WithinDuration(t, time.Now().Add(time.Hour), cookie.Expires, time.Second, "expected cookie expiration to match")
}
