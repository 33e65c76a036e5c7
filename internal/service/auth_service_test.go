package service

import (
	"testing"
	"time"

	"lifehub/training-core/internal/repository/memory"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() AuthService {
	return NewAuthService(memory.NewStore().Users(), "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService()

	user, err := svc.Register(testCtx, "Alex", "alex@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	token, loggedIn, err := svc.Login(testCtx, "alex@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Empty(t, loggedIn.PasswordHash)

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.Hex(), claims["uid"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService()
	_, err := svc.Register(testCtx, "Alex", "alex@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Register(testCtx, "Other", "alex@example.com", "different")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newAuthService()
	_, err := svc.Register(testCtx, "Alex", "alex@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login(testCtx, "alex@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(testCtx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
