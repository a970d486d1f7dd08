//go:build unit

package usecase_test

import (
	"testing"
	"time"

	"coffee-loyalty/internal/pkg/errs"
	"coffee-loyalty/internal/pkg/jwt"
	"coffee-loyalty/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminValidator_ValidateKey(t *testing.T) {
	v := usecase.NewAdminValidator("admin-key", "store-1", jwt.NewService("s", time.Hour))

	assert.True(t, v.ValidateKey("admin-key"))
	assert.False(t, v.ValidateKey("admin-ke"))
	assert.False(t, v.ValidateKey("admin-key2"))
	assert.False(t, v.ValidateKey(""))

	unset := usecase.NewAdminValidator("", "store-1", jwt.NewService("s", time.Hour))
	assert.False(t, unset.ValidateKey(""))
}

func TestAdminValidator_ValidateSession(t *testing.T) {
	svc := jwt.NewService("session-secret", time.Hour)
	v := usecase.NewAdminValidator("admin-key", "store-1", svc)

	token, err := svc.GenerateToken("store-1")
	require.NoError(t, err)
	assert.NoError(t, v.ValidateSession(token))

	otherStore, err := svc.GenerateToken("store-2")
	require.NoError(t, err)
	assert.ErrorIs(t, v.ValidateSession(otherStore), errs.ErrForbidden)

	foreign, err := jwt.NewService("other-secret", time.Hour).GenerateToken("store-1")
	require.NoError(t, err)
	assert.ErrorIs(t, v.ValidateSession(foreign), errs.ErrForbidden)

	expired, err := jwt.NewService("session-secret", -time.Minute).GenerateToken("store-1")
	require.NoError(t, err)
	assert.ErrorIs(t, v.ValidateSession(expired), errs.ErrForbidden)

	assert.ErrorIs(t, v.ValidateSession("garbage"), errs.ErrForbidden)
}
