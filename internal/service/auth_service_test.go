package service

import (
	"context"
	"testing"

	"mekarsari-pos/internal/model"
	"mekarsari-pos/internal/revocation"
	"mekarsari-pos/pkg/apperr"
	"mekarsari-pos/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	blocklist := revocation.NewMemoryBlocklist()
	auth := NewAuthService(f.userRepo, blocklist)

	kasir := f.seedCashier(t, "sari")

	resp, err := auth.Login(&LoginRequest{Username: "sari", Password: "rahasia"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, model.RoleCashier, resp.User.Role)

	claims, err := jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, kasir.ID, claims.UserID)
	assert.NotEmpty(t, claims.ID) // jti for revocation

	// Wrong password and unknown user fail identically
	_, err = auth.Login(&LoginRequest{Username: "sari", Password: "salah"})
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	_, err = auth.Login(&LoginRequest{Username: "hantu", Password: "rahasia"})
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestLoginInactiveAccount(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.userRepo, revocation.NewMemoryBlocklist())

	kasir := f.seedCashier(t, "sari")
	kasir.IsActive = false
	require.NoError(t, f.userRepo.Update(kasir))

	_, err := auth.Login(&LoginRequest{Username: "sari", Password: "rahasia"})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	blocklist := revocation.NewMemoryBlocklist()
	auth := NewAuthService(f.userRepo, blocklist)
	f.seedCashier(t, "sari")

	resp, err := auth.Login(&LoginRequest{Username: "sari", Password: "rahasia"})
	require.NoError(t, err)

	claims, err := jwt.ValidateToken(resp.Token)
	require.NoError(t, err)

	ctx := context.Background()
	revoked, err := blocklist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, auth.Logout(ctx, claims))

	revoked, err = blocklist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestCreateUser(t *testing.T) {
	f := newFixture(t)

	user, err := f.users.CreateUser("admin", &CreateUserRequest{
		Username: "dapur1",
		Password: "rahasia",
		FullName: "Tim Dapur",
		Role:     model.RoleKitchen,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleKitchen, user.Role)

	// Duplicate username
	_, err = f.users.CreateUser("admin", &CreateUserRequest{
		Username: "dapur1", Password: "rahasia", Role: model.RoleKitchen,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// Bad role, short password
	_, err = f.users.CreateUser("admin", &CreateUserRequest{
		Username: "dapur2", Password: "rahasia", Role: "manajer",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	_, err = f.users.CreateUser("admin", &CreateUserRequest{
		Username: "dapur2", Password: "abc", Role: model.RoleKitchen,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestListStaffExcludesAdmin(t *testing.T) {
	f := newFixture(t)
	f.seedCashier(t, "sari")

	_, err := f.users.CreateUser("system", &CreateUserRequest{
		Username: "boss", Password: "rahasia", Role: model.RoleAdmin,
	})
	require.NoError(t, err)

	staff, err := f.users.ListStaff()
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "sari", staff[0].Username)

	all, err := f.users.ListUsers()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
