package services

import (
	"context"
	"testing"

	"prediction-arena/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestRegisterGeneratesNickname(t *testing.T) {
	svc := NewUserService(setupUserDB(t))

	user, err := svc.Register(context.Background(), addrAlice, "")
	require.NoError(t, err)
	assert.Equal(t, addrAlice, user.UserAddress)
	assert.NotEmpty(t, user.Nickname)
}

func TestRegisterIsIdempotent(t *testing.T) {
	db := setupUserDB(t)
	svc := NewUserService(db)

	first, err := svc.Register(context.Background(), addrAlice, "degen")
	require.NoError(t, err)

	second, err := svc.Register(context.Background(), addrAlice, "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "degen", second.Nickname)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterUpdatesNickname(t *testing.T) {
	svc := NewUserService(setupUserDB(t))

	_, err := svc.Register(context.Background(), addrAlice, "old")
	require.NoError(t, err)

	user, err := svc.Register(context.Background(), addrAlice, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", user.Nickname)

	fetched, err := svc.GetByAddress(context.Background(), addrAlice)
	require.NoError(t, err)
	assert.Equal(t, "new", fetched.Nickname)
}

func TestGetByAddressNotFound(t *testing.T) {
	svc := NewUserService(setupUserDB(t))

	_, err := svc.GetByAddress(context.Background(), addrBob)
	assert.ErrorIs(t, err, ErrNotFound)
}
