package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/terzahh/samara-repository-sub000/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Role{},
		&model.Department{},
		&model.User{},
		&model.PasswordResetToken{},
	))

	return db
}

func seedResetUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()

	user := &model.User{
		ID:           uuid.New(),
		Email:        "reader@example.com",
		PasswordHash: "old-hash",
		DisplayName:  "Reader",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRedeemMarksTokenUsedAndUpdatesPassword(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResetTokenRepository(db)
	user := seedResetUser(t, db)

	token := &model.PasswordResetToken{
		TokenHash: "hash-1",
		Email:     user.Email,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), token))

	require.NoError(t, repo.Redeem(context.Background(), "hash-1", "new-hash", time.Now()))

	var updated model.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	assert.Equal(t, "new-hash", updated.PasswordHash)

	var stored model.PasswordResetToken
	require.NoError(t, db.First(&stored, "token_hash = ?", "hash-1").Error)
	assert.True(t, stored.Used)
}

func TestRedeemIsAtMostOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResetTokenRepository(db)
	user := seedResetUser(t, db)

	token := &model.PasswordResetToken{
		TokenHash: "hash-1",
		Email:     user.Email,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), token))

	require.NoError(t, repo.Redeem(context.Background(), "hash-1", "first-hash", time.Now()))

	// Second redemption loses: the conditional update matches no row.
	err := repo.Redeem(context.Background(), "hash-1", "second-hash", time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var updated model.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	assert.Equal(t, "first-hash", updated.PasswordHash)
}

func TestRedeemExpiredToken(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResetTokenRepository(db)
	user := seedResetUser(t, db)

	token := &model.PasswordResetToken{
		TokenHash: "hash-1",
		Email:     user.Email,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.Create(context.Background(), token))

	err := repo.Redeem(context.Background(), "hash-1", "new-hash", time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var updated model.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	assert.Equal(t, "old-hash", updated.PasswordHash)
}

func TestFindActiveByHashFiltersUsedAndExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResetTokenRepository(db)
	user := seedResetUser(t, db)

	now := time.Now()
	tokens := []*model.PasswordResetToken{
		{TokenHash: "active", Email: user.Email, UserID: user.ID, ExpiresAt: now.Add(time.Hour)},
		{TokenHash: "used", Email: user.Email, UserID: user.ID, ExpiresAt: now.Add(time.Hour), Used: true},
		{TokenHash: "expired", Email: user.Email, UserID: user.ID, ExpiresAt: now.Add(-time.Minute)},
	}
	for _, token := range tokens {
		require.NoError(t, repo.Create(context.Background(), token))
	}

	found, err := repo.FindActiveByHash(context.Background(), "active", now)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = repo.FindActiveByHash(context.Background(), "used", now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindActiveByHash(context.Background(), "expired", now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
