package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terzahh/samara-repository-sub000/internal/model"
)

func TestSettingsUpsert(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&model.SystemSetting{}))
	repo := NewSettingsRepository(db)

	require.NoError(t, repo.Upsert(context.Background(), &model.SystemSetting{
		Key:   "site_title",
		Value: "Institutional Repository",
	}))
	require.NoError(t, repo.Upsert(context.Background(), &model.SystemSetting{
		Key:   "site_title",
		Value: "Samara Repository",
	}))

	setting, err := repo.FindByKey(context.Background(), "site_title")
	require.NoError(t, err)
	assert.Equal(t, "Samara Repository", setting.Value)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
