package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/terzahh/samara-repository-sub000/internal/model"
)

func setupBackupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Role{},
		&model.Department{},
		&model.User{},
		&model.Research{},
		&model.Comment{},
		&model.Bookmark{},
		&model.Download{},
		&model.PasswordResetToken{},
		&model.SystemSetting{},
		&model.ContactMessage{},
	))

	return db
}

func TestBackupExportContainsManifest(t *testing.T) {
	db := setupBackupDB(t)
	require.NoError(t, db.Create(&model.Role{Name: "admin"}).Error)
	require.NoError(t, db.Create(&model.Department{ID: uuid.New(), Name: "Physics"}).Error)

	svc := NewBackupService(db)

	archive, err := svc.Export(context.Background())
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)

	var manifestData []byte
	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
		if f.Name == "manifest.json" {
			rc, err := f.Open()
			require.NoError(t, err)
			buf := new(bytes.Buffer)
			_, err = buf.ReadFrom(rc)
			rc.Close()
			require.NoError(t, err)
			manifestData = buf.Bytes()
		}
	}

	assert.True(t, names["roles.json"])
	assert.True(t, names["departments.json"])
	assert.True(t, names["users.json"])

	require.NotNil(t, manifestData)
	var manifest struct {
		Version int              `json:"version"`
		Tables  map[string]int64 `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(manifestData, &manifest))
	assert.Equal(t, 1, manifest.Version)
	assert.Equal(t, int64(1), manifest.Tables["roles"])
	assert.Equal(t, int64(1), manifest.Tables["departments"])
	assert.Equal(t, int64(0), manifest.Tables["users"])
}

func TestBackupRoundTrip(t *testing.T) {
	source := setupBackupDB(t)
	require.NoError(t, source.Create(&model.Role{Name: "admin"}).Error)
	require.NoError(t, source.Create(&model.Department{ID: uuid.New(), Name: "Physics"}).Error)
	require.NoError(t, source.Create(&model.SystemSetting{Key: "site_title", Value: "Repository"}).Error)

	archive, err := NewBackupService(source).Export(context.Background())
	require.NoError(t, err)

	target := setupBackupDB(t)
	require.NoError(t, NewBackupService(target).Restore(context.Background(), bytes.NewReader(archive), int64(len(archive))))

	var roleCount, deptCount int64
	require.NoError(t, target.Table("roles").Count(&roleCount).Error)
	require.NoError(t, target.Table("departments").Count(&deptCount).Error)
	assert.Equal(t, int64(1), roleCount)
	assert.Equal(t, int64(1), deptCount)

	var value string
	require.NoError(t, target.Table("system_settings").
		Select("value").Where("key = ?", "site_title").Scan(&value).Error)
	assert.Equal(t, "Repository", value)

	// Restoring again is an upsert, not a duplicate insert.
	require.NoError(t, NewBackupService(target).Restore(context.Background(), bytes.NewReader(archive), int64(len(archive))))
	require.NoError(t, target.Table("roles").Count(&roleCount).Error)
	assert.Equal(t, int64(1), roleCount)
}

func TestRestoreRejectsGarbage(t *testing.T) {
	db := setupBackupDB(t)
	svc := NewBackupService(db)

	garbage := []byte("not a zip archive")
	err := svc.Restore(context.Background(), bytes.NewReader(garbage), int64(len(garbage)))
	assert.Error(t, err)
}
