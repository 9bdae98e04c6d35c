package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terzahh/samara-repository-sub000/pkg/apperror"
)

// backupManifest describes the archive contents so a restore can sanity-check
// what it received before touching the database.
type backupManifest struct {
	Version   int              `json:"version"`
	CreatedAt time.Time        `json:"created_at"`
	Tables    map[string]int64 `json:"tables"`
}

const backupManifestVersion = 1

// backupTables lists every exported table with its conflict column for the
// restore upsert. Order matters on restore: parents before children.
var backupTables = []struct {
	Name string
	PK   string
}{
	{"roles", "id"},
	{"departments", "id"},
	{"users", "id"},
	{"research", "id"},
	{"comments", "id"},
	{"bookmarks", "id"},
	{"downloads", "id"},
	{"password_resets", "id"},
	{"system_settings", "key"},
	{"contact_messages", "id"},
}

type BackupService interface {
	Export(ctx context.Context) ([]byte, error)
	Restore(ctx context.Context, archive io.ReaderAt, size int64) error
}

// backupService works against *gorm.DB directly: the export walks every table
// as raw rows and the restore must upsert all of them inside one transaction,
// which does not map onto the per-entity repositories. Raw rows also keep
// columns the API never serializes, like password hashes.
type backupService struct {
	db *gorm.DB
}

func NewBackupService(db *gorm.DB) BackupService {
	return &backupService{db: db}
}

func (s *backupService) Export(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	manifest := backupManifest{
		Version:   backupManifestVersion,
		CreatedAt: time.Now().UTC(),
		Tables:    make(map[string]int64),
	}

	for _, table := range backupTables {
		var rows []map[string]any
		if err := s.db.WithContext(ctx).Table(table.Name).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to dump table %s: %w", table.Name, err)
		}

		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode table %s: %w", table.Name, err)
		}

		entry, err := zw.Create(table.Name + ".json")
		if err != nil {
			return nil, err
		}
		if _, err := entry.Write(data); err != nil {
			return nil, err
		}

		manifest.Tables[table.Name] = int64(len(rows))
	}

	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, err
	}
	entry, err := zw.Create("manifest.json")
	if err != nil {
		return nil, err
	}
	if _, err := entry.Write(manifestData); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s *backupService) Restore(ctx context.Context, archive io.ReaderAt, size int64) error {
	zr, err := zip.NewReader(archive, size)
	if err != nil {
		return apperror.New(0, "archive is not a valid backup", apperror.ErrBadRequest)
	}

	entries := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return err
		}
		entries[f.Name] = data
	}

	manifestData, ok := entries["manifest.json"]
	if !ok {
		return apperror.New(0, "backup is missing manifest.json", apperror.ErrBadRequest)
	}
	var manifest backupManifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		return apperror.New(0, "backup manifest is unreadable", apperror.ErrBadRequest)
	}
	if manifest.Version != backupManifestVersion {
		return apperror.New(0, fmt.Sprintf("unsupported backup version %d", manifest.Version), apperror.ErrBadRequest)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range backupTables {
			data, ok := entries[table.Name+".json"]
			if !ok {
				continue
			}

			var rows []map[string]any
			if err := json.Unmarshal(data, &rows); err != nil {
				return apperror.New(0, fmt.Sprintf("backup entry %s.json is unreadable", table.Name), apperror.ErrBadRequest)
			}
			if len(rows) == 0 {
				continue
			}

			if err := tx.Table(table.Name).
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: table.PK}},
					UpdateAll: true,
				}).
				Create(rows).Error; err != nil {
				return fmt.Errorf("failed to restore table %s: %w", table.Name, err)
			}
		}
		return nil
	})
}
