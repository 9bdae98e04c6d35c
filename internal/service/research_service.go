package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/repository"
	"github.com/terzahh/samara-repository-sub000/pkg/apperror"
	"github.com/terzahh/samara-repository-sub000/pkg/storage"
)

// signedURLTTL bounds how long a restricted-document link stays valid.
const signedURLTTL = 15 * time.Minute

var allowedDocumentExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

type ResearchService interface {
	Upload(ctx context.Context, uploader *model.User, input dto.UploadResearchInput, file *multipart.FileHeader) (*model.Research, error)
	List(ctx context.Context, filter dto.ResearchFilter) (*dto.PaginatedResearchResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Research, error)
	Update(ctx context.Context, id uuid.UUID, actor *model.User, input dto.UpdateResearchInput) (*model.Research, error)
	Delete(ctx context.Context, id uuid.UUID, actor *model.User) error
	DownloadLink(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*dto.DownloadLinkResponse, error)
}

type researchService struct {
	repo        repository.ResearchRepository
	departments repository.DepartmentRepository
	docs        storage.DocumentStorage
	search      SearchService
	downloads   DownloadService
}

func NewResearchService(
	repo repository.ResearchRepository,
	departments repository.DepartmentRepository,
	docs storage.DocumentStorage,
	search SearchService,
	downloads DownloadService,
) ResearchService {
	return &researchService{
		repo:        repo,
		departments: departments,
		docs:        docs,
		search:      search,
		downloads:   downloads,
	}
}

func (s *researchService) Upload(ctx context.Context, uploader *model.User, input dto.UploadResearchInput, file *multipart.FileHeader) (*model.Research, error) {
	departmentID, err := uuid.Parse(input.DepartmentID)
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}

	if !canManageDepartment(uploader, departmentID) {
		return nil, apperror.ErrForbidden
	}

	department, err := s.departments.FindByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "department not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedDocumentExts[ext] {
		return nil, apperror.ErrUnsupportedFileType
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	objectPath := fmt.Sprintf("research/%s/%d-%s%s",
		slug.Make(department.Name), time.Now().UnixNano(), slug.Make(input.Title), ext)

	fileURL, err := s.docs.Upload(ctx, objectPath, src, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	accessLevel := input.AccessLevel
	if accessLevel == "" {
		accessLevel = model.AccessPublic
	}

	research := &model.Research{
		Title:        input.Title,
		Author:       input.Author,
		DepartmentID: departmentID,
		Type:         input.Type,
		Year:         input.Year,
		Abstract:     input.Abstract,
		Keywords:     input.Keywords,
		AccessLevel:  accessLevel,
		FilePath:     objectPath,
		FileURL:      fileURL,
		FileName:     file.Filename,
		FileSize:     file.Size,
		UploadedByID: uploader.ID,
	}

	if err := s.repo.Create(ctx, research); err != nil {
		// Don't leave an orphan object behind when the row insert fails.
		if removeErr := s.docs.Remove(ctx, objectPath); removeErr != nil {
			log.Printf("failed to remove orphan object %s: %v", objectPath, removeErr)
		}
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, research.ID)
	if err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexResearch(created); err != nil {
			log.Printf("failed to index research %s: %v", created.ID, err)
		}
	}

	return created, nil
}

func (s *researchService) List(ctx context.Context, filter dto.ResearchFilter) (*dto.PaginatedResearchResponse, error) {
	var departmentID *uuid.UUID
	if filter.DepartmentID != "" {
		id, err := uuid.Parse(filter.DepartmentID)
		if err != nil {
			return nil, apperror.ErrInvalidInput
		}
		departmentID = &id
	}

	var accessLevels []string
	if filter.AccessLevel != "" {
		accessLevels = []string{filter.AccessLevel}
	}

	offset := (filter.Page - 1) * filter.Limit

	items, total, err := s.repo.FindAll(ctx, departmentID, filter.Type, filter.Year, accessLevels, filter.Search, filter.SortBy, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		item.UploadedBy.PasswordHash = ""
	}

	return &dto.PaginatedResearchResponse{
		Data: items,
		Meta: dto.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

func (s *researchService) Get(ctx context.Context, id uuid.UUID) (*model.Research, error) {
	research, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	research.UploadedBy.PasswordHash = ""
	return research, nil
}

func (s *researchService) Update(ctx context.Context, id uuid.UUID, actor *model.User, input dto.UpdateResearchInput) (*model.Research, error) {
	research, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if !canManageDepartment(actor, research.DepartmentID) {
		return nil, apperror.ErrForbidden
	}

	if input.Title != nil {
		research.Title = *input.Title
	}
	if input.Author != nil {
		research.Author = *input.Author
	}
	if input.Type != nil {
		research.Type = *input.Type
	}
	if input.Year != nil {
		research.Year = *input.Year
	}
	if input.Abstract != nil {
		research.Abstract = *input.Abstract
	}
	if input.Keywords != nil {
		research.Keywords = *input.Keywords
	}
	if input.AccessLevel != nil {
		research.AccessLevel = *input.AccessLevel
	}

	if err := s.repo.Update(ctx, research); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexResearch(research); err != nil {
			log.Printf("failed to reindex research %s: %v", research.ID, err)
		}
	}

	research.UploadedBy.PasswordHash = ""
	return research, nil
}

func (s *researchService) Delete(ctx context.Context, id uuid.UUID, actor *model.User) error {
	research, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if !canManageDepartment(actor, research.DepartmentID) {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.docs.Remove(ctx, research.FilePath); err != nil {
		log.Printf("failed to remove stored object %s: %v", research.FilePath, err)
	}

	if s.search != nil {
		if err := s.search.DeleteResearch(id.String()); err != nil {
			log.Printf("failed to delete research %s from index: %v", id, err)
		}
	}

	return nil
}

// DownloadLink issues a download URL and records the download event.
// viewerID is uuid.Nil for guests; restricted documents require a signed-in
// viewer and get a short-lived signed URL instead of the public one.
func (s *researchService) DownloadLink(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*dto.DownloadLinkResponse, error) {
	research, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	resp := &dto.DownloadLinkResponse{}

	switch research.AccessLevel {
	case model.AccessRestricted:
		if viewerID == uuid.Nil {
			return nil, apperror.ErrUnauthorized
		}
		signed, err := s.docs.SignedURL(research.FilePath, signedURLTTL)
		if err != nil {
			return nil, err
		}
		resp.URL = signed
		resp.ExpiresIn = int64(signedURLTTL.Seconds())
	default:
		resp.URL = s.docs.PublicURL(research.FilePath)
	}

	if s.downloads != nil {
		if err := s.downloads.RecordDownload(ctx, research.ID, viewerID); err != nil {
			log.Printf("failed to record download for %s: %v", research.ID, err)
		}
	}

	return resp, nil
}

// canManageDepartment: admins manage everything; department heads only their
// own department.
func canManageDepartment(actor *model.User, departmentID uuid.UUID) bool {
	if actor == nil {
		return false
	}

	switch actor.Role.Name {
	case model.RoleAdmin:
		return true
	case model.RoleDepartmentHead:
		return actor.DepartmentID != nil && *actor.DepartmentID == departmentID
	}

	return false
}
