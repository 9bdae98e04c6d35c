package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/repository"
	"github.com/terzahh/samara-repository-sub000/pkg/apperror"
)

type BookmarkService interface {
	Add(ctx context.Context, userID, researchID uuid.UUID) error
	Remove(ctx context.Context, userID, researchID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, page dto.PageQuery) (*dto.PaginatedBookmarkResponse, error)
}

type bookmarkService struct {
	repo     repository.BookmarkRepository
	research repository.ResearchRepository
}

func NewBookmarkService(repo repository.BookmarkRepository, research repository.ResearchRepository) BookmarkService {
	return &bookmarkService{repo: repo, research: research}
}

func (s *bookmarkService) Add(ctx context.Context, userID, researchID uuid.UUID) error {
	if _, err := s.research.FindByID(ctx, researchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	exists, err := s.repo.Exists(ctx, userID, researchID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.ErrBookmarkExists
	}

	return s.repo.Create(ctx, &model.Bookmark{
		UserID:     userID,
		ResearchID: researchID,
	})
}

func (s *bookmarkService) Remove(ctx context.Context, userID, researchID uuid.UUID) error {
	err := s.repo.Delete(ctx, userID, researchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	return err
}

func (s *bookmarkService) List(ctx context.Context, userID uuid.UUID, page dto.PageQuery) (*dto.PaginatedBookmarkResponse, error) {
	bookmarks, total, err := s.repo.FindByUserID(ctx, userID, page.Offset(), page.Limit)
	if err != nil {
		return nil, err
	}

	for _, b := range bookmarks {
		b.Research.UploadedBy.PasswordHash = ""
	}

	return &dto.PaginatedBookmarkResponse{
		Data: bookmarks,
		Meta: dto.NewPaginationMeta(page.Page, page.Limit, total),
	}, nil
}
